package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/reallygood83/mathemotion/adapters/excel"
	"github.com/reallygood83/mathemotion/adapters/sheets"
	"github.com/reallygood83/mathemotion/domain/survey"
	"github.com/reallygood83/mathemotion/internal"
	"github.com/reallygood83/mathemotion/internal/analysis"
	"github.com/reallygood83/mathemotion/internal/chart"
	"github.com/reallygood83/mathemotion/internal/dataset"
	"github.com/reallygood83/mathemotion/internal/errors"
	"github.com/reallygood83/mathemotion/internal/testkit"
	"github.com/reallygood83/mathemotion/ports"
)

// SourceKind names where a load action reads rows from
type SourceKind string

const (
	SourceSample SourceKind = "sample"
	SourceUpload SourceKind = "upload"
	SourceSheet  SourceKind = "sheet"
	SourceFile   SourceKind = "file"
)

// LoadRequest describes one load action
type LoadRequest struct {
	Source SourceKind
	// SessionKey separates sample streams of different sessions
	SessionKey string

	Upload   io.Reader
	Filename string

	FilePath string

	SpreadsheetID string
	Range         string
}

// LoadResult is a freshly normalized table plus what the dashboard shows about it
type LoadResult struct {
	Table    *survey.Table
	Report   *dataset.NormalizeReport
	Warning  error
	Students []string
	Source   string
	LoadedAt time.Time
}

// TableSummary is the JSON view of a loaded table
type TableSummary struct {
	Rows     int                    `json:"rows"`
	Columns  []string               `json:"columns"`
	Students []string               `json:"students"`
	Absent   []string               `json:"absent,omitempty"`
	Warning  string                 `json:"warning,omitempty"`
	Policy   analysis.MissingPolicy `json:"missing_policy"`
	Items    []analysis.ItemSummary `json:"items,omitempty"`
}

// FetcherFactory builds a spreadsheet client from a credential blob
type FetcherFactory func(ctx context.Context, credential []byte) (sheets.ValuesFetcher, error)

// DashboardConfig wires the dashboard service
type DashboardConfig struct {
	Normalizer     *dataset.Normalizer
	Renderer       *chart.Renderer
	Credentials    ports.CredentialProvider
	Fetchers       FetcherFactory
	RNG            ports.RNGPort
	Sample         testkit.SurveyGeneratorConfig
	UploadMaxBytes int64
	ExcelSheet     string
	MaxConcurrent  int64
	Logger         *internal.Logger
}

// DashboardService runs load (fetch and normalize) and analyze (render) actions
type DashboardService struct {
	normalizer  *dataset.Normalizer
	renderer    *chart.Renderer
	credentials ports.CredentialProvider
	fetchers    FetcherFactory
	rng         ports.RNGPort
	sample      testkit.SurveyGeneratorConfig
	uploadMax   int64
	excelSheet  string
	renderSem   *semaphore.Weighted
	logger      *internal.Logger
}

// NewDashboardService creates a dashboard service
func NewDashboardService(cfg DashboardConfig) *DashboardService {
	if cfg.Logger == nil {
		cfg.Logger = internal.DefaultLogger
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RNG == nil {
		cfg.RNG = testkit.NewRNGAdapter()
	}
	if cfg.Fetchers == nil {
		cfg.Fetchers = func(ctx context.Context, credential []byte) (sheets.ValuesFetcher, error) {
			return sheets.NewClient(ctx, credential)
		}
	}
	return &DashboardService{
		normalizer:  cfg.Normalizer,
		renderer:    cfg.Renderer,
		credentials: cfg.Credentials,
		fetchers:    cfg.Fetchers,
		rng:         cfg.RNG,
		sample:      cfg.Sample,
		uploadMax:   cfg.UploadMaxBytes,
		excelSheet:  cfg.ExcelSheet,
		renderSem:   semaphore.NewWeighted(cfg.MaxConcurrent),
		logger:      cfg.Logger,
	}
}

// Load fetches rows from the requested source and normalizes them. Failures to
// read the source abort the load; a missing survey item only sets Warning.
func (s *DashboardService) Load(ctx context.Context, req LoadRequest) (*LoadResult, error) {
	startTime := time.Now()

	source, label, err := s.rowSource(ctx, req)
	if err != nil {
		return nil, err
	}

	raw, err := source.Rows(ctx)
	if err != nil {
		s.logger.Warn("[Dashboard] load from %s failed: %v", label, err)
		return nil, err
	}

	table, report, err := s.normalizer.NormalizeWithReport(raw)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{
		Table:    table,
		Report:   report,
		Warning:  table.Warning(),
		Students: table.Students(),
		Source:   label,
		LoadedAt: time.Now(),
	}
	s.logger.Info("[Dashboard] loaded %d rows from %s in %.2fms", table.Len(), label, float64(time.Since(startTime).Nanoseconds())/1e6)
	return result, nil
}

func (s *DashboardService) rowSource(ctx context.Context, req LoadRequest) (ports.RowSource, string, error) {
	switch req.Source {
	case SourceSample:
		return testkit.NewSampleSource(s.rng, s.sample, req.SessionKey), "sample data", nil

	case SourceUpload:
		if req.Upload == nil {
			return nil, "", errors.InvalidInput("no file uploaded")
		}
		reader, err := excel.NewStreamReader(req.Upload, req.Filename, s.uploadMax)
		if err != nil {
			return nil, "", err
		}
		return reader.WithSheet(s.excelSheet), req.Filename, nil

	case SourceFile:
		if req.FilePath == "" {
			return nil, "", errors.InvalidInput("file path is required")
		}
		return excel.NewDataReaderFromConfig(excel.ExcelConfig{FilePath: req.FilePath, Sheet: s.excelSheet}), req.FilePath, nil

	case SourceSheet:
		if s.credentials == nil {
			return nil, "", errors.CredentialMissing("no credential provider configured")
		}
		blob, err := s.credentials.Credential(ctx)
		if err != nil {
			return nil, "", err
		}
		fetcher, err := s.fetchers(ctx, blob)
		if err != nil {
			return nil, "", err
		}
		src := sheets.NewSource(fetcher, req.SpreadsheetID, req.Range)
		return src, fmt.Sprintf("spreadsheet %s (%s)", src.SpreadsheetID(), src.Range()), nil

	default:
		return nil, "", errors.InvalidInput(fmt.Sprintf("unknown source: %q", req.Source))
	}
}

// Analyze renders one chart. At most MaxConcurrent renders run at once; a
// cancelled context gives up its place in the queue.
func (s *DashboardService) Analyze(ctx context.Context, table *survey.Table, req chart.Request) (*chart.Image, error) {
	if err := s.renderSem.Acquire(ctx, 1); err != nil {
		return nil, errors.RenderFailure("render queue abandoned", err)
	}
	defer s.renderSem.Release(1)

	img, err := s.renderer.Render(ctx, table, req)
	if err != nil {
		s.logger.Debug("[Dashboard] %s for %q failed: %v", req.Kind, req.Student, err)
		return nil, err
	}
	for _, w := range img.Warnings {
		s.logger.Debug("[Dashboard] %s warning: %s", req.Kind, w)
	}
	return img, nil
}

// Summarize describes a loaded table for the JSON API
func (s *DashboardService) Summarize(table *survey.Table) TableSummary {
	summary := TableSummary{
		Rows:     table.Len(),
		Columns:  table.Columns(),
		Students: table.Students(),
		Absent:   survey.Names(table.Absent),
		Policy:   s.renderer.Policy(),
	}
	if warn := table.Warning(); warn != nil {
		summary.Warning = warn.Error()
		return summary
	}
	summary.Items = analysis.Summarize(table, survey.ItemFields, summary.Policy)
	return summary
}
