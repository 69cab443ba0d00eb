package container

import (
	"fmt"

	"github.com/reallygood83/mathemotion/adapters/credentials"
	"github.com/reallygood83/mathemotion/adapters/datareadiness/coercer"
	"github.com/reallygood83/mathemotion/app"
	"github.com/reallygood83/mathemotion/internal"
	"github.com/reallygood83/mathemotion/internal/analysis"
	"github.com/reallygood83/mathemotion/internal/chart"
	"github.com/reallygood83/mathemotion/internal/config"
	"github.com/reallygood83/mathemotion/internal/dataset"
	"github.com/reallygood83/mathemotion/internal/errors"
	"github.com/reallygood83/mathemotion/internal/testkit"
)

// Container holds the application's components, built once from config
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Normalizer  *dataset.Normalizer
	Renderer    *chart.Renderer
	Credentials *credentials.Chain
	Uploads     *credentials.UploadProvider
	RNG         *testkit.RNGAdapter

	Dashboard *app.DashboardService
}

// New wires every component from cfg
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	policy, err := analysis.ParseMissingPolicy(cfg.Chart.MissingPolicy)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	levels, err := internal.ParseComponentLevels(cfg.LogLevels)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)).WithComponentLevels(levels),
	}

	c.initData()
	c.initChart(policy)
	c.initCredentials()

	c.Dashboard = app.NewDashboardService(app.DashboardConfig{
		Normalizer:  c.Normalizer,
		Renderer:    c.Renderer,
		Credentials: c.Credentials,
		RNG:         c.RNG,
		Sample: testkit.SurveyGeneratorConfig{
			Roster: append([]string(nil), testkit.DefaultRoster...),
			Date:   cfg.Data.SampleDate,
			Seed:   cfg.Data.SampleSeed,
		},
		UploadMaxBytes: cfg.Data.UploadMaxBytes,
		ExcelSheet:     cfg.Data.ExcelSheet,
		MaxConcurrent:  int64(cfg.Chart.MaxConcurrent),
		Logger:         c.Logger,
	})

	c.Logger.Info("[Container] components initialized (missing policy %s, %d concurrent renders)", policy, cfg.Chart.MaxConcurrent)
	return c, nil
}

func (c *Container) initData() {
	coercion := coercer.DefaultCoercionConfig()
	coercion.Lenient = c.Config.Data.LenientNumbers
	c.Normalizer = dataset.NewNormalizer(coercion, c.Logger)
	c.RNG = testkit.NewRNGAdapter()
}

func (c *Container) initChart(policy analysis.MissingPolicy) {
	c.Renderer = chart.NewRenderer(chart.Options{
		DPI:          c.Config.Chart.DPI,
		WidthInches:  c.Config.Chart.WidthInches,
		HeightInches: c.Config.Chart.HeightInches,
		Policy:       policy,
		Fonts:        chart.NewFontLocator(c.Config.Chart.FontPath, c.Config.Chart.FontDirs),
	}, c.Logger)
	if font := c.Renderer.Font(); font != nil {
		c.Logger.Info("[Container] chart font: %s", font.Family)
	}
}

func (c *Container) initCredentials() {
	c.Uploads = credentials.NewUploadProvider()
	c.Credentials = credentials.NewChain(
		c.Config.Credentials.SecretJSON,
		c.Config.Credentials.EnvPath,
		c.Config.Credentials.LocalFile,
		c.Uploads,
		c.Logger,
	)
}
