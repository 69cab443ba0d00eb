package ui

import (
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reallygood83/mathemotion/app"
	"github.com/reallygood83/mathemotion/internal/chart"
	"github.com/reallygood83/mathemotion/internal/errors"
)

// indexPage is the data behind the dashboard template
type indexPage struct {
	Loaded        bool
	Source        string
	Rows          int
	Students      []string
	Warning       string
	Available     []string
	SpreadsheetID string
	Range         string
	Credential    string
	CredentialErr string
	Guide         template.HTML
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.len()})
}

func (s *Server) handleIndex(c *gin.Context) {
	page := indexPage{
		SpreadsheetID: s.opts.SpreadsheetID,
		Range:         s.opts.Range,
		Guide:         s.guide,
	}
	if result := s.sessions.result(sessionID(c)); result != nil {
		page.Loaded = true
		page.Source = result.Source
		page.Rows = result.Table.Len()
		page.Students = result.Students
		if result.Warning != nil {
			page.Warning = result.Warning.Error()
			page.Available = result.Table.Columns()
		}
	}
	if s.chain != nil {
		if _, identity, err := s.chain.Resolve(c.Request.Context()); err == nil {
			page.Credential = identity.ClientEmail
		} else {
			page.CredentialErr = err.Error()
		}
	}
	s.renderTemplate(c, "index.html", page)
}

func (s *Server) handleLoadSample(c *gin.Context) {
	s.load(c, app.LoadRequest{Source: app.SourceSample, SessionKey: sessionID(c)})
}

func (s *Server) handleLoadUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("dataset")
	if err != nil {
		s.respondError(c, errors.InvalidInput("multipart field \"dataset\" is required"))
		return
	}
	defer file.Close()

	s.load(c, app.LoadRequest{
		Source:   app.SourceUpload,
		Upload:   file,
		Filename: header.Filename,
	})
}

func (s *Server) handleLoadSheet(c *gin.Context) {
	id := c.PostForm("spreadsheet_id")
	rng := c.PostForm("range")
	if strings.TrimSpace(id) == "" {
		id = s.opts.SpreadsheetID
	}
	if strings.TrimSpace(rng) == "" {
		rng = s.opts.Range
	}
	s.load(c, app.LoadRequest{Source: app.SourceSheet, SpreadsheetID: id, Range: rng})
}

// load runs one load action and swaps the result into the session. A failed
// load leaves the previous table in place.
func (s *Server) load(c *gin.Context, req app.LoadRequest) {
	result, err := s.service.Load(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.sessions.replace(sessionID(c), result)

	body := gin.H{
		"source":   result.Source,
		"rows":     result.Table.Len(),
		"columns":  result.Table.Columns(),
		"students": result.Students,
		"report":   result.Report,
	}
	if result.Warning != nil {
		body["warning"] = result.Warning.Error()
		body["available_columns"] = result.Table.Columns()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleCredentialUpload(c *gin.Context) {
	if s.chain == nil {
		s.respondError(c, errors.CredentialMissing("credential upload is not enabled"))
		return
	}
	file, _, err := c.Request.FormFile("credentials")
	if err != nil {
		s.respondError(c, errors.InvalidInput("multipart field \"credentials\" is required"))
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(io.LimitReader(file, 64<<10))
	if err != nil {
		s.respondError(c, errors.InvalidInput("failed to read credential file"))
		return
	}
	identity, err := s.chain.Upload(blob)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client_email": identity.ClientEmail, "project_id": identity.ProjectID})
}

func (s *Server) handleChart(c *gin.Context) {
	kind, err := chart.ParseKind(c.Param("kind"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	student := strings.TrimSpace(c.Query("student"))
	if kind.NeedsStudent() && student == "" {
		s.respondError(c, errors.InvalidInput("student is required for "+string(kind)))
		return
	}

	result := s.sessions.result(sessionID(c))
	if result == nil {
		s.respondError(c, errors.InvalidInput("no survey data loaded"))
		return
	}

	img, err := s.service.Analyze(c.Request.Context(), result.Table, chart.Request{Kind: kind, Student: student})
	if err != nil {
		s.respondError(c, err)
		return
	}

	if wantsBase64(c) {
		c.JSON(http.StatusOK, gin.H{
			"kind":     img.Kind,
			"series":   img.Series,
			"image":    img.Base64(),
			"warnings": img.Warnings,
		})
		return
	}
	for _, w := range img.Warnings {
		c.Writer.Header().Add("X-Chart-Warning", w)
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", img.PNG)
}

func (s *Server) handleStudents(c *gin.Context) {
	result := s.sessions.result(sessionID(c))
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"students": []string{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": result.Students})
}

func (s *Server) handleTable(c *gin.Context) {
	result := s.sessions.result(sessionID(c))
	if result == nil {
		s.respondError(c, errors.InvalidInput("no survey data loaded"))
		return
	}
	summary := s.service.Summarize(result.Table)
	c.JSON(http.StatusOK, gin.H{
		"source":    result.Source,
		"loaded_at": result.LoadedAt,
		"summary":   summary,
		"report":    result.Report,
	})
}
