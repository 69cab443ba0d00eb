package ui

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reallygood83/mathemotion/adapters/credentials"
	"github.com/reallygood83/mathemotion/app"
	"github.com/reallygood83/mathemotion/internal"
)

// Options configures the dashboard server
type Options struct {
	GinMode        string
	SessionTTL     time.Duration
	UploadMaxBytes int64
	// defaults pre-filled into the spreadsheet form
	SpreadsheetID string
	Range         string
}

// Server is the survey dashboard web server
type Server struct {
	router    *gin.Engine
	service   *app.DashboardService
	chain     *credentials.Chain
	sessions  *sessionStore
	templates *template.Template
	guide     template.HTML
	opts      Options
	logger    *internal.Logger
}

// NewServer creates the dashboard server and registers its routes
func NewServer(service *app.DashboardService, chain *credentials.Chain, opts Options, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	guide, err := usageGuide()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.UploadMaxBytes > 0 {
		router.MaxMultipartMemory = opts.UploadMaxBytes
	}

	s := &Server{
		router:    router,
		service:   service,
		chain:     chain,
		sessions:  newSessionStore(opts.SessionTTL),
		templates: templates,
		guide:     guide,
		opts:      opts,
		logger:    logger,
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	dashboard := s.router.Group("/", s.sessionMiddleware())
	dashboard.GET("/", s.handleIndex)

	dashboard.POST("/load/sample", s.handleLoadSample)
	dashboard.POST("/load/upload", s.handleLoadUpload)
	dashboard.POST("/load/sheet", s.handleLoadSheet)
	dashboard.POST("/credentials", s.handleCredentialUpload)

	dashboard.GET("/charts/:kind", s.handleChart)

	dashboard.GET("/api/students", s.handleStudents)
	dashboard.GET("/api/table", s.handleTable)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves the dashboard until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[UI] survey dashboard listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("[UI] shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
