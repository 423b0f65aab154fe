package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/sourcedeck/pkg/domain"
	"github.com/umputun/sourcedeck/pkg/feed"
	"github.com/umputun/sourcedeck/pkg/sources"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/sources.go -pkg mocks -skip-ensure -fmt goimports . Sources
//go:generate moq -out mocks/storage.go -pkg mocks -skip-ensure -fmt goimports . Storage

//go:embed templates
var templateFS embed.FS

// pages rendered with the base layout
var pageNames = []string{"dashboard.html", "sources.html"}

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	sources Sources
	storage Storage
	version string
	debug   bool

	generator *feed.Generator
	parser    *feed.Parser

	templates     *template.Template
	pageTemplates map[string]*template.Template

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Sources runs list page operations
type Sources interface {
	List(ctx context.Context, page sources.Page, query string) ([]domain.Source, error)
	Get(ctx context.Context, page sources.Page, id string) (domain.Source, error)
	Add(ctx context.Context, page sources.Page, src domain.Source) (domain.Source, error)
	Update(ctx context.Context, page sources.Page, id string, src domain.Source) (domain.Source, error)
	Delete(ctx context.Context, page sources.Page, id string) error
	Count(ctx context.Context, page sources.Page) (int, error)
}

// Storage reports the state of the storage backend
type Storage interface {
	Ping(ctx context.Context) error
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
	GetMaxUploadSize() int64
}

// New initializes a new server instance
func New(cfg ConfigProvider, src Sources, storage Storage, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		sources:   src,
		storage:   storage,
		version:   version,
		debug:     debug,
		generator: feed.NewGenerator(cfg.GetBaseURL()),
		parser:    feed.NewParser(),
		router:    routegroup.New(http.NewServeMux()),
	}

	s.templates, s.pageTemplates = mustParseTemplates(templateFS)
	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("sourcedeck", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(s.config.GetMaxUploadSize() + 1024*1024)) // upload plus form overhead
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// API routes
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /pages", s.pagesHandler)
		r.HandleFunc("GET /sources/{slug}", s.listSourcesHandler)
		r.HandleFunc("POST /sources/{slug}", s.createSourceHandler)
		r.HandleFunc("GET /sources/{slug}/{id}", s.getSourceHandler)
		r.HandleFunc("PUT /sources/{slug}/{id}", s.updateSourceHandler)
		r.HandleFunc("DELETE /sources/{slug}/{id}", s.deleteSourceHandler)
	})

	// dashboard and generic add form
	s.router.HandleFunc("GET /{$}", s.dashboardHandler)
	s.router.HandleFunc("GET /content_source/new", s.genericFormHandler)
	s.router.HandleFunc("POST /content_source/check", s.genericCheckHandler)
	s.router.HandleFunc("POST /content_source", s.genericCreateHandler)

	// list pages
	s.router.Mount("/content_source").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /{slug}", s.sourcesPageHandler)
		r.HandleFunc("GET /{slug}/rows", s.sourceRowsHandler)
		r.HandleFunc("GET /{slug}/new", s.newSourceFormHandler)
		r.HandleFunc("GET /{slug}/{id}/edit", s.editSourceFormHandler)
		r.HandleFunc("POST /{slug}/check", s.checkSourceFormHandler)
		r.HandleFunc("POST /{slug}", s.createSourceFormHandler)
		r.HandleFunc("PUT /{slug}/{id}", s.updateSourceFormHandler)
		r.HandleFunc("DELETE /{slug}/{id}", s.deleteSourceRowHandler)
		r.HandleFunc("GET /{slug}/{id}/secret", s.secretCellHandler)
		r.HandleFunc("GET /{slug}/{id}/file", s.fileHandler)

		// rss subscription import and export
		r.HandleFunc("POST /{slug}/import", s.importFeedsHandler)
		r.HandleFunc("GET /{slug}/export", s.exportFeedsHandler)
	})
}

// mustParseTemplates parses shared components and one template set per page
func mustParseTemplates(fsys fs.FS) (*template.Template, map[string]*template.Template) {
	funcs := template.FuncMap{
		"join":    strings.Join,
		"shorten": shorten,
	}

	templates := template.Must(template.New("").Funcs(funcs).ParseFS(fsys, "templates/components/*.html"))

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(template.New("").Funcs(funcs).ParseFS(fsys,
			"templates/base.html", "templates/"+name, "templates/components/*.html"))
	}
	return templates, pages
}

// renderPage renders a pre-parsed page template
func (s *Server) renderPage(w http.ResponseWriter, templateName string, data any) error {
	tmpl, ok := s.pageTemplates[templateName]
	if !ok {
		return fmt.Errorf("template %s not found", templateName)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, templateName, data)
}

// renderFragment renders a component template with the given status code
func (s *Server) renderFragment(w http.ResponseWriter, code int, templateName string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := s.templates.ExecuteTemplate(w, templateName, data); err != nil {
		log.Printf("[WARN] failed to render %s: %v", templateName, err)
	}
}

// respondWithError logs the error and sends a plain error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Printf("[WARN] %s: %v", message, err)
	}
	http.Error(w, message, code)
}

// renderNotice shows a notice in the page notice area instead of the request target
func (s *Server) renderNotice(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Printf("[WARN] %s: %v", message, err)
	}
	w.Header().Set("HX-Retarget", "#notice")
	w.Header().Set("HX-Reswap", "innerHTML")
	s.renderFragment(w, code, "notice", noticeView{Message: message, Level: levelFor(code)})
}
