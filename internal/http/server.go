package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"gastos/internal/log"
	"gastos/internal/middleware/ratelimit"
	"gastos/internal/middleware/security"
	"gastos/internal/middleware/trace"
	"gastos/internal/services"
	appweb "gastos/web"
)

// pages maps a page name to its template file. Every page is parsed
// together with layout.html.
var pages = map[string]string{
	"index":      "templates/index.html",
	"categorias": "templates/categorias.html",
	"admin":      "templates/admin.html",
}

// Options configures NewServer.
type Options struct {
	Addr string

	// RateLimitPerMinute caps POST requests per client; zero disables it.
	RateLimitPerMinute int

	Logger *log.Logger
}

type Server struct {
	http.Server
	templates  map[string]*template.Template
	expenses   *services.ExpenseService
	categories *services.CategoryService
	logger     *log.Logger
	limiter    *ratelimit.Limiter
	tracer     *trace.Middleware
	detector   *security.Detector
	startedAt  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, templates and middleware, returning a
// ready-to-run server.
func NewServer(opts Options, expenses *services.ExpenseService, categories *services.CategoryService) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		templates:  templates,
		expenses:   expenses,
		categories: categories,
		logger:     logger.WithComponent(log.ComponentHTTP),
		startedAt:  time.Now(),
	}

	mux := http.NewServeMux()

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.Handle("GET /{$}", security.NoStore(http.HandlerFunc(s.handleIndex)))
	mux.HandleFunc("POST /adicionar", s.handleCreateExpense)
	mux.HandleFunc("POST /lancamentos/{id}/editar", s.handleUpdateExpense)
	mux.HandleFunc("POST /lancamentos/{id}/excluir", s.handleDeleteExpense)

	mux.Handle("GET /categorias", security.NoStore(http.HandlerFunc(s.handleCategories)))
	mux.HandleFunc("POST /categorias", s.handleCreateCategory)
	mux.HandleFunc("POST /categorias/{id}/renomear", s.handleRenameCategory)
	mux.HandleFunc("POST /categorias/{id}/excluir", s.handleDeleteCategory)

	mux.Handle("GET /admin", security.NoStore(http.HandlerFunc(s.handleAdmin)))

	s.detector = security.NewDetector(logger)
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var handler http.Handler = mux
	if opts.RateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})
		handler = s.limiter.Middleware(s.detector.ExtractClientIP, logger)(handler)
	}
	handler = headers.Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = log.RequestIDMiddleware(trace.FromRequest)(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(s.logger)(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{"brl": formatBRL}

	out := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(appweb.TemplatesFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// render writes a full page. Templates execute into memory first so a
// failing template never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	t, ok := s.templates[page]
	if !ok {
		s.logger.ErrorContext(r.Context(), "Unknown template", "template", page)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.NewStructuredLogger(s.logger).LogError(r.Context(), "Template execution failed", err,
			log.ComponentTemplate, log.OpRender, log.NewFields().WithRequestID(trace.FromRequest(r)))
		http.Error(w, "Erro ao exibir a página.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
