package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/formgate/pkg/usecase"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
)

const (
	DefaultOwnerHeader = "X-Owner-ID"

	// DefaultMaxBodySize leaves room for base64 encoded file answers
	DefaultMaxBodySize int64 = 32 << 20
)

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	ownerHeader string
	frontendURL string
	maxBodySize int64
}

type Options func(*Server)

// WithOwnerHeader sets the request header carrying the authenticated owner
// id. The header is trusted and must be set by an authenticating proxy.
func WithOwnerHeader(name string) Options {
	return func(s *Server) {
		if name != "" {
			s.ownerHeader = name
		}
	}
}

// WithFrontendURL enables the /form/{token} redirect to the form renderer
func WithFrontendURL(frontendURL string) Options {
	return func(s *Server) {
		s.frontendURL = strings.TrimRight(frontendURL, "/")
	}
}

func WithMaxBodySize(size int64) Options {
	return func(s *Server) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		uc:          uc,
		ownerHeader: DefaultOwnerHeader,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/forms", func(r chi.Router) {
		r.Use(ownerMiddleware(s.ownerHeader))

		r.Post("/", s.createFormHandler)
		r.Get("/", s.listFormsHandler)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getFormHandler)
			r.Put("/", s.updateFormHandler)
			r.Delete("/", s.deleteFormHandler)
			r.Post("/publish", s.publishFormHandler)
			r.Post("/unpublish", s.unpublishFormHandler)
			r.Get("/stats", s.statsHandler)
			r.Get("/export", s.exportHandler)
		})
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/form/{token}", s.publicFormHandler)
		r.Post("/submit/{token}", s.submitHandler)
	})

	if s.frontendURL != "" {
		r.Get("/form/{token}", s.formRedirectHandler)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) formRedirectHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	http.Redirect(w, r, s.frontendURL+"/form/"+url.PathEscape(token), http.StatusFound)
}
