package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"labdesk/internal/core"
	"labdesk/internal/finance"
	"labdesk/internal/grid"
	"labdesk/internal/log"
	"labdesk/internal/metrics"
	"labdesk/internal/middleware/ratelimit"
	"labdesk/internal/middleware/security"
	"labdesk/internal/middleware/trace"
	"labdesk/internal/services"
	"labdesk/internal/store"
	"labdesk/internal/tables"
	appweb "labdesk/web"
)

// storeTimeout bounds every store call made while serving a request.
const storeTimeout = 7 * time.Second

// Deps are the collaborators of the server. Metrics may be nil.
type Deps struct {
	Store              store.Store
	Service            *services.LabService
	Registry           *grid.Registry
	Metrics            *metrics.Metrics
	Logger             *log.Logger
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	templates *template.Template
	store     store.Store
	service   *services.LabService
	registry  *grid.Registry
	metrics   *metrics.Metrics
	logger    *log.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tables    map[string]table

	shutdownOnce sync.Once
}

var templateFuncs = template.FuncMap{
	"statusLabel": finance.BookingStatusLabel,
	"methodLabel": tables.MethodLabel,
	"genderLabel": tables.GenderLabel,
	"anomalyTone": finance.AnomalyTone,
}

// ParseTemplates parses the embedded page templates.
func ParseTemplates() (*template.Template, error) {
	return template.New("labdesk").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

// NewServer configures routes, templates and middleware, returning a
// ready-to-run server.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Store == nil || deps.Service == nil || deps.Registry == nil {
		return nil, fmt.Errorf("http server: store, service and registry are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	t, err := ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	mux := http.NewServeMux()
	s := &Server{
		templates: t,
		store:     deps.Store,
		service:   deps.Service,
		registry:  deps.Registry,
		metrics:   deps.Metrics,
		logger:    logger,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		detector:  security.NewDetector(logger),
		tables:    newTables(deps.Store),
	}

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static files: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(http.StripPrefix("/static/", http.FileServer(http.FS(sub)))))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ui/tables/{table}", s.handleTable)
	mux.HandleFunc("POST /ui/tables/{table}/groups/{key}/toggle", s.handleToggleGroup)
	mux.HandleFunc("POST /ui/tables/{table}/reset", s.handleResetTable)

	mux.HandleFunc("GET /bookings/{id}", s.handleBooking)
	mux.HandleFunc("POST /bookings/{id}", s.handleEditBooking)
	mux.HandleFunc("POST /bookings/{id}/payments", s.handleAddPayment)
	mux.HandleFunc("GET /patients/{id}", s.handlePatient)
	mux.HandleFunc("POST /patients/{id}", s.handleEditPatient)
	mux.HandleFunc("GET /tests/{id}", s.handleTest)
	mux.HandleFunc("POST /tests/{id}", s.handleEditTest)

	var observer trace.Observer
	if s.metrics != nil {
		observer = s.metrics
	}
	route := func(r *http.Request) string {
		if _, pattern := mux.Handler(r); pattern != "" {
			return pattern
		}
		return "unmatched"
	}
	tracer := trace.NewMiddleware(logger, s.detector.ExtractClientIP, route, observer)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit, http.MethodPost)

	var h http.Handler = mux
	h = limit(h)
	h = headers.Middleware(h)
	h = s.detector.Middleware(h)
	h = log.Middleware(logger, trace.RequestID)(h)
	h = tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s, nil
}

// Shutdown stops the rate limiter and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RateLimited()
	}
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many changes in a short time. Please wait a minute and try again.").
		Header("Retry-After", "60").
		TriggerErrorNotification("Rate limit exceeded").
		Write(w)
}

// render executes a template with status 200.
func (s *Server) render(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	if err := b.BodyTemplate(s.templates, name, data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Template execution failed",
			"template", name,
			log.FieldError, err)
	}
	b.Write(w)
}

// fail maps an error from the store or the services onto a response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, kind string, err error) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	if msg, ok := userMessage(err); ok {
		logger.InfoContext(ctx, "Form rejected", "error_type", log.ErrorTypeValidation, log.FieldError, err)
		UnprocessableEntityError(msg).Write(w)
		return
	}
	switch {
	case isNotFound(err):
		NotFoundError(kind + " not found").Write(w)
	case isTimeout(err):
		logger.WarnContext(ctx, "Store call timed out", "error_type", log.ErrorTypeTimeout, log.FieldError, err)
		ServiceUnavailableError("The records are taking too long to load. Please try again.").Write(w)
	default:
		logger.ErrorContext(ctx, "Request failed", "error_type", log.ErrorTypeInternal, log.FieldError, err)
		InternalServerError("Something went wrong").Write(w)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := s.store.ListTests(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

type formChoices struct {
	Statuses []core.BookingStatus
	Methods  []core.PaymentMethod
	Genders  []core.Gender
}

var choices = formChoices{
	Statuses: core.BookingStatuses(),
	Methods:  core.PaymentMethods(),
	Genders:  core.Genders(),
}
