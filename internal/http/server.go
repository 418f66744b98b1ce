package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"shoplist/internal/core"
	"shoplist/internal/log"
	"shoplist/internal/middleware/ratelimit"
	"shoplist/internal/middleware/security"
	"shoplist/internal/middleware/trace"
	"shoplist/internal/services"
)

// ListAPI is the application surface the handlers drive.
type ListAPI interface {
	CreateList(ctx context.Context, in services.NewListInput) (core.List, error)
	GetList(ctx context.Context, id string) (core.List, error)
	ListLists(ctx context.Context, query string) ([]core.List, error)
	DeleteList(ctx context.Context, id string) error
	Items(ctx context.Context, listID string, showCompleted bool) ([]core.Item, error)
	AddItem(ctx context.Context, listID, name string, autoCategorize bool) (core.List, core.Item, error)
	UpdateItem(ctx context.Context, listID, itemID string, p services.ItemPatch) (core.List, error)
	ToggleItem(ctx context.Context, listID, itemID string) (core.List, error)
	RemoveItem(ctx context.Context, listID, itemID string) (core.List, error)
	ClearCompleted(ctx context.Context, listID string) (core.List, int, error)
	Share(ctx context.Context, listID string) (string, error)
	Overview(ctx context.Context) (core.Overview, error)
}

// Options configures the middleware stack.
type Options struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	Logger             *log.Logger
}

type Server struct {
	http.Server
	lists    ListAPI
	validate *validator.Validate
	logger   *log.Logger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	started time.Time
}

// NewServer wires the router and middleware around lists.
func NewServer(addr string, lists ListAPI, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	detector := security.NewDetector()

	s := &Server{
		lists:    lists,
		validate: newValidator(),
		logger:   logger,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: detector,
		tracer:   trace.NewMiddleware(logger.WithComponent(log.ComponentTrace), detector.ExtractClientIP),
		started:  time.Now(),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(opts Options) http.Handler {
	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.tracer.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware(s.logger.WithComponent(log.ComponentSecurity), true))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", trace.HeaderRequestID},
		ExposedHeaders: []string{"Location", trace.HeaderRequestID, "Retry-After"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("route not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed", "").Write(w)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldComponent, log.ComponentRateLimit,
				log.FieldClientIP, s.detector.ExtractClientIP(r))
			TooManyRequestsError().Write(w)
		}))

		r.Get("/overview", s.handleOverview)

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", s.handleListLists)
			r.Post("/", s.handleCreateList)

			r.Route("/{listID}", func(r chi.Router) {
				r.Get("/", s.handleGetList)
				r.Delete("/", s.handleDeleteList)
				r.Post("/clear-completed", s.handleClearCompleted)
				r.Post("/share", s.handleShare)

				r.Get("/items", s.handleListItems)
				r.Post("/items", s.handleAddItem)
				r.Patch("/items/{itemID}", s.handlePatchItem)
				r.Delete("/items/{itemID}", s.handleRemoveItem)
				r.Post("/items/{itemID}/toggle", s.handleToggleItem)
			})
		})
	})
	return r
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	if err := s.Server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
