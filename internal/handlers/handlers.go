package handlers

import (
	"Classifieds/internal/config"
	"Classifieds/internal/metrics"
	"Classifieds/internal/middleware"
	"Classifieds/internal/service"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Handler struct {
	Router  chi.Router
	limiter *middleware.RateLimiter
}

// Deps собирает зависимости HTTP-слоя.
type Deps struct {
	Users    *service.UserService
	Items    *service.ItemService
	Taxonomy *service.TaxonomyService
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer // nil: без /metrics
	Logger   *zap.SugaredLogger
	Config   *config.Config
}

// NewHandler разводящий для хендлеров
func NewHandler(d Deps) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.WithLogging)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithMetrics(d.Metrics))
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithAuth(d.Config.AuthSecret))

	limiter := middleware.NewRateLimiter(d.Config.RateLimitPerMin, 10*time.Minute)

	userHandler := NewUserHandler(d.Users, d.Logger, d.Config)
	itemHandler := NewItemHandler(d.Items, d.Users, d.Taxonomy, d.Logger, d.Config)
	taxonomyHandler := NewTaxonomyHandler(d.Taxonomy, d.Logger)
	profileHandler := NewProfileHandler(d.Users, d.Logger)
	siteHandler := NewSiteHandler(d.Config)

	// Public
	r.Get("/", taxonomyHandler.Index)
	r.Get("/search", itemHandler.Search)
	r.Get("/group/{id}", taxonomyHandler.Group)
	r.Get("/group/{id}/{slug}", taxonomyHandler.Group)
	r.Get("/item/{id}/{slug}", itemHandler.Detail)
	r.Get("/robots.txt", siteHandler.Robots)

	// User routes
	r.Route("/user", func(r chi.Router) {
		r.With(limiter.Limit).Post("/register", userHandler.Register)
		r.With(limiter.Limit).Post("/login", userHandler.Login)
		r.Post("/logout", userHandler.Logout)
		r.Get("/status", userHandler.Status)
	})

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/item/new", itemHandler.New)
		r.With(limiter.Limit).Post("/item/new", itemHandler.Create)
		r.Get("/item/{id}/edit", itemHandler.Edit)
		r.Post("/item/{id}/edit", itemHandler.Update)
		r.Post("/item/{id}/delete", itemHandler.Delete)
		r.Get("/my", itemHandler.My)
		r.Get("/profile", profileHandler.View)
		r.Post("/profile", profileHandler.Update)
	})

	media := http.StripPrefix("/media/", http.FileServer(http.Dir(d.Config.MediaRoot)))
	r.Get("/media/*", media.ServeHTTP)

	if d.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(d.Gatherer))
	}

	return &Handler{Router: r, limiter: limiter}
}

// Close останавливает фоновые задачи хендлеров.
func (h *Handler) Close() {
	h.limiter.Stop()
}
