package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/seatwise/server/internal/api/handlers"
	"github.com/seatwise/server/internal/api/middleware"
	"github.com/seatwise/server/internal/auth"
	"github.com/seatwise/server/internal/config"
	"github.com/seatwise/server/internal/domain/events"
	"github.com/seatwise/server/internal/domain/registrations"
	"github.com/seatwise/server/internal/domain/users"
	"github.com/seatwise/server/internal/metrics"
	"github.com/seatwise/server/internal/storage"
)

// NewRouter wires handlers, middleware, and routes. The pool is only used
// for the readiness probe; all data access goes through repo.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, repo storage.Repository) http.Handler {
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	usersService := users.NewService(repo.Users(), logger)
	eventsService := events.NewService(repo.Events())
	registrationsService := registrations.NewService(repo.Registrations(), logger)

	authHandler := handlers.NewAuthHandler(usersService, jwtManager, cfg.Environment)
	eventsHandler := handlers.NewEventsHandler(eventsService, cfg.Environment)
	registrationsHandler := handlers.NewRegistrationsHandler(registrationsService, cfg.Environment)

	requireAuth := middleware.Auth(jwtManager, cfg.Environment)
	requireAdmin := middleware.RequireAdmin(cfg.Environment)
	userTier := middleware.WithRateLimitTierHandler(middleware.TierUser)
	loginTier := middleware.WithRateLimitTierHandler(middleware.TierLogin)

	// One limiter store shared by every route; the tier wrapper must run
	// before rateLimit so the limiter picks the right bucket.
	rateLimit := middleware.RateLimit(cfg.RateLimit)

	public := func(h http.HandlerFunc) http.Handler {
		return rateLimit(h)
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return requireAuth(userTier(rateLimit(h)))
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return requireAuth(requireAdmin(userTier(rateLimit(h))))
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/api/v1/auth/signup", methodMux(map[string]http.Handler{
		http.MethodPost: public(authHandler.Signup),
	}))
	mux.Handle("/api/v1/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: loginTier(rateLimit(http.HandlerFunc(authHandler.Login))),
	}))

	mux.Handle("/api/v1/me", methodMux(map[string]http.Handler{
		http.MethodGet: authed(authHandler.Me),
	}))

	mux.Handle("/api/v1/events", methodMux(map[string]http.Handler{
		http.MethodGet:  public(eventsHandler.List),
		http.MethodPost: authed(eventsHandler.Create),
	}))
	mux.Handle("/api/v1/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    public(eventsHandler.Get),
		http.MethodPut:    authed(eventsHandler.Update),
		http.MethodDelete: adminOnly(eventsHandler.Delete),
	}))
	mux.Handle("/api/v1/events/{id}/register", methodMux(map[string]http.Handler{
		http.MethodPost:   authed(registrationsHandler.Register),
		http.MethodDelete: authed(registrationsHandler.Cancel),
	}))
	mux.Handle("/api/v1/registrations", methodMux(map[string]http.Handler{
		http.MethodGet: authed(registrationsHandler.ListMine),
	}))

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.PublicRequestSize()(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
