package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	dErrors "regnet/pkg/domain-errors"
	"regnet/pkg/platform/httputil"
	"regnet/pkg/platform/middleware/admin"
	authmw "regnet/pkg/platform/middleware/auth"
	"regnet/pkg/platform/middleware/metadata"
	request "regnet/pkg/platform/middleware/request"
	"regnet/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterConfig carries everything the router mounts. Tokens and AdminToken
// are optional; without both the /admin routes are not served.
type RouterConfig struct {
	Logger      *slog.Logger
	Users       *UserHandler
	Assets      *AssetHandler
	Tokens      *TokenHandler
	AdminToken  string
	Validator   authmw.JWTValidator
	Revocations authmw.TokenRevocationChecker
	Metrics     http.Handler
	Health      map[string]HealthCheck
	Timeout     time.Duration
}

// NewRouter wires the invocation endpoints. Participants call /users,
// registrars call /registrar; the token role decides which.
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(cfg.Logger))
	r.Use(chimw.StripSlashes)

	r.Get("/healthz", healthHandler(cfg.Health))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	requireAuth := authmw.RequireAuth(cfg.Validator, cfg.Revocations, cfg.Logger)

	r.Route("/users", func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))
		r.Use(requireAuth)
		r.Use(authmw.RequireRole(cfg.Logger, authmw.RoleUser))
		cfg.Users.RegisterParticipant(r)
		cfg.Assets.RegisterParticipant(r)
	})

	r.Route("/registrar", func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))
		r.Use(requireAuth)
		r.Use(authmw.RequireRole(cfg.Logger, authmw.RoleRegistrar))
		cfg.Users.RegisterRegistrar(r)
		cfg.Assets.RegisterRegistrar(r)
	})

	if cfg.Tokens != nil && cfg.AdminToken != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(admin.RequireAdminToken(cfg.AdminToken, cfg.Logger))
			cfg.Tokens.Register(r)
		})
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}
		httputil.WriteJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": results})
	}
}

// logFailure logs business-rule rejections at warn and server faults at error.
func logFailure(ctx context.Context, logger *slog.Logger, op string, err error) {
	attrs := []any{
		"operation", op,
		"error", err.Error(),
		"request_id", request.GetRequestID(ctx),
	}
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", attrs...)
		return
	}
	logger.WarnContext(ctx, "request rejected", attrs...)
}
