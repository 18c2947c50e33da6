package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/go-verify-reset/internal/application/verification"
	"github.com/go-verify-reset/internal/config"
	jwtinfra "github.com/go-verify-reset/internal/infrastructure/jwt"
	"github.com/go-verify-reset/internal/infrastructure/notify"
	"github.com/go-verify-reset/internal/infrastructure/smtp"
	"github.com/go-verify-reset/internal/infrastructure/sns"
	"github.com/go-verify-reset/internal/pkg/password"
	"github.com/go-verify-reset/internal/transport/http/handler"
	appmiddleware "github.com/go-verify-reset/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	notifier := notify.New(deps.Mailer, deps.SMSSender, cfg.AppBaseURL)
	svc := verification.NewService(verification.ServiceDeps{
		Users:    deps.UserRepo,
		Hasher:   password.NewHasher(),
		Notifier: notifier,
		Config: verification.Config{
			LongTokenLen:     cfg.LongTokenLen,
			ShortTokenLen:    cfg.ShortTokenLen,
			ShortTokenDigits: cfg.ShortTokenDigits,
			VerifyDelay:      cfg.VerifyDelay,
			ResetDelay:       cfg.ResetDelay,
			ShortTokenFields: cfg.ShortTokenFields,
		},
	})

	healthH := handler.NewHealthHandler()
	verifyResetH := handler.NewVerifyResetHandler(svc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)
		r.Post("/test", healthH.Test)
		r.With(sensitiveRL.Limit).Post("/verify-reset", verifyResetH.Action)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.PopulateUser(deps.UserRepo))

			// Same dispatcher; the populated user lets passwordChange and
			// emailChange through.
			r.Post("/account/verify-reset", verifyResetH.Action)
		})
	})

	return r
}
