package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-sms-relay/internal/application/auth"
	"github.com/go-sms-relay/internal/application/message"
	"github.com/go-sms-relay/internal/application/user"
	"github.com/go-sms-relay/internal/config"
	"github.com/go-sms-relay/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-sms-relay/internal/infrastructure/jwt"
	"github.com/go-sms-relay/internal/infrastructure/sns"
	"github.com/go-sms-relay/internal/transport/http/handler"
	appmiddleware "github.com/go-sms-relay/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	MessageRepo *dynamo.MessageRepo
	SMSGateway  sns.Gateway
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

	authMw := appmiddleware.Auth(deps.JWTProvider, deps.UserRepo)

	// 5 requests/second, burst of 10, applied to the sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	userSvc := user.NewService(deps.UserRepo, deps.JWTProvider)
	authSvc := auth.NewService(deps.UserRepo, deps.JWTProvider)
	messageSvc := message.NewService(deps.MessageRepo, deps.UserRepo, deps.SMSGateway)

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc)
	authH := handler.NewAuthHandler(authSvc)
	messageH := handler.NewMessageHandler(messageSvc)

	// Public routes.
	r.Get("/", healthH.Root)
	r.Get("/up", healthH.Up)
	r.With(sensitiveRL.Limit).Post("/users", userH.Create)
	r.With(sensitiveRL.Limit).Post("/auths", authH.Create)

	// Authenticated routes.
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Delete("/auths", authH.Destroy)
		r.Post("/messages", messageH.Create)
		r.Get("/users/{id}/messages", messageH.Index)
	})

	return r
}
