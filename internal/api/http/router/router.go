package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dtroode/taskkeeper-server/internal/api/http/handler"
	"github.com/dtroode/taskkeeper-server/internal/api/http/middleware"
	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
	"github.com/dtroode/taskkeeper-server/internal/service"
)

// Router assembles the HTTP API: public auth routes, token-gated todo
// routes and the middleware chain.
type Router struct {
	authService    *service.Auth
	todoService    *service.Todo
	statsService   *service.Stats
	tokenParser    middleware.TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	todoService *service.Todo,
	statsService *service.Stats,
	tokenParser middleware.TokenParser,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		todoService:    todoService,
		statsService:   statsService,
		tokenParser:    tokenParser,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the route tree. Everything under /api/todos and the
// profile routes sit behind the bearer-token gate; registration and
// login are the only public endpoints.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenParser, r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)
	todoHandler := handler.NewTodo(r.todoService, r.statsService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handle)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Route("/api/users", func(mux chi.Router) {
		mux.Post("/register", authHandler.Register)
		mux.Post("/login", authHandler.Login)

		mux.Group(func(mux chi.Router) {
			mux.Use(authenticate.Handle)
			mux.Get("/me", authHandler.Me)
			mux.Put("/profile", authHandler.UpdateProfile)
			mux.Delete("/account", authHandler.DeleteAccount)
		})
	})

	mux.Route("/api/todos", func(mux chi.Router) {
		mux.Use(authenticate.Handle)

		mux.Get("/", todoHandler.List)
		mux.Post("/", todoHandler.Create)
		mux.Get("/stats", todoHandler.Stats)
		mux.Get("/count", todoHandler.Counts)
		mux.Get("/date-range", todoHandler.DateRange)

		mux.Get("/{id}", todoHandler.Get)
		mux.Put("/{id}", todoHandler.Update)
		mux.Delete("/{id}", todoHandler.Delete)
		mux.Patch("/{id}/toggle", todoHandler.Toggle)
	})

	return mux
}
