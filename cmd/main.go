package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	httpcontext "github.com/dtroode/taskkeeper-server/internal/api/http/context"
	"github.com/dtroode/taskkeeper-server/internal/api/http/router"
	"github.com/dtroode/taskkeeper-server/internal/auth"
	"github.com/dtroode/taskkeeper-server/internal/config"
	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
	"github.com/dtroode/taskkeeper-server/internal/repository/postgres"
	"github.com/dtroode/taskkeeper-server/internal/server"
	"github.com/dtroode/taskkeeper-server/internal/service"
	"github.com/dtroode/taskkeeper-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	todoRepo := postgres.NewTodoRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	hasher := auth.NewPasswordHasher()
	ctxMgr := httpcontext.NewManager()

	authService := service.NewAuth(userRepo, todoRepo, tokenManager, hasher, logger)
	todoService := service.NewTodo(todoRepo, logger)
	statsService := service.NewStats(todoRepo, logger)

	httpServer := registerHTTPServer(logger, authService, todoService, statsService, tokenManager, ctxMgr, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerHTTPServer(
	logger *logger.Logger,
	authService *service.Auth,
	todoService *service.Todo,
	statsService *service.Stats,
	tokenManager *token.JWT,
	ctxMgr model.ContextManager,
	addr string,
) *server.HTTPServer {
	r := router.New(authService, todoService, statsService, tokenManager, ctxMgr, logger)

	var handler http.Handler = r.Register()

	return server.NewHTTPServer(handler, addr)
}
