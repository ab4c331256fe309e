package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qc-registry/config"
	"qc-registry/controllers"
	"qc-registry/database"
	"qc-registry/grid"
	"qc-registry/idgen"
	"qc-registry/logger"
	"qc-registry/middleware"
	"qc-registry/repositories"
	"qc-registry/routes"
	"qc-registry/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	zl, err := logger.New(config.LogLevel, config.LogFormat, "qc-registry")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync()

	if err := idgen.Init(int64(config.NodeID)); err != nil {
		zl.Fatal("failed to init id generator", zap.Error(err))
	}

	ctx := context.Background()

	backend, err := database.Open(ctx, zl)
	if err != nil {
		zl.Fatal("failed to open state store", zap.Error(err))
	}
	store := repositories.NewStore(backend, zl)
	defer store.Close()

	if err := store.Load(ctx); err != nil {
		zl.Fatal("failed to load state", zap.Error(err))
	}

	drafts := grid.NewDraftManager(config.DraftTTL, zl)
	defer drafts.Close()

	notifier := services.NewMailNotifier(services.MailConfig{
		Host:     config.SMTPHost,
		Port:     config.SMTPPort,
		User:     config.SMTPUser,
		Password: config.SMTPPassword,
		To:       config.NGAlertTo,
	}, zl)
	if !notifier.Enabled() {
		zl.Info("NG mail alerts disabled, SMTP_HOST or NG_ALERT_TO not set")
	}

	authService := services.NewAuthService(store.Workers(), store.Sessions(), services.AuthConfig{
		Secret:        config.JWTSecret,
		TTL:           time.Duration(config.JWTExpiration) * time.Second,
		AdminID:       config.AdminID,
		AdminPassword: config.AdminPassword,
	}, zl)
	workerService := services.NewWorkerService(store.Workers(), zl)
	ledgerService := services.NewLedgerService(store.Records())
	registryService := services.NewRegistryService(store, drafts, notifier, zl)
	chatService := services.NewChatService(store, authService.Admin(), zl)

	app := fiber.New(fiber.Config{
		AppName:   "QC Registry",
		BodyLimit: 20 * 1024 * 1024,
	})

	app.Use(middleware.RequestLogger(zl))
	config.SetupCORS(app)

	routes.SetupRoutes(app, routes.Controllers{
		Auth:      controllers.NewAuthController(authService, chatService, zl),
		Dashboard: controllers.NewDashboardController(ledgerService, registryService, zl),
		Registry:  controllers.NewRegistryController(registryService, zl),
		Worker:    controllers.NewWorkerController(workerService, zl),
		Chat:      controllers.NewChatController(chatService, zl),
	}, middleware.NewAuthMiddleware(authService))

	go func() {
		zl.Info("server listening", zap.String("port", config.APP_PORT))
		if err := app.Listen(":" + config.APP_PORT); err != nil {
			zl.Error("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		zl.Error("shutdown failed", zap.Error(err))
	}
}
