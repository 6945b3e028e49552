package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	_ "net/http/pprof"

	"parley-server/services/negotiation-api/internal/config"
	"parley-server/services/negotiation-api/internal/domain/bookmark"
	"parley-server/services/negotiation-api/internal/domain/dialoguetree"
	"parley-server/services/negotiation-api/internal/domain/legalcase"
	"parley-server/services/negotiation-api/internal/domain/message"
	"parley-server/services/negotiation-api/internal/domain/simulation"
	"parley-server/services/negotiation-api/internal/infrastructure/auth"
	"parley-server/services/negotiation-api/internal/infrastructure/database"
	"parley-server/services/negotiation-api/internal/infrastructure/database/transaction"
	"parley-server/services/negotiation-api/internal/infrastructure/inference"
	"parley-server/services/negotiation-api/internal/infrastructure/logger"
	"parley-server/services/negotiation-api/internal/infrastructure/observability"
	"parley-server/services/negotiation-api/internal/infrastructure/repository/bookmarkrepo"
	"parley-server/services/negotiation-api/internal/infrastructure/repository/caserepo"
	"parley-server/services/negotiation-api/internal/infrastructure/repository/messagerepo"
	"parley-server/services/negotiation-api/internal/infrastructure/repository/simulationrepo"
	"parley-server/services/negotiation-api/internal/infrastructure/speech"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/handlers"
)

// @title Negotiation API
// @version 1.0
// @description Legal negotiation simulation service
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	seeder     *DemoSeeder
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, seeder *DemoSeeder, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		seeder:     seeder,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	if err := a.seeder.Install(ctx); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.httpServer.Run(egCtx)
	})
	eg.Go(func() error {
		return runPprof(egCtx)
	})
	return eg.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	tx := transaction.NewDatabase(db)
	messageRepository := messagerepo.NewPostgresRepository(tx)
	caseRepository := caserepo.NewPostgresRepository(tx)
	simulationRepository := simulationrepo.NewPostgresRepository(tx)
	bookmarkRepository := bookmarkrepo.NewPostgresRepository(tx)

	bosonClient := inference.NewBosonClient(cfg, log)
	speechClient := speech.NewClient(cfg, log)

	messageService := message.NewService(messageRepository, tx, log)
	caseService := legalcase.NewService(caseRepository, simulationRepository, messageRepository, bosonClient, log)
	simulationService := simulation.NewService(simulationRepository, caseRepository, messageService, log)
	bookmarkService := bookmark.NewService(bookmarkRepository, simulationRepository, messageRepository, log)
	treeService := dialoguetree.NewService(
		bosonClient,
		messageService,
		messageRepository,
		caseRepository,
		simulationRepository,
		dialoguetree.Options{
			Attempts:       cfg.GenerationAttempts,
			AttemptTimeout: cfg.GenerationTimeout,
		},
		log,
	)

	handlerProvider := handlers.NewProvider(
		messageService,
		treeService,
		caseService,
		simulationService,
		bookmarkService,
		bosonClient,
		speechClient,
	)

	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)
	seeder := NewDemoSeeder(cfg, caseRepository, simulationRepository, messageRepository, log)
	app := NewApplication(httpServer, seeder, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// runPprof exposes the net/http/pprof handlers on a localhost-only port.
func runPprof(ctx context.Context) error {
	server := &http.Server{Addr: "localhost:6060", Handler: http.DefaultServeMux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
