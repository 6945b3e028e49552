//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

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
	"parley-server/services/negotiation-api/internal/infrastructure/repository/bookmarkrepo"
	"parley-server/services/negotiation-api/internal/infrastructure/repository/caserepo"
	"parley-server/services/negotiation-api/internal/infrastructure/repository/messagerepo"
	"parley-server/services/negotiation-api/internal/infrastructure/repository/simulationrepo"
	"parley-server/services/negotiation-api/internal/infrastructure/speech"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/handlers"
)

var repositorySet = wire.NewSet(
	transaction.NewDatabase,
	messagerepo.NewPostgresRepository,
	wire.Bind(new(message.Repository), new(*messagerepo.PostgresRepository)),
	caserepo.NewPostgresRepository,
	wire.Bind(new(legalcase.Repository), new(*caserepo.PostgresRepository)),
	simulationrepo.NewPostgresRepository,
	wire.Bind(new(simulation.Repository), new(*simulationrepo.PostgresRepository)),
	bookmarkrepo.NewPostgresRepository,
	wire.Bind(new(bookmark.Repository), new(*bookmarkrepo.PostgresRepository)),
)

var domainSet = wire.NewSet(
	message.NewService,
	wire.Bind(new(message.Transactor), new(*transaction.Database)),
	legalcase.NewService,
	wire.Bind(new(legalcase.SimulationSource), new(*simulationrepo.PostgresRepository)),
	wire.Bind(new(legalcase.MessageCounter), new(*messagerepo.PostgresRepository)),
	wire.Bind(new(legalcase.BackgroundSummarizer), new(*inference.BosonClient)),
	simulation.NewService,
	wire.Bind(new(simulation.CaseDirectory), new(*caserepo.PostgresRepository)),
	wire.Bind(new(simulation.TreeScrubber), new(*message.Service)),
	bookmark.NewService,
	wire.Bind(new(bookmark.SimulationChecker), new(*simulationrepo.PostgresRepository)),
	wire.Bind(new(bookmark.MessageChecker), new(*messagerepo.PostgresRepository)),
	dialoguetree.NewService,
	wire.Bind(new(dialoguetree.Completer), new(*inference.BosonClient)),
	newGenerationOptions,
)

var infrastructureSet = wire.NewSet(
	inference.NewBosonClient,
	speech.NewClient,
	newAuthValidator,
	newDatabaseConfig,
	newGormDB,
)

var interfaceSet = wire.NewSet(
	handlers.NewProvider,
	wire.Bind(new(handlers.DialogueSummarizer), new(*inference.BosonClient)),
	httpserver.New,
)

// BuildApplication assembles the negotiation service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		repositorySet,
		domainSet,
		infrastructureSet,
		interfaceSet,
		NewDemoSeeder,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newGenerationOptions(cfg *config.Config) dialoguetree.Options {
	return dialoguetree.Options{
		Attempts:       cfg.GenerationAttempts,
		AttemptTimeout: cfg.GenerationTimeout,
	}
}
