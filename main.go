package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"symtrace/adapters/dictionary"
	"symtrace/adapters/postgres"
	"symtrace/adapters/tokenizer"
	"symtrace/domain/core"
	"symtrace/internal"
	"symtrace/internal/analysis"
	"symtrace/internal/config"
	"symtrace/ports"
	"symtrace/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	defaultDict, err := dictionary.LoadFile(appConfig.Paths.DictionaryFile)
	if err != nil {
		log.Fatalf("Failed to load connector dictionary: %v", err)
	}
	logger.Info("loaded %d connectors from %s", len(defaultDict), appConfig.Paths.DictionaryFile)

	service := analysis.NewService(tokenizer.NewRegexTokenizer(), logger).
		WithShortThreshold(appConfig.Analysis.ShortThreshold)

	// The lexicon tokenizer is optional; without it the UI reports the
	// missing resource on lexicon requests instead of refusing to start.
	var lexiconService *analysis.Service
	if lex, err := tokenizer.NewLexiconTokenizer(appConfig.Paths.LexiconFile); err != nil {
		logger.Warn("elision lexicon unavailable: %v", err)
	} else {
		lexiconService = analysis.NewService(lex, logger).
			WithShortThreshold(appConfig.Analysis.ShortThreshold)
	}

	var corpusRepo ports.CorpusRepository
	var resultRepo ports.ResultRepository
	if appConfig.HasDatabase() {
		db, err := postgres.Connect(context.Background(), appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := postgres.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		corpusRepo = postgres.NewCorpusRepository(db)
		resultRepo = postgres.NewResultRepository(db)

		dictRepo := postgres.NewDictionaryRepository(db)
		dictID := core.DictionaryID(core.NewID())
		if err := dictRepo.Save(context.Background(), dictID, "default", defaultDict); err != nil {
			logger.Warn("failed to persist default dictionary: %v", err)
		}

		logger.Info("database persistence enabled")
	} else {
		logger.Info("no DATABASE_URL set, running without persistence")
	}

	app := ui.NewApp(ui.Deps{
		Service:           service,
		LexiconService:    lexiconService,
		Logger:            logger,
		Config:            appConfig,
		DefaultDictionary: defaultDict,
		CorpusRepo:        corpusRepo,
		ResultRepo:        resultRepo,
	})

	if err := app.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
