package main

import (
	"log"

	"github.com/joho/godotenv"

	"symtrace/adapters/api"
	"symtrace/adapters/tokenizer"
	"symtrace/internal"
	"symtrace/internal/analysis"
	"symtrace/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	service := analysis.NewService(tokenizer.NewRegexTokenizer(), logger).
		WithShortThreshold(appConfig.Analysis.ShortThreshold)

	var lexiconService *analysis.Service
	if lex, err := tokenizer.NewLexiconTokenizer(appConfig.Paths.LexiconFile); err != nil {
		logger.Warn("elision lexicon unavailable: %v", err)
	} else {
		lexiconService = analysis.NewService(lex, logger).
			WithShortThreshold(appConfig.Analysis.ShortThreshold)
	}

	server := api.NewServer(appConfig, service, lexiconService, logger)
	if err := server.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
