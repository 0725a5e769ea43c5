// Package ui serves the interactive analysis workflow over HTTP. Corpus and
// dictionary live in server memory like a desktop session; every analysis
// endpoint reads that shared state.
package ui

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	adapterrng "symtrace/adapters/rng"
	"symtrace/domain/connector"
	"symtrace/domain/corpus"
	"symtrace/internal"
	"symtrace/internal/analysis"
	"symtrace/internal/config"
	"symtrace/ports"
)

// App represents the UI application
type App struct {
	router  *chi.Mux
	service *analysis.Service
	logger  *internal.Logger
	cfg     *config.Config

	// lexicon is nil when the elision lexicon could not be loaded; selecting
	// lexicon tokenization then reports the missing resource.
	lexicon *analysis.Service

	defaultDict connector.Dictionary
	rng         ports.RNGPort

	// Optional persistence; nil when no database is configured.
	corpora ports.CorpusRepository
	results ports.ResultRepository

	mu         sync.RWMutex
	corpus     *corpus.Corpus
	customDict connector.Dictionary
	dictLabel  string
}

// Deps carries the collaborators of the UI application.
type Deps struct {
	Service           *analysis.Service
	LexiconService    *analysis.Service
	Logger            *internal.Logger
	Config            *config.Config
	DefaultDictionary connector.Dictionary
	RNG               ports.RNGPort
	CorpusRepo        ports.CorpusRepository
	ResultRepo        ports.ResultRepository
}

// NewApp creates a new UI application
func NewApp(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}

	app := &App{
		router:      chi.NewRouter(),
		service:     deps.Service,
		lexicon:     deps.LexiconService,
		logger:      logger,
		cfg:         deps.Config,
		defaultDict: deps.DefaultDictionary,
		rng:         deps.RNG,
		corpora:     deps.CorpusRepo,
		results:     deps.ResultRepo,
		dictLabel:   "default",
	}

	if app.rng == nil {
		app.rng = adapterrng.NewSeededAdapter()
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleStatus)

	// Session inputs
	a.router.Post("/api/corpus", a.handleCorpusUpload)
	a.router.Get("/api/corpus", a.handleCorpusInfo)
	a.router.Post("/api/dictionary", a.handleDictionaryUpload)
	a.router.Get("/api/dictionary", a.handleDictionaryInfo)
	a.router.Delete("/api/dictionary", a.handleDictionaryReset)

	// Segmentation and indicators
	a.router.Get("/api/segments", a.handleSegments)
	a.router.Get("/api/indicators", a.handleIndicators)

	// Statistical battery
	a.router.Get("/api/tests/ks", a.handleKS)
	a.router.Get("/api/tests/anova", a.handleAnova)
	a.router.Get("/api/tests/kruskal", a.handleKruskal)
	a.router.Get("/api/tests/posthoc", a.handlePostHoc)
	a.router.Get("/api/tests/friedman", a.handleFriedman)

	// Downloads
	a.router.Get("/api/export/indicators.csv", a.handleExportIndicatorsCSV)
	a.router.Get("/api/export/ks.csv", a.handleExportKSCSV)
	a.router.Get("/api/export/results.xlsx", a.handleExportXLSX)
	a.router.Get("/api/report.html", a.handleReportHTML)
	a.router.Get("/api/report.md", a.handleReportMarkdown)
}

// Start starts the HTTP server
func (a *App) Start() error {
	port := ":" + a.cfg.Server.Port
	a.logger.Info("starting UI server on %s", port)
	return http.ListenAndServe(port, a.router)
}

// Router exposes the chi mux, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// sessionState returns the current corpus and effective dictionary.
func (a *App) sessionState() (*corpus.Corpus, connector.Dictionary, string) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	dict := a.defaultDict
	label := "default"
	if a.customDict != nil {
		dict = a.customDict
		label = a.dictLabel
	}
	return a.corpus, dict, label
}
