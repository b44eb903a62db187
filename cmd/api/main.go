package main

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"rvu-tracker/internal/catalog"
	"rvu-tracker/internal/extraction"
	"rvu-tracker/internal/imaging"
	"rvu-tracker/internal/match"
	"rvu-tracker/internal/middleware"
	"rvu-tracker/internal/state"
	"rvu-tracker/internal/store"
)

// server wires the pipeline together: upload -> imaging -> extraction ->
// matching -> state. The last uploaded image is kept in memory for the
// inspector view and the report's image page; it is session-scoped and never
// persisted.
type server struct {
	cfg       Config
	log       zerolog.Logger
	catalog   *catalog.Catalog
	matcher   *match.Matcher
	extractor extraction.Extractor
	state     *state.Container

	imageMu   sync.RWMutex
	lastImage imaging.Payload
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}
	cfg := loadConfig()
	ctx := context.Background()

	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load procedure catalog")
	}
	logger.Info().Int("entries", cat.Len()).Msg("procedure catalog loaded")

	st := openStore(ctx, cfg, logger)
	container := state.New(st, logger.With().Str("component", "state").Logger())
	container.Restore(ctx)

	var extractor extraction.Extractor
	if cfg.ProjectID == "" {
		// Reported once; every scan then yields an empty batch.
		logger.Error().Msg("GEMINI_PROJECT_ID not set; worklist extraction is disabled")
		extractor = extraction.Disabled{}
	} else {
		vx, err := extraction.NewVertexExtractor(ctx, cfg.ProjectID, cfg.Region, cfg.Model,
			logger.With().Str("component", "extraction").Logger())
		if err != nil {
			logger.Error().Err(err).Msg("failed to initialize extraction client; extraction is disabled")
			extractor = extraction.Disabled{}
		} else {
			defer vx.Close()
			extractor = vx
		}
	}

	srv := &server{
		cfg:       cfg,
		log:       logger,
		catalog:   cat,
		matcher:   match.New(cat.All(), logger.With().Str("component", "match").Logger()),
		extractor: extractor,
		state:     container,
	}

	handler := middleware.RequestLogger(logger,
		middleware.CSRF(cfg.SecureCookies, srv.routes()))

	logger.Info().Str("port", cfg.Port).Msg("RVU tracker started")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func openStore(ctx context.Context, cfg Config, logger zerolog.Logger) store.Store {
	if cfg.DatabaseURL != "" {
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open postgres store")
		}
		logger.Info().Msg("using postgres persistence")
		return pg
	}
	if cfg.DataFile != "" {
		logger.Info().Str("path", cfg.DataFile).Msg("using file persistence")
		return store.NewFileStore(cfg.DataFile)
	}
	return store.NewMemoryStore()
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(resolveTemplatePath("ui/static")))))
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/catalog", s.handleCatalog)
	mux.HandleFunc("/image", s.handleSourceImage)
	mux.HandleFunc("/report.pdf", s.handleReport)

	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/api/studies/delete", s.handleDeleteStudy)
	mux.HandleFunc("/api/groups/delete", s.handleDeleteGroup)
	mux.HandleFunc("/api/report/meta", s.handleReportMeta)
	mux.HandleFunc("/api/catalog/search", s.handleCatalogSearch)

	return mux
}
