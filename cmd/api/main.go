package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-ats/internal/config"
	"alfredoptarigan/resume-ats/internal/handlers"
	applog "alfredoptarigan/resume-ats/internal/logger"
	"alfredoptarigan/resume-ats/internal/repositories"
	"alfredoptarigan/resume-ats/internal/services"
)

var endpoints = []string{
	"GET /api/v1/health",
	"GET /api/v1/endpoints",
	"POST /api/v1/upload",
	"POST /api/v1/parse",
	"POST /api/v1/score",
	"POST /api/v1/match",
	"POST /api/v1/career-path",
	"POST /api/v1/analyze",
	"GET /api/v1/result/:id",
}

func main() {
	cfg := config.Load()
	applog.Setup(cfg.Server.LogLevel)
	slog.Info("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vocab, err := services.LoadVocabulary(cfg.Analysis.VocabularyPath)
	if err != nil {
		fatal("❌ Failed to load vocabulary", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		fatal("❌ Failed to initialize database", err)
	}

	docRepo := repositories.NewDocumentRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	slog.Info("✅ Repositories initialized successfully")

	storageService, err := newStorage(ctx, cfg)
	if err != nil {
		fatal("❌ Failed to initialize storage", err)
	}
	if err := storageService.EnsureReady(ctx); err != nil {
		fatal("❌ Storage is not ready", err)
	}

	parser := services.NewResumeParser(services.NewTextExtractor(), vocab)
	scorer := services.NewATSScorer(vocab)
	slog.Info("✅ Services initialized successfully", slog.String("storage", cfg.Storage.Backend))

	embedder, embedCache := newEmbedder(ctx, cfg)
	if embedCache != nil {
		defer embedCache.Close()
	}

	semantic := services.NewSemanticAnalyzer(
		embedder,
		services.NewTextChunker(),
		vocab,
		cfg.Analysis.SemanticConcurrency,
	)
	matcher := services.NewJobMatcher(vocab, semantic)
	references := newReferenceLibrary(ctx, cfg, embedder)

	analyzer := services.NewAnalyzerService(
		analysisRepo,
		docRepo,
		storageService,
		parser,
		scorer,
		matcher,
	)
	slog.Info("✅ Analyzer service initialized")

	worker := services.NewWorker(
		analysisRepo,
		analyzer,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	worker.Start(ctx)

	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize)
	analyzeHandler := handlers.NewAnalyzeHandler(analysisRepo, docRepo, worker)
	resultHandler := handlers.NewResultHandler(analysisRepo)
	atsHandler := handlers.NewATSHandler(parser, scorer, matcher, references, cfg.Storage.MaxFileSize)
	slog.Info("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Resume ATS API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now(),
			"semantic": embedder != nil,
		})
	})
	api.Get("/endpoints", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"endpoints": endpoints})
	})

	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/parse", atsHandler.HandleParse)
	api.Post("/score", atsHandler.HandleScore)
	api.Post("/match", atsHandler.HandleMatch)
	api.Post("/career-path", atsHandler.HandleCareerPath)
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/result/:id", resultHandler.HandleGetResult)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Resume ATS API",
			"version":   "1.0.0",
			"endpoints": endpoints,
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("🛑 Shutting down server...")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			slog.Error("❌ Server forced to shutdown", slog.Any("error", err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	slog.Info("🚀 Server starting", slog.String("addr", addr))
	slog.Info("📖 API Documentation", slog.String("url", "http://localhost"+addr+"/api/v1/endpoints"))

	if err := app.Listen(addr); err != nil {
		fatal("❌ Failed to start server", err)
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (services.StorageService, error) {
	switch cfg.Storage.Backend {
	case config.StorageS3:
		return services.NewS3StorageService(ctx, services.S3Options{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
		})
	case config.StorageLocal, "":
		return services.NewStorageService(cfg.Storage.UploadPath), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newEmbedder returns nil when semantic analysis is disabled or Gemini is
// not configured; the matcher then reports semantic results as unavailable.
func newEmbedder(ctx context.Context, cfg *config.Config) (services.EmbeddingService, *services.EmbeddingCache) {
	if !cfg.Analysis.SemanticEnabled {
		slog.Info("ℹ️ Semantic analysis disabled")
		return nil, nil
	}

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbedModel)
	if err != nil {
		slog.Warn("⚠️ Semantic analysis unavailable", slog.Any("error", err))
		return nil, nil
	}

	cache := services.NewEmbeddingCache(ctx, cfg.Redis.URL, cfg.Analysis.EmbedCacheTTL, cfg.Analysis.EmbedCacheMaxEntries)
	slog.Info("✅ Gemini AI initialized successfully")
	return services.NewCachedEmbeddingService(gemini, cache, gemini.EmbedModel()), cache
}

func newReferenceLibrary(ctx context.Context, cfg *config.Config, embedder services.EmbeddingService) services.ReferenceLibrary {
	if cfg.Qdrant.URL == "" || embedder == nil {
		slog.Info("ℹ️ Reference job descriptions disabled")
		return nil
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.VectorSize,
	)
	if err != nil {
		slog.Warn("⚠️ Failed to initialize Qdrant", slog.Any("error", err))
		return nil
	}

	if err := qdrantService.InitCollection(ctx); err != nil {
		slog.Warn("⚠️ Failed to initialize Qdrant collection", slog.Any("error", err))
		return nil
	}

	slog.Info("✅ Qdrant initialized successfully")
	return services.NewReferenceLibrary(qdrantService, embedder)
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.Any("error", err))
	os.Exit(1)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
