package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"alfredoptarigan/resume-ats/internal/config"
	applog "alfredoptarigan/resume-ats/internal/logger"
	"alfredoptarigan/resume-ats/internal/services"
)

const defaultJobDescriptionDir = "./reference_docs/job_descriptions"

// Loads every job description (txt, md, pdf, docx) in a directory into the
// reference library used by career path analysis. Usage:
//
//	go run ./scripts/ingest_documents.go [dir]
func main() {
	cfg := config.Load()
	applog.Setup(cfg.Server.LogLevel)
	slog.Info("🚀 Starting job description ingestion...")

	dir := defaultJobDescriptionDir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx := context.Background()

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbedModel)
	if err != nil {
		fatal("❌ Failed to initialize Gemini", err)
	}

	if cfg.Qdrant.URL == "" {
		fatal("❌ QDRANT_URL is not set", nil)
	}
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.VectorSize,
	)
	if err != nil {
		fatal("❌ Failed to initialize Qdrant", err)
	}

	if err := qdrantService.InitCollection(ctx); err != nil {
		fatal("❌ Failed to initialize collection", err)
	}

	library := services.NewReferenceLibrary(qdrantService, gemini)
	extractor := services.NewTextExtractor()

	entries, err := os.ReadDir(dir)
	if err != nil {
		fatal("❌ Failed to read job description directory", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	successCount := 0
	failCount := 0

	for _, path := range files {
		name := filepath.Base(path)
		log := slog.With(slog.String("file", name))

		text, err := readJobDescription(extractor, path)
		if err != nil {
			log.Warn("⚠️ Skipping file", slog.Any("error", err))
			failCount++
			continue
		}

		title := strings.TrimSuffix(name, filepath.Ext(name))
		if err := library.Add(ctx, name, title, text); err != nil {
			log.Error("❌ Failed to store job description", slog.Any("error", err))
			failCount++
			continue
		}

		log.Info("✅ Ingested", slog.Int("characters", len(text)))
		successCount++
	}

	slog.Info("📊 Ingestion summary",
		slog.Int("successful", successCount),
		slog.Int("failed", failCount),
	)

	if failCount > 0 {
		slog.Warn("⚠️ Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	slog.Info("✅ All job descriptions ingested successfully!")
}

func readJobDescription(extractor services.TextExtractor, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return extractor.ExtractFile(path)
	}
}

func fatal(msg string, err error) {
	if err != nil {
		slog.Error(msg, slog.Any("error", err))
	} else {
		slog.Error(msg)
	}
	os.Exit(1)
}
