package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"alfredoptarigan/resume-ats/internal/models"
	"alfredoptarigan/resume-ats/internal/repositories"
)

type AnalyzerService interface {
	AnalyzeResume(ctx context.Context, analysisID uuid.UUID) error
}

type analyzerService struct {
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	storage      StorageService
	parser       ResumeParser
	scorer       ATSScorer
	matcher      JobMatcher
}

func NewAnalyzerService(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	storage StorageService,
	parser ResumeParser,
	scorer ATSScorer,
	matcher JobMatcher,
) AnalyzerService {
	return &analyzerService{
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		storage:      storage,
		parser:       parser,
		scorer:       scorer,
		matcher:      matcher,
	}
}

// AnalyzeResume runs parse, score and match for a queued analysis and stores
// the reports. Any failure marks the analysis failed.
func (a *analyzerService) AnalyzeResume(ctx context.Context, analysisID uuid.UUID) error {
	analysis, err := a.analysisRepo.FindByID(analysisID)
	if err != nil {
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	// The poller can enqueue a job that a worker already picked up.
	if analysis.Status != models.StatusQueued {
		slog.Debug("Skipping analysis", slog.String("analysis_id", analysisID.String()), slog.String("status", string(analysis.Status)))
		return nil
	}

	if err := a.analysisRepo.UpdateStatus(analysisID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	slog.Info("🔄 Starting analysis", slog.String("analysis_id", analysisID.String()))

	doc, err := a.docRepo.FindByID(analysis.DocumentID)
	if err != nil {
		a.fail(analysisID, fmt.Sprintf("Resume document not found: %v", err))
		return fmt.Errorf("failed to get resume document: %w", err)
	}

	slog.Info("📄 Parsing resume...", slog.String("file", doc.OriginalFileName))
	data, err := a.storage.ReadFile(ctx, doc.FilePath)
	if err != nil {
		a.fail(analysisID, fmt.Sprintf("Failed to read resume: %v", err))
		return fmt.Errorf("failed to read resume: %w", err)
	}

	features, err := a.parser.ParseBytes(doc.Filename, data)
	if err != nil {
		a.fail(analysisID, features.Error)
		return err
	}

	slog.Info("🧮 Scoring resume...")
	score, err := a.scorer.Score(features, firstOrEmpty(analysis.JobDescriptions))
	if err != nil {
		a.fail(analysisID, fmt.Sprintf("Failed to score resume: %v", err))
		return fmt.Errorf("failed to score resume: %w", err)
	}

	var match *models.JobMatchReport
	if len(filterStrings(analysis.JobDescriptions, nonBlankDescription)) > 0 {
		slog.Info("🔍 Matching job descriptions...", slog.Int("count", len(analysis.JobDescriptions)))
		match = a.matcher.Match(ctx, features, analysis.JobDescriptions)
	}

	slog.Info("💾 Saving analysis results...")
	update := &repositories.AnalysisUpdateData{
		Features: features,
		Score:    score,
		Match:    match,
	}
	if err := a.analysisRepo.UpdateResult(analysisID, update); err != nil {
		a.fail(analysisID, fmt.Sprintf("Failed to save results: %v", err))
		return fmt.Errorf("failed to save results: %w", err)
	}

	slog.Info("✅ Analysis completed",
		slog.String("analysis_id", analysisID.String()),
		slog.Int("total_score", score.TotalScore),
		slog.String("grade", score.Grade),
	)
	return nil
}

func (a *analyzerService) fail(id uuid.UUID, msg string) {
	if err := a.analysisRepo.UpdateError(id, msg); err != nil {
		slog.Error("❌ Failed to record analysis error", slog.String("analysis_id", id.String()), slog.Any("error", err))
	}
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
