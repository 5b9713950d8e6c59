package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-ats/internal/models"
)

const (
	semanticChunkSize = 500
	semanticTopPairs  = 10
)

// Match level bands on the 0-1 average similarity.
const (
	MatchLevelHigh    = "High"
	MatchLevelMedium  = "Medium"
	MatchLevelLow     = "Low"
	MatchLevelVeryLow = "Very Low"
)

// EmbeddingService turns text into a fixed-length vector.
type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type SemanticAnalyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) *models.SemanticReport
}

type semanticAnalyzer struct {
	embedder    EmbeddingService
	chunker     TextChunker
	vocab       *Vocabulary
	concurrency int
}

// NewSemanticAnalyzer builds the analyzer. A nil embedder is allowed; reports
// are then marked unavailable and carry only the rule-based skill lists.
func NewSemanticAnalyzer(embedder EmbeddingService, chunker TextChunker, vocab *Vocabulary, concurrency int) SemanticAnalyzer {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &semanticAnalyzer{
		embedder:    embedder,
		chunker:     chunker,
		vocab:       vocab,
		concurrency: concurrency,
	}
}

// Analyze implements SemanticAnalyzer.
func (s *semanticAnalyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (report *models.SemanticReport) {
	if strings.TrimSpace(jobDescription) == "" {
		return &models.SemanticReport{
			Status:         models.SemanticNoJobDescription,
			Message:        "No job description provided",
			InferredSkills: []models.InferredSkill{},
			SynonymMatches: []models.SynonymMatch{},
		}
	}

	resumeLower := strings.ToLower(resumeText)
	jdLower := strings.ToLower(jobDescription)

	report = &models.SemanticReport{
		InferredSkills: inferSkills(resumeLower, jdLower, s.vocab),
		SynonymMatches: matchSynonyms(resumeLower, jdLower, s.vocab),
	}

	if s.embedder == nil {
		report.Status = models.SemanticUnavailable
		report.Message = fmt.Sprintf("Semantic analysis not available: %v", ErrCapabilityUnavailable)
		return report
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("❌ Semantic analysis panicked", slog.Any("panic", rec))
			report.Status = models.SemanticError
			report.Message = fmt.Sprintf("semantic analysis failed: %v", rec)
			report.SimilarityScore = 0
			report.MatchLevel = ""
			report.CapabilityValidation = ""
		}
	}()

	avg, err := s.similarity(ctx, resumeText, jobDescription)
	if err != nil {
		slog.Warn("⚠️ Semantic analysis failed", slog.Any("error", err))
		report.Status = models.SemanticError
		report.Message = err.Error()
		return report
	}

	report.Status = models.SemanticOK
	report.SimilarityScore = round2(math.Max(0, math.Min(1, avg)) * 100)
	report.MatchLevel = MatchLevel(avg)
	report.CapabilityValidation = CapabilityVerdict(report.SimilarityScore)
	return report
}

// similarity returns the mean of the top cosine similarities across all
// resume/job chunk pairs, on a 0-1 scale.
func (s *semanticAnalyzer) similarity(ctx context.Context, resumeText, jobDescription string) (float64, error) {
	resumeChunks := s.chunker.ChunkText(resumeText, semanticChunkSize, 0)
	jdChunks := s.chunker.ChunkText(jobDescription, semanticChunkSize, 0)
	if len(resumeChunks) == 0 || len(jdChunks) == 0 {
		return 0, fmt.Errorf("%w: nothing to embed", ErrValidation)
	}

	all := append(append([]string{}, resumeChunks...), jdChunks...)
	vectors, err := s.embedAll(ctx, all)
	if err != nil {
		return 0, err
	}
	resumeVecs, jdVecs := vectors[:len(resumeChunks)], vectors[len(resumeChunks):]

	sims := make([]float64, 0, len(resumeVecs)*len(jdVecs))
	for _, rv := range resumeVecs {
		for _, jv := range jdVecs {
			sims = append(sims, cosineSimilarity(rv, jv))
		}
	}

	return topMean(sims, semanticTopPairs), nil
}

func (s *semanticAnalyzer) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, text := range texts {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("embedding chunk %d panicked: %v", i, rec)
				}
			}()

			vec, err := s.embedder.GenerateEmbedding(gctx, text)
			if err != nil {
				return fmt.Errorf("failed to embed chunk %d: %w", i, err)
			}
			vectors[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func MatchLevel(avg float64) string {
	switch {
	case avg >= 0.75:
		return MatchLevelHigh
	case avg >= 0.60:
		return MatchLevelMedium
	case avg >= 0.45:
		return MatchLevelLow
	default:
		return MatchLevelVeryLow
	}
}

func CapabilityVerdict(score float64) string {
	switch {
	case score >= 70:
		return "Strong capability match: experience aligns with the role's core requirements"
	case score >= 50:
		return "Moderate capability match: relevant experience with some gaps"
	default:
		return "Weak capability match: experience does not clearly show the required capabilities"
	}
}

func inferSkills(resumeLower, jdLower string, vocab *Vocabulary) []models.InferredSkill {
	seen := make(map[models.InferredSkill]bool)
	skills := []models.InferredSkill{}
	for _, ts := range vocab.ToolSkillInferences {
		if containsTerm(resumeLower, ts.Tool) && containsTerm(jdLower, ts.Skill) {
			inf := models.InferredSkill{Tool: ts.Tool, Skill: ts.Skill}
			if !seen[inf] {
				seen[inf] = true
				skills = append(skills, inf)
			}
		}
	}

	sort.Slice(skills, func(i, j int) bool {
		if skills[i].Skill != skills[j].Skill {
			return skills[i].Skill < skills[j].Skill
		}
		return skills[i].Tool < skills[j].Tool
	})
	return skills
}

func matchSynonyms(resumeLower, jdLower string, vocab *Vocabulary) []models.SynonymMatch {
	matches := []models.SynonymMatch{}
	for _, group := range vocab.SynonymGroups {
		if !containsTerm(jdLower, group.Term) {
			continue
		}

		var found []string
		for _, eq := range group.Equivalents {
			if containsTerm(resumeLower, eq) {
				found = append(found, eq)
			}
		}
		if len(found) == 0 {
			continue
		}

		sort.Strings(found)
		matches = append(matches, models.SynonymMatch{Term: group.Term, Matches: found})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Term < matches[j].Term })
	return matches
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func topMean(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := append([]float64(nil), values...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}
