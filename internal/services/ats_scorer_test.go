package services

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ats/internal/models"
)

func categoryScore(t *testing.T, r *models.ScoreReport, name string) float64 {
	t.Helper()
	c, ok := r.Category(name)
	require.True(t, ok, "category %s missing", name)
	return c.Score
}

func TestATSScorer_SampleResume(t *testing.T) {
	vocab := DefaultVocabulary()
	f := ExtractFeatures(sampleResume, vocab)

	report, err := NewATSScorer(vocab).Score(&f, "")
	require.NoError(t, err)

	assert.Equal(t, 10.0, categoryScore(t, report, CategoryContact))
	assert.Equal(t, 10.0, categoryScore(t, report, CategorySkills))
	assert.Equal(t, 15.0, categoryScore(t, report, CategorySections))
	// short resume: 10 for format plus 5 for a non-zero word count
	assert.Equal(t, 15.0, categoryScore(t, report, CategoryFormat))
	assert.Equal(t, 15.0, categoryScore(t, report, CategoryExperience))
	assert.Equal(t, 1.0, categoryScore(t, report, CategoryLength))
	assert.Equal(t, f.Email, report.KeyInsights.Email)
	assert.Equal(t, 7, report.KeyInsights.ActionVerbCount)
}

func TestATSScorer_EmptyFeatures(t *testing.T) {
	report, err := NewATSScorer(DefaultVocabulary()).Score(&models.ResumeFeatures{}, "")
	require.NoError(t, err)

	// 10 for the file format and 1 for length
	assert.Equal(t, 11, report.TotalScore)
	assert.Equal(t, GradeNeedsImprovement, report.Grade)
	assert.Len(t, report.CategoryBreakdown, 7)
	assert.Contains(t, report.Recommendations, "Add a professional email address")
	assert.True(t, strings.HasPrefix(report.Recommendations[0], "Critical"))
}

func TestATSScorer_NilFeatures(t *testing.T) {
	report, err := NewATSScorer(DefaultVocabulary()).Score(nil, "")
	require.NoError(t, err)
	assert.Equal(t, 11, report.TotalScore)
}

func TestATSScorer_ExtractionErrorShortCircuits(t *testing.T) {
	report, err := NewATSScorer(DefaultVocabulary()).Score(&models.ResumeFeatures{Error: "broken pdf"}, "")

	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.Contains(t, err.Error(), "broken pdf")
}

func TestATSScorer_CategoriesCappedAndSummed(t *testing.T) {
	vocab := DefaultVocabulary()
	text := strings.Repeat(sampleResume+" python java javascript sql aws azure docker kubernetes react node.js machine learning data analysis "+
		"leadership communication teamwork problem-solving analytical project management collaboration ", 8)
	f := ExtractFeatures(text, vocab)

	report, err := NewATSScorer(vocab).Score(&f, "")
	require.NoError(t, err)

	order := []string{CategoryFormat, CategoryKeywords, CategorySections, CategoryContact, CategoryExperience, CategorySkills, CategoryLength}
	var sum float64
	for i, c := range report.CategoryBreakdown {
		assert.Equal(t, order[i], c.Name)
		assert.LessOrEqual(t, c.Score, c.Max)
		assert.GreaterOrEqual(t, c.Score, 0.0)
		sum += c.Score
	}
	assert.InDelta(t, sum, report.RawScore, 1e-9)
	assert.Equal(t, int(math.Round(report.RawScore)), report.TotalScore)
	assert.Equal(t, 25.0, categoryScore(t, report, CategoryKeywords))
}

func TestATSScorer_JobDescriptionDoesNotChangePoints(t *testing.T) {
	vocab := DefaultVocabulary()
	f := ExtractFeatures(sampleResume, vocab)
	scorer := NewATSScorer(vocab)

	without, err := scorer.Score(&f, "")
	require.NoError(t, err)
	with, err := scorer.Score(&f, "Senior data scientist with kubernetes and terraform")
	require.NoError(t, err)

	assert.Equal(t, without.RawScore, with.RawScore)
}

func TestScoreFormat_WordCountBands(t *testing.T) {
	tests := []struct {
		words int
		want  float64
	}{
		{0, 10},
		{150, 15},
		{300, 20},
		{800, 20},
		{801, 15},
	}

	for _, tt := range tests {
		c := scoreFormat(&models.ResumeFeatures{WordCount: tt.words})
		assert.Equal(t, tt.want, c.Score, "word count %d", tt.words)
	}
}

func TestScoreLength_Bands(t *testing.T) {
	tests := []struct {
		words int
		want  float64
	}{
		{0, 1},
		{299, 1},
		{300, 3},
		{400, 5},
		{800, 5},
		{1000, 3},
		{1001, 1},
	}

	for _, tt := range tests {
		c := scoreLength(&models.ResumeFeatures{WordCount: tt.words})
		assert.Equal(t, tt.want, c.Score, "word count %d", tt.words)
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		total float64
		want  string
	}{
		{100, GradeExcellent},
		{90, GradeExcellent},
		{89.99, GradeVeryGood},
		{80, GradeVeryGood},
		{79.5, GradeGood},
		{70, GradeGood},
		{60, GradeFair},
		{59.99, GradeNeedsImprovement},
		{0, GradeNeedsImprovement},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.total), "total %v", tt.total)
	}
}

func TestRecommendations_AllGood(t *testing.T) {
	f := &models.ResumeFeatures{Email: "a@b.co", HasQuantifiableResults: true, ActionVerbCount: 6}

	assert.Equal(t, []string{"Great job! Your resume is well-optimized for ATS!"}, recommendations(f, 85))
}
