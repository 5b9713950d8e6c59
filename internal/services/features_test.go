package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ats/internal/models"
)

const sampleResume = `Jane Doe
jane.doe@example.com | 555-123-4567
Summary
Software engineer with Python and SQL experience.
Experience
Led a team of five engineers and developed a payments platform.
Improved API latency by 40% and managed the migration to AWS.
Designed and implemented CI pipelines; delivered features weekly.
Education
B.S. Computer Science, State University
Skills
Python, SQL, Docker, Git, communication, leadership`

func TestExtractFeatures_SampleResume(t *testing.T) {
	f := ExtractFeatures(sampleResume, DefaultVocabulary())

	assert.Equal(t, sampleResume, f.RawText)
	assert.Equal(t, len(strings.Fields(sampleResume)), f.WordCount)
	assert.Equal(t, "jane.doe@example.com", f.Email)
	assert.Equal(t, []string{"555-123-4567"}, f.Phones)
	assert.Equal(t, map[string]bool{
		models.SectionExperience:     true,
		models.SectionEducation:      true,
		models.SectionSkills:         true,
		models.SectionSummary:        true,
		models.SectionProjects:       false,
		models.SectionCertifications: false,
	}, f.Sections)
	// improved, developed, managed, led, designed, implemented, delivered
	assert.Equal(t, 7, f.ActionVerbCount)
	assert.True(t, f.HasQuantifiableResults)
	assert.Empty(t, f.Error)
}

func TestExtractFeatures_EmptyText(t *testing.T) {
	f := ExtractFeatures("", DefaultVocabulary())

	assert.Zero(t, f.WordCount)
	assert.Empty(t, f.Email)
	assert.Empty(t, f.Phones)
	assert.Len(t, f.Sections, 6)
	assert.Zero(t, f.SectionCount())
	assert.Zero(t, f.ActionVerbCount)
	assert.False(t, f.HasQuantifiableResults)
}

func TestExtractFeatures_PhonesDeduplicated(t *testing.T) {
	f := ExtractFeatures("Call 555-123-4567 or 555-123-4567 after five", DefaultVocabulary())

	assert.Equal(t, []string{"555-123-4567"}, f.Phones)
}

func TestExtractFeatures_ActionVerbsCountedOncePerVerb(t *testing.T) {
	f := ExtractFeatures("Developed X. Developed Y. Developed Z.", DefaultVocabulary())

	assert.Equal(t, 1, f.ActionVerbCount)
}

func TestHasQuantifiableResults(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Cut costs by 25%", true},
		{"Managed a $2000 budget", true},
		{"Served 3 million users", true},
		{"Revenue increased by 12 points", true},
		{"Saved 300 hours per quarter", true},
		{"Team GREW BY 4 people", true},
		{"Worked on many things", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, hasQuantifiableResults(tt.text))
		})
	}
}

func TestResumeParser_ParseText(t *testing.T) {
	parser := NewResumeParser(NewTextExtractor(), DefaultVocabulary())

	f := parser.ParseText(sampleResume)

	require.NotNil(t, f)
	assert.Equal(t, "jane.doe@example.com", f.Email)
}

func TestResumeParser_ParseBytesFailureCarriesErrorMarker(t *testing.T) {
	parser := NewResumeParser(NewTextExtractor(), DefaultVocabulary())

	f, err := parser.ParseBytes("resume.pdf", []byte("not a pdf"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
	require.NotNil(t, f)
	assert.NotEmpty(t, f.Error)
}

func TestResumeParser_ParseFileUnsupported(t *testing.T) {
	parser := NewResumeParser(NewTextExtractor(), DefaultVocabulary())

	f, err := parser.ParseFile("resume.txt")

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	require.NotNil(t, f)
	assert.NotEmpty(t, f.Error)
}
