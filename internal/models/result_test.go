package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request AnalyzeRequest
		wantErr bool
	}{
		{
			name:    "valid request without job descriptions",
			request: AnalyzeRequest{DocumentID: "6f1c1f4e-7d59-4a57-9b3c-0c3b8a1f2d11"},
		},
		{
			name: "valid request with job descriptions",
			request: AnalyzeRequest{
				DocumentID:      "6f1c1f4e-7d59-4a57-9b3c-0c3b8a1f2d11",
				JobDescriptions: []string{"Backend engineer with Go"},
			},
		},
		{
			name:    "missing document id",
			request: AnalyzeRequest{},
			wantErr: true,
		},
		{
			name:    "malformed document id",
			request: AnalyzeRequest{DocumentID: "not-a-uuid"},
			wantErr: true,
		},
		{
			name: "blank job description",
			request: AnalyzeRequest{
				DocumentID:      "6f1c1f4e-7d59-4a57-9b3c-0c3b8a1f2d11",
				JobDescriptions: []string{""},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMatchRequest_RequiresResumeOrText(t *testing.T) {
	err := (&MatchRequest{JobDescriptions: []string{"x"}}).Validate()
	require.Error(t, err)

	assert.NoError(t, (&MatchRequest{ResumeText: "Skills: Go"}).Validate())
	assert.NoError(t, (&MatchRequest{Resume: &ResumeFeatures{RawText: "Skills: Go"}}).Validate())
}

func TestCareerPathRequest_ReferenceCountBounds(t *testing.T) {
	req := CareerPathRequest{ResumeText: "text", ReferenceCount: 11}
	assert.Error(t, req.Validate())

	req.ReferenceCount = -1
	assert.Error(t, req.Validate())

	req.ReferenceCount = 3
	assert.NoError(t, req.Validate())
}

func TestScoreRequest_RequiresResume(t *testing.T) {
	assert.Error(t, (&ScoreRequest{}).Validate())
	assert.NoError(t, (&ScoreRequest{Resume: &ResumeFeatures{}}).Validate())
}

func TestResumeFeatures_Sections(t *testing.T) {
	var nilFeatures *ResumeFeatures
	assert.False(t, nilFeatures.HasSection(SectionSkills))
	assert.Equal(t, 0, nilFeatures.SectionCount())

	f := &ResumeFeatures{Sections: map[string]bool{
		SectionSkills:     true,
		SectionEducation:  true,
		SectionExperience: false,
	}}
	assert.True(t, f.HasSection(SectionSkills))
	assert.False(t, f.HasSection(SectionExperience))
	assert.False(t, f.HasSection(SectionProjects))
	assert.Equal(t, 2, f.SectionCount())
}

func TestScoreReport_Category(t *testing.T) {
	r := &ScoreReport{CategoryBreakdown: []CategoryScore{
		{Name: "Format", Score: 15, Max: 20},
		{Name: "Skills", Score: 10, Max: 10},
	}}

	c, ok := r.Category("Skills")
	require.True(t, ok)
	assert.Equal(t, 10.0, c.Score)

	_, ok = r.Category("Length")
	assert.False(t, ok)
}
