package models

// Section keys detected in resume text.
const (
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionSummary        = "summary"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
)

// ResumeFeatures holds the signals derived from a resume's extracted text.
// Error is set only when text extraction failed.
type ResumeFeatures struct {
	RawText                string          `json:"raw_text"`
	WordCount              int             `json:"word_count"`
	Email                  string          `json:"email"`
	Phones                 []string        `json:"phones"`
	Sections               map[string]bool `json:"sections"`
	ActionVerbCount        int             `json:"action_verb_count"`
	HasQuantifiableResults bool            `json:"has_quantifiable_results"`
	Error                  string          `json:"error,omitempty"`
}

func (f *ResumeFeatures) HasSection(name string) bool {
	if f == nil || f.Sections == nil {
		return false
	}
	return f.Sections[name]
}

func (f *ResumeFeatures) SectionCount() int {
	if f == nil {
		return 0
	}
	count := 0
	for _, present := range f.Sections {
		if present {
			count++
		}
	}
	return count
}

type CategoryScore struct {
	Name     string   `json:"name"`
	Score    float64  `json:"score"`
	Max      float64  `json:"max"`
	Feedback []string `json:"feedback"`
}

type KeyInsights struct {
	Email                  string   `json:"email"`
	Phones                 []string `json:"phones"`
	WordCount              int      `json:"word_count"`
	ActionVerbCount        int      `json:"action_verb_count"`
	HasQuantifiableResults bool     `json:"has_quantifiable_results"`
}

// ScoreReport is the seven-category ATS score. RawScore keeps the unrounded
// sum that Grade was derived from.
type ScoreReport struct {
	TotalScore        int             `json:"total_score"`
	RawScore          float64         `json:"raw_score"`
	Grade             string          `json:"grade"`
	CategoryBreakdown []CategoryScore `json:"category_breakdown"`
	Recommendations   []string        `json:"recommendations"`
	KeyInsights       KeyInsights     `json:"key_insights"`
}

func (r *ScoreReport) Category(name string) (CategoryScore, bool) {
	for _, c := range r.CategoryBreakdown {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryScore{}, false
}

type SemanticStatus string

const (
	SemanticOK               SemanticStatus = "ok"
	SemanticUnavailable      SemanticStatus = "unavailable"
	SemanticNoJobDescription SemanticStatus = "no_job_description"
	SemanticError            SemanticStatus = "error"
)

type InferredSkill struct {
	Tool  string `json:"tool"`
	Skill string `json:"skill"`
}

type SynonymMatch struct {
	Term    string   `json:"term"`
	Matches []string `json:"matches"`
}

type SemanticReport struct {
	Status               SemanticStatus  `json:"status"`
	Message              string          `json:"message,omitempty"`
	SimilarityScore      float64         `json:"similarity_score"`
	MatchLevel           string          `json:"match_level,omitempty"`
	CapabilityValidation string          `json:"capability_validation,omitempty"`
	InferredSkills       []InferredSkill `json:"inferred_skills"`
	SynonymMatches       []SynonymMatch  `json:"synonym_matches"`
}

type KeywordFrequency struct {
	Keyword   string  `json:"keyword"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

type SkillGap struct {
	Skill     string  `json:"skill"`
	Frequency float64 `json:"frequency"`
	Priority  string  `json:"priority"`
}

type SynonymRecommendation struct {
	Skill        string   `json:"skill"`
	Alternatives []string `json:"alternatives"`
}

type CareerPathReport struct {
	JobDescriptionCount    int                     `json:"job_description_count"`
	KeywordFrequencies     []KeywordFrequency      `json:"keyword_frequencies"`
	CommonKeywords         []string                `json:"common_keywords"`
	HighDemandSkills       []string                `json:"high_demand_skills"`
	FutureSkills           []string                `json:"future_skills"`
	SkillGaps              []SkillGap              `json:"skill_gaps"`
	SynonymRecommendations []SynonymRecommendation `json:"synonym_recommendations"`
	OptimizationScore      float64                 `json:"optimization_score"`
	Recommendation         string                  `json:"recommendation"`
}

type JobMatchReport struct {
	KeywordOverlapPct float64           `json:"keyword_overlap_pct"`
	MatchedKeywords   []string          `json:"matched_keywords"`
	Role              string            `json:"role"`
	MustHaveFound     []string          `json:"must_have_found"`
	MustHaveMissing   []string          `json:"must_have_missing"`
	FormattingErrors  []string          `json:"formatting_errors"`
	ParsingQuality    string            `json:"parsing_quality"`
	Semantic          *SemanticReport   `json:"semantic,omitempty"`
	CareerPath        *CareerPathReport `json:"career_path,omitempty"`
	CareerPathError   string            `json:"career_path_error,omitempty"`
}
