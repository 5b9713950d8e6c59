package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"alfredoptarigan/resume-ats/internal/models"
)

const (
	maxMatchedKeywords = 10
	minKeywordLength   = 4
)

const (
	ParsingExcellent = "Excellent"
	ParsingGood      = "Good"
	ParsingPoor      = "Poor"
)

const (
	FormattingTables       = "Table-like layout detected (pipe-delimited text); ATS parsers often scramble tables"
	FormattingSpecialChars = "Special characters or symbols detected; use standard bullets and plain text"
	FormattingWideColumns  = "Wide column spacing detected; multi-column layouts may be read out of order"
	FormattingNoSections   = "No standard section headings detected (Experience, Education, Skills)"
	FormattingNoIssues     = "No major formatting issues detected"
)

const (
	defaultRoleName           = "default"
	jobDescriptionSeparator   = "\n\n"
	minCareerPathDescriptions = 3
)

var (
	wordPattern        = regexp.MustCompile(`[a-z]+`)
	tablePattern       = regexp.MustCompile(`(?m)^[^\n]*\|[^\n]*\|`)
	specialCharPattern = regexp.MustCompile(`[★☆✓✔✗✘➢➤►▶▪■□●○◆◇❖♦✦✧→⇒]`)
	wideColumnPattern  = regexp.MustCompile(`(?m)[^ \n][^\n]{18,}[^ \n] {10,}[^ \n][^\n]{18,}[^ \n]`)
)

func nonBlankDescription(s string) bool {
	return strings.TrimSpace(s) != ""
}

type JobMatcher interface {
	// Match compares a resume with one or more job descriptions. Failures in
	// optional parts are reported inside the returned record.
	Match(ctx context.Context, features *models.ResumeFeatures, jobDescriptions []string) *models.JobMatchReport
	AnalyzeCareerPath(features *models.ResumeFeatures, jobDescriptions []string) (*models.CareerPathReport, error)
}

type jobMatcher struct {
	vocab    *Vocabulary
	semantic SemanticAnalyzer
}

func NewJobMatcher(vocab *Vocabulary, semantic SemanticAnalyzer) JobMatcher {
	return &jobMatcher{
		vocab:    vocab,
		semantic: semantic,
	}
}

// Match implements JobMatcher.
func (m *jobMatcher) Match(ctx context.Context, features *models.ResumeFeatures, jobDescriptions []string) *models.JobMatchReport {
	if features == nil {
		features = &models.ResumeFeatures{}
	}

	descriptions := filterStrings(jobDescriptions, nonBlankDescription)
	jd := strings.Join(descriptions, jobDescriptionSeparator)
	resumeLower := strings.ToLower(features.RawText)
	jdLower := strings.ToLower(jd)

	overlap, matched := m.keywordOverlap(resumeLower, jdLower)
	role, found, missing := m.mustHaveSkills(resumeLower, jdLower)

	report := &models.JobMatchReport{
		KeywordOverlapPct: overlap,
		MatchedKeywords:   matched,
		Role:              role,
		MustHaveFound:     found,
		MustHaveMissing:   missing,
		FormattingErrors:  FormattingErrors(features),
		ParsingQuality:    ParsingQuality(features),
	}

	if m.semantic != nil {
		report.Semantic = m.semantic.Analyze(ctx, features.RawText, jd)
	}

	if len(descriptions) > 1 {
		careerPath, err := m.AnalyzeCareerPath(features, descriptions)
		if err != nil {
			report.CareerPathError = err.Error()
		} else {
			report.CareerPath = careerPath
		}
	}

	slog.Debug("🔍 Job match computed",
		slog.Float64("keyword_overlap", report.KeywordOverlapPct),
		slog.String("role", report.Role),
		slog.Int("job_descriptions", len(descriptions)),
	)
	return report
}

// keywordOverlap returns the share of job keywords present in the resume and
// the most frequent shared keywords.
func (m *jobMatcher) keywordOverlap(resumeLower, jdLower string) (float64, []string) {
	jdFreq := m.keywordCounts(jdLower)
	if len(jdFreq) == 0 {
		return 0, []string{}
	}
	resumeKW := m.keywordCounts(resumeLower)

	matched := []string{}
	for kw := range jdFreq {
		if resumeKW[kw] > 0 {
			matched = append(matched, kw)
		}
	}

	pct := round2(float64(len(matched)) / float64(len(jdFreq)) * 100)

	sort.Slice(matched, func(i, j int) bool {
		if jdFreq[matched[i]] != jdFreq[matched[j]] {
			return jdFreq[matched[i]] > jdFreq[matched[j]]
		}
		return matched[i] < matched[j]
	})
	if len(matched) > maxMatchedKeywords {
		matched = matched[:maxMatchedKeywords]
	}

	return pct, matched
}

// keywordCounts tokenizes lowercase text into alphabetic words of at least
// four letters, dropping stop words.
func (m *jobMatcher) keywordCounts(lower string) map[string]int {
	counts := make(map[string]int)
	for _, w := range wordPattern.FindAllString(lower, -1) {
		if len(w) < minKeywordLength || m.vocab.IsStopWord(w) {
			continue
		}
		counts[w]++
	}
	return counts
}

func (m *jobMatcher) mustHaveSkills(resumeLower, jdLower string) (string, []string, []string) {
	role := defaultRoleName
	for _, r := range m.vocab.RoleSkills {
		if strings.Contains(resumeLower, r.Role) || strings.Contains(jdLower, r.Role) {
			role = r.Role
			break
		}
	}

	found, missing := []string{}, []string{}
	for _, skill := range m.vocab.SkillsForRole(role) {
		if strings.Contains(resumeLower, skill) {
			found = append(found, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return role, found, missing
}

// FormattingErrors runs the layout checks in a fixed order.
func FormattingErrors(features *models.ResumeFeatures) []string {
	text := features.RawText

	var errs []string
	if tablePattern.MatchString(text) {
		errs = append(errs, FormattingTables)
	}
	if specialCharPattern.MatchString(text) {
		errs = append(errs, FormattingSpecialChars)
	}
	if wideColumnPattern.MatchString(text) {
		errs = append(errs, FormattingWideColumns)
	}
	if features.SectionCount() == 0 {
		errs = append(errs, FormattingNoSections)
	}

	if len(errs) == 0 {
		return []string{FormattingNoIssues}
	}
	return errs
}

func ParsingQuality(features *models.ResumeFeatures) string {
	sections := features.SectionCount()
	hasEmail := features.Email != ""

	switch {
	case features.WordCount >= 200 && hasEmail && sections >= 3:
		return ParsingExcellent
	case features.WordCount >= 100 && (hasEmail || sections >= 2):
		return ParsingGood
	default:
		return ParsingPoor
	}
}

func validateCareerPathInput(count int) error {
	if count < minCareerPathDescriptions {
		return fmt.Errorf("%w: career path analysis requires at least %d job descriptions, got %d",
			ErrValidation, minCareerPathDescriptions, count)
	}
	return nil
}

// containsTerm reports whether term occurs in lower on word boundaries.
func containsTerm(lower, term string) bool {
	if term == "" {
		return false
	}
	for start := 0; start <= len(lower)-len(term); {
		i := strings.Index(lower[start:], term)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(term)
		if (i == 0 || !isWordByte(lower[i-1])) && (end == len(lower) || !isWordByte(lower[end])) {
			return true
		}
		start = i + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func filterStrings(in []string, keep func(string) bool) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
