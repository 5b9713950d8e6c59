package services

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"alfredoptarigan/resume-ats/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),                    // 123-456-7890
		regexp.MustCompile(`\b\(\d{3}\)\s?\d{3}[-.\s]?\d{4}\b`),                    // (123) 456-7890
		regexp.MustCompile(`\b\+?\d{1,3}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`), // +1 123-456-7890
	}

	quantifiablePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+%`),
		regexp.MustCompile(`(?i)\$\d+`),
		regexp.MustCompile(`(?i)\d+\s*(million|thousand|billion|k)`),
		regexp.MustCompile(`(?i)increased by \d+`),
		regexp.MustCompile(`(?i)decreased by \d+`),
		regexp.MustCompile(`(?i)saved \$?\d+`),
		regexp.MustCompile(`(?i)grew by \d+`),
	}
)

var allSections = []string{
	models.SectionExperience,
	models.SectionEducation,
	models.SectionSkills,
	models.SectionSummary,
	models.SectionProjects,
	models.SectionCertifications,
}

// ExtractFeatures derives the resume signals from plain text. It performs
// no I/O and always returns all six section keys.
func ExtractFeatures(text string, vocab *Vocabulary) models.ResumeFeatures {
	lower := strings.ToLower(text)

	return models.ResumeFeatures{
		RawText:                text,
		WordCount:              len(strings.Fields(text)),
		Email:                  emailPattern.FindString(text),
		Phones:                 extractPhones(text),
		Sections:               detectSections(lower, vocab),
		ActionVerbCount:        countPresent(lower, vocab.ActionVerbs),
		HasQuantifiableResults: hasQuantifiableResults(text),
	}
}

func extractPhones(text string) []string {
	seen := make(map[string]bool)
	for _, p := range phonePatterns {
		for _, m := range p.FindAllString(text, -1) {
			seen[m] = true
		}
	}

	phones := make([]string, 0, len(seen))
	for p := range seen {
		phones = append(phones, p)
	}
	sort.Strings(phones)
	return phones
}

func detectSections(lower string, vocab *Vocabulary) map[string]bool {
	sections := make(map[string]bool, len(allSections))
	for _, name := range allSections {
		sections[name] = false
	}

	for _, rule := range vocab.Sections {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				sections[rule.Name] = true
				break
			}
		}
	}
	return sections
}

// countPresent counts the terms that occur at least once in lower.
func countPresent(lower string, terms []string) int {
	count := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			count++
		}
	}
	return count
}

func hasQuantifiableResults(text string) bool {
	for _, p := range quantifiablePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

type ResumeParser interface {
	// ParseFile and ParseBytes return features carrying the error marker
	// together with the error when no text can be extracted.
	ParseFile(path string) (*models.ResumeFeatures, error)
	ParseBytes(filename string, data []byte) (*models.ResumeFeatures, error)
	ParseText(text string) *models.ResumeFeatures
}

type resumeParser struct {
	extractor TextExtractor
	vocab     *Vocabulary
}

func NewResumeParser(extractor TextExtractor, vocab *Vocabulary) ResumeParser {
	return &resumeParser{
		extractor: extractor,
		vocab:     vocab,
	}
}

// ParseFile implements ResumeParser.
func (p *resumeParser) ParseFile(path string) (*models.ResumeFeatures, error) {
	text, err := p.extractor.ExtractFile(path)
	return p.fromExtraction(path, text, err)
}

// ParseBytes implements ResumeParser.
func (p *resumeParser) ParseBytes(filename string, data []byte) (*models.ResumeFeatures, error) {
	text, err := p.extractor.ExtractBytes(filename, data)
	return p.fromExtraction(filename, text, err)
}

// ParseText implements ResumeParser.
func (p *resumeParser) ParseText(text string) *models.ResumeFeatures {
	features := ExtractFeatures(text, p.vocab)
	return &features
}

func (p *resumeParser) fromExtraction(name, text string, err error) (*models.ResumeFeatures, error) {
	if err != nil {
		slog.Warn("⚠️ Resume extraction failed", slog.String("file", name), slog.Any("error", err))
		return &models.ResumeFeatures{Error: err.Error()}, fmt.Errorf("failed to parse resume: %w", err)
	}

	features := ExtractFeatures(text, p.vocab)
	slog.Debug("📄 Resume parsed",
		slog.String("file", name),
		slog.Int("words", features.WordCount),
		slog.Int("action_verbs", features.ActionVerbCount),
	)
	return &features, nil
}
