package services

import (
	"fmt"
	"math"
	"strings"

	"alfredoptarigan/resume-ats/internal/models"
)

// Category names and maximum points, in evaluation order.
const (
	CategoryFormat     = "Format"
	CategoryKeywords   = "Keywords"
	CategorySections   = "Sections"
	CategoryContact    = "Contact Info"
	CategoryExperience = "Experience"
	CategorySkills     = "Skills"
	CategoryLength     = "Length"
)

const (
	maxFormat     = 20.0
	maxKeywords   = 25.0
	maxSections   = 15.0
	maxContact    = 10.0
	maxExperience = 15.0
	maxSkills     = 10.0
	maxLength     = 5.0

	maxTechScore = 15.0
	maxSoftScore = 10.0
)

const (
	GradeExcellent        = "Excellent"
	GradeVeryGood         = "Very Good"
	GradeGood             = "Good"
	GradeFair             = "Fair"
	GradeNeedsImprovement = "Needs Improvement"
)

var requiredSections = []string{
	models.SectionExperience,
	models.SectionEducation,
	models.SectionSkills,
}

type ATSScorer interface {
	// Score computes the seven-category report. The job description is
	// accepted for the keyword category but does not change its points.
	Score(features *models.ResumeFeatures, jobDescription string) (*models.ScoreReport, error)
}

type atsScorer struct {
	vocab *Vocabulary
}

func NewATSScorer(vocab *Vocabulary) ATSScorer {
	return &atsScorer{vocab: vocab}
}

// Score implements ATSScorer.
func (s *atsScorer) Score(features *models.ResumeFeatures, jobDescription string) (*models.ScoreReport, error) {
	if features == nil {
		features = &models.ResumeFeatures{}
	}
	if features.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, features.Error)
	}

	categories := []models.CategoryScore{
		scoreFormat(features),
		s.scoreKeywords(features, jobDescription),
		scoreSections(features),
		scoreContact(features),
		scoreExperience(features),
		scoreSkills(features),
		scoreLength(features),
	}

	var raw float64
	for _, c := range categories {
		raw += c.Score
	}

	total := int(math.Round(raw))
	return &models.ScoreReport{
		TotalScore:        total,
		RawScore:          raw,
		Grade:             Grade(raw),
		CategoryBreakdown: categories,
		Recommendations:   recommendations(features, total),
		KeyInsights: models.KeyInsights{
			Email:                  features.Email,
			Phones:                 features.Phones,
			WordCount:              features.WordCount,
			ActionVerbCount:        features.ActionVerbCount,
			HasQuantifiableResults: features.HasQuantifiableResults,
		},
	}, nil
}

// Grade maps an unrounded total to its label. Lower bounds are inclusive.
func Grade(total float64) string {
	switch {
	case total >= 90:
		return GradeExcellent
	case total >= 80:
		return GradeVeryGood
	case total >= 70:
		return GradeGood
	case total >= 60:
		return GradeFair
	default:
		return GradeNeedsImprovement
	}
}

func scoreFormat(f *models.ResumeFeatures) models.CategoryScore {
	c := models.CategoryScore{Name: CategoryFormat, Max: maxFormat}

	c.Score += 10
	c.Feedback = append(c.Feedback, "✓ File format is ATS-compatible")

	wc := f.WordCount
	switch {
	case wc >= 300 && wc <= 800:
		c.Score += 10
		c.Feedback = append(c.Feedback, fmt.Sprintf("✓ Word count is optimal (%d words)", wc))
	case wc > 0:
		c.Score += 5
		c.Feedback = append(c.Feedback, fmt.Sprintf("⚠ Word count is %d (recommended: 300-800)", wc))
	default:
		c.Feedback = append(c.Feedback, "✗ Could not determine word count")
	}

	return capped(c)
}

func (s *atsScorer) scoreKeywords(f *models.ResumeFeatures, _ string) models.CategoryScore {
	c := models.CategoryScore{Name: CategoryKeywords, Max: maxKeywords}
	text := strings.ToLower(f.RawText)

	techFound := countPresent(text, s.vocab.TechKeywords)
	c.Score += scaled(techFound, len(s.vocab.TechKeywords), maxTechScore)
	if techFound > 5 {
		c.Feedback = append(c.Feedback, fmt.Sprintf("✓ Good technical keyword coverage (%d found)", techFound))
	} else {
		c.Feedback = append(c.Feedback, fmt.Sprintf("⚠ Limited technical keywords (%d found)", techFound))
	}

	softFound := countPresent(text, s.vocab.SoftSkills)
	c.Score += scaled(softFound, len(s.vocab.SoftSkills), maxSoftScore)
	if softFound > 3 {
		c.Feedback = append(c.Feedback, fmt.Sprintf("✓ Good soft skills representation (%d found)", softFound))
	} else {
		c.Feedback = append(c.Feedback, fmt.Sprintf("⚠ Consider adding more soft skills (%d found)", softFound))
	}

	return capped(c)
}

func scoreSections(f *models.ResumeFeatures) models.CategoryScore {
	c := models.CategoryScore{Name: CategorySections, Max: maxSections}

	for _, section := range requiredSections {
		title := strings.ToUpper(section[:1]) + section[1:]
		if f.HasSection(section) {
			c.Score += 5
			c.Feedback = append(c.Feedback, fmt.Sprintf("✓ %s section present", title))
		} else {
			c.Feedback = append(c.Feedback, fmt.Sprintf("✗ Missing %s section", title))
		}
	}

	return capped(c)
}

func scoreContact(f *models.ResumeFeatures) models.CategoryScore {
	c := models.CategoryScore{Name: CategoryContact, Max: maxContact}

	if f.Email != "" {
		c.Score += 5
		c.Feedback = append(c.Feedback, fmt.Sprintf("✓ Email present: %s", f.Email))
	} else {
		c.Feedback = append(c.Feedback, "✗ Email not found")
	}

	if len(f.Phones) > 0 {
		c.Score += 5
		c.Feedback = append(c.Feedback, "✓ Phone number present")
	} else {
		c.Feedback = append(c.Feedback, "✗ Phone number not found")
	}

	return capped(c)
}

func scoreExperience(f *models.ResumeFeatures) models.CategoryScore {
	c := models.CategoryScore{Name: CategoryExperience, Max: maxExperience}

	verbs := f.ActionVerbCount
	switch {
	case verbs >= 5:
		c.Score += 7
		c.Feedback = append(c.Feedback, fmt.Sprintf("✓ Good use of action verbs (%d found)", verbs))
	case verbs > 0:
		c.Score += 3
		c.Feedback = append(c.Feedback, fmt.Sprintf("⚠ Limited action verbs (%d found)", verbs))
	default:
		c.Feedback = append(c.Feedback, "✗ No action verbs detected")
	}

	if f.HasQuantifiableResults {
		c.Score += 8
		c.Feedback = append(c.Feedback, "✓ Contains quantifiable achievements")
	} else {
		c.Feedback = append(c.Feedback, "✗ No quantifiable results found (add metrics, percentages, numbers)")
	}

	return capped(c)
}

// scoreSkills repeats the skills-section check of scoreSections as its own
// category.
func scoreSkills(f *models.ResumeFeatures) models.CategoryScore {
	c := models.CategoryScore{Name: CategorySkills, Max: maxSkills}

	if f.HasSection(models.SectionSkills) {
		c.Score += 10
		c.Feedback = append(c.Feedback, "✓ Skills section present")
	} else {
		c.Feedback = append(c.Feedback, "✗ Skills section not clearly identified")
	}

	return capped(c)
}

func scoreLength(f *models.ResumeFeatures) models.CategoryScore {
	c := models.CategoryScore{Name: CategoryLength, Max: maxLength}

	wc := f.WordCount
	switch {
	case wc >= 400 && wc <= 800:
		c.Score += 5
		c.Feedback = append(c.Feedback, "✓ Optimal resume length")
	case (wc >= 300 && wc < 400) || (wc > 800 && wc <= 1000):
		c.Score += 3
		c.Feedback = append(c.Feedback, "⚠ Resume length acceptable but not optimal")
	default:
		c.Score += 1
		c.Feedback = append(c.Feedback, fmt.Sprintf("✗ Resume length needs adjustment (%d words)", wc))
	}

	return capped(c)
}

func recommendations(f *models.ResumeFeatures, total int) []string {
	var recs []string
	if total < 70 {
		recs = append(recs, "Critical: your resume needs significant improvements to pass ATS screening.")
	}
	if f.Email == "" {
		recs = append(recs, "Add a professional email address")
	}
	if !f.HasQuantifiableResults {
		recs = append(recs, "Add quantifiable achievements (e.g., 'Increased sales by 25%')")
	}
	if f.ActionVerbCount < 5 {
		recs = append(recs, "Use more action verbs (achieved, improved, developed, etc.)")
	}
	if len(recs) == 0 {
		recs = append(recs, "Great job! Your resume is well-optimized for ATS!")
	}
	return recs
}

func scaled(found, total int, max float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Min(max, float64(found)/float64(total)*max)
}

func capped(c models.CategoryScore) models.CategoryScore {
	c.Score = math.Min(c.Score, c.Max)
	return c
}
