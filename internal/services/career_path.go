package services

import (
	"sort"
	"strings"

	"alfredoptarigan/resume-ats/internal/models"
)

const (
	maxKeywordFrequencies = 30

	// Document-frequency thresholds, in percent of job descriptions.
	commonKeywordPct   = 60
	highDemandPct      = 40
	highPriorityGapPct = 80

	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
)

// AnalyzeCareerPath implements JobMatcher. It needs at least three non-blank
// job descriptions.
func (m *jobMatcher) AnalyzeCareerPath(features *models.ResumeFeatures, jobDescriptions []string) (*models.CareerPathReport, error) {
	if features == nil {
		features = &models.ResumeFeatures{}
	}

	descriptions := filterStrings(jobDescriptions, nonBlankDescription)
	if err := validateCareerPathInput(len(descriptions)); err != nil {
		return nil, err
	}
	n := len(descriptions)

	docFreq := make(map[string]int)
	anyJD := make([]string, 0, n)
	for _, jd := range descriptions {
		lower := strings.ToLower(jd)
		anyJD = append(anyJD, lower)
		for kw := range m.keywordCounts(lower) {
			docFreq[kw]++
		}
	}

	ranked := make([]models.KeywordFrequency, 0, len(docFreq))
	for kw, count := range docFreq {
		ranked = append(ranked, models.KeywordFrequency{
			Keyword:   kw,
			Count:     count,
			Frequency: round2(float64(count) / float64(n) * 100),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})

	resumeKW := m.keywordCounts(strings.ToLower(features.RawText))

	report := &models.CareerPathReport{
		JobDescriptionCount:    n,
		CommonKeywords:         []string{},
		HighDemandSkills:       []string{},
		FutureSkills:           futureSkills(anyJD, m.vocab),
		SkillGaps:              []models.SkillGap{},
		SynonymRecommendations: []models.SynonymRecommendation{},
	}

	top := ranked
	if len(top) > maxKeywordFrequencies {
		top = top[:maxKeywordFrequencies]
	}
	report.KeywordFrequencies = top

	highDemandPresent := 0
	for _, kf := range ranked {
		if atLeastPct(kf.Count, n, highDemandPct) {
			report.HighDemandSkills = append(report.HighDemandSkills, kf.Keyword)
			if resumeKW[kf.Keyword] > 0 {
				highDemandPresent++
			}
		}

		if !atLeastPct(kf.Count, n, commonKeywordPct) {
			continue
		}
		report.CommonKeywords = append(report.CommonKeywords, kf.Keyword)

		if resumeKW[kf.Keyword] > 0 {
			continue
		}
		priority := PriorityMedium
		if atLeastPct(kf.Count, n, highPriorityGapPct) {
			priority = PriorityHigh
		}
		report.SkillGaps = append(report.SkillGaps, models.SkillGap{
			Skill:     kf.Keyword,
			Frequency: kf.Frequency,
			Priority:  priority,
		})
		if alts := synonymAlternatives(kf.Keyword, m.vocab); len(alts) > 0 {
			report.SynonymRecommendations = append(report.SynonymRecommendations, models.SynonymRecommendation{
				Skill:        kf.Keyword,
				Alternatives: alts,
			})
		}
	}

	if len(report.HighDemandSkills) > 0 {
		report.OptimizationScore = round2(float64(highDemandPresent) / float64(len(report.HighDemandSkills)) * 100)
	}
	report.Recommendation = careerRecommendation(report.OptimizationScore)

	return report, nil
}

// atLeastPct reports count/total >= pct/100 without float rounding.
func atLeastPct(count, total, pct int) bool {
	return count*100 >= pct*total
}

func futureSkills(lowerJDs []string, vocab *Vocabulary) []string {
	skills := []string{}
	for _, tech := range vocab.FutureTech {
		for _, jd := range lowerJDs {
			if containsTerm(jd, tech) {
				skills = append(skills, tech)
				break
			}
		}
	}
	return skills
}

// synonymAlternatives lists the other members of every synonym group that
// contains skill, sorted and deduplicated.
func synonymAlternatives(skill string, vocab *Vocabulary) []string {
	seen := make(map[string]bool)
	for _, group := range vocab.SynonymGroups {
		members := append([]string{group.Term}, group.Equivalents...)
		inGroup := false
		for _, member := range members {
			if member == skill {
				inGroup = true
				break
			}
		}
		if !inGroup {
			continue
		}
		for _, member := range members {
			if member != skill {
				seen[member] = true
			}
		}
	}

	alts := make([]string, 0, len(seen))
	for a := range seen {
		alts = append(alts, a)
	}
	sort.Strings(alts)
	return alts
}

func careerRecommendation(score float64) string {
	switch {
	case score >= 70:
		return "Your resume is well aligned with this career path. Keep tailoring it to each posting."
	case score >= 50:
		return "Your resume covers part of this career path. Add the missing high-demand skills you genuinely have."
	default:
		return "Your resume is missing many skills this career path asks for. Start with the HIGH priority gaps."
	}
}
