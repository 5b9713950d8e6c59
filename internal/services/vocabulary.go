package services

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/vocabulary.json
var defaultVocabularyJSON []byte

//go:embed data/vocabulary.schema.json
var vocabularySchemaJSON []byte

type SectionRule struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type RoleSkills struct {
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
}

type ToolSkill struct {
	Tool  string `json:"tool"`
	Skill string `json:"skill"`
}

type SynonymGroup struct {
	Term        string   `json:"term"`
	Equivalents []string `json:"equivalents"`
}

// Vocabulary holds every term table used by feature extraction, scoring and
// matching. Slices keep file order; role precedence depends on it.
type Vocabulary struct {
	ActionVerbs         []string       `json:"action_verbs"`
	TechKeywords        []string       `json:"tech_keywords"`
	SoftSkills          []string       `json:"soft_skills"`
	Sections            []SectionRule  `json:"sections"`
	StopWords           []string       `json:"stop_words"`
	DefaultRoleSkills   []string       `json:"default_role_skills"`
	RoleSkills          []RoleSkills   `json:"role_skills"`
	ToolSkillInferences []ToolSkill    `json:"tool_skill_inferences"`
	SynonymGroups       []SynonymGroup `json:"synonym_groups"`
	FutureTech          []string       `json:"future_tech"`

	stopWords map[string]bool
}

var (
	defaultVocabOnce sync.Once
	defaultVocab     *Vocabulary
)

// DefaultVocabulary returns the embedded vocabulary. It panics if the
// embedded file does not satisfy its schema.
func DefaultVocabulary() *Vocabulary {
	defaultVocabOnce.Do(func() {
		v, err := ParseVocabulary(defaultVocabularyJSON)
		if err != nil {
			panic(fmt.Sprintf("embedded vocabulary is invalid: %v", err))
		}
		defaultVocab = v
	})
	return defaultVocab
}

// LoadVocabulary reads a vocabulary override from path, or returns the
// embedded default when path is empty.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	return ParseVocabulary(data)
}

// ParseVocabulary validates data against the vocabulary schema and decodes it.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(vocabularySchemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			problems = append(problems, fmt.Sprintf("%s: %s", field, desc.Description()))
		}
		return nil, fmt.Errorf("%w: vocabulary: %s", ErrValidation, strings.Join(problems, "; "))
	}

	var v Vocabulary
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}

	v.stopWords = make(map[string]bool, len(v.StopWords))
	for _, w := range v.StopWords {
		v.stopWords[strings.ToLower(w)] = true
	}

	return &v, nil
}

func (v *Vocabulary) IsStopWord(word string) bool {
	return v.stopWords[word]
}

// SkillsForRole returns the required skills of role, or the default list.
func (v *Vocabulary) SkillsForRole(role string) []string {
	for _, r := range v.RoleSkills {
		if r.Role == role {
			return r.Skills
		}
	}
	return v.DefaultRoleSkills
}
