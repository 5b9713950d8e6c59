package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// Analysis is a queued full pipeline run (parse, score, match) over an
// uploaded resume.
type Analysis struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID      uuid.UUID       `gorm:"type:uuid;not null" json:"document_id"`
	JobDescriptions []string        `gorm:"serializer:json;type:jsonb" json:"job_descriptions"`
	Status          AnalysisStatus  `gorm:"not null;default:'queued'" json:"status"`
	TotalScore      *int            `json:"total_score,omitempty"`
	Grade           *string         `gorm:"type:text" json:"grade,omitempty"`
	Features        *ResumeFeatures `gorm:"serializer:json;type:jsonb" json:"features,omitempty"`
	Score           *ScoreReport    `gorm:"serializer:json;type:jsonb" json:"score,omitempty"`
	Match           *JobMatchReport `gorm:"serializer:json;type:jsonb" json:"match,omitempty"`
	ErrorMessage    string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt       time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
