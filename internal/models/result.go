package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	Size         int64  `json:"size"`
}

type AnalyzeRequest struct {
	DocumentID      string   `json:"document_id" validate:"required,uuid"`
	JobDescriptions []string `json:"job_descriptions" validate:"max=20,dive,required"`
}

func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

type AnalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ScoreRequest struct {
	Resume         *ResumeFeatures `json:"resume" validate:"required"`
	JobDescription string          `json:"job_description"`
}

func (r *ScoreRequest) Validate() error {
	return validate.Struct(r)
}

// MatchRequest accepts either parsed features or raw resume text.
type MatchRequest struct {
	Resume          *ResumeFeatures `json:"resume" validate:"required_without=ResumeText"`
	ResumeText      string          `json:"resume_text" validate:"required_without=Resume"`
	JobDescriptions []string        `json:"job_descriptions" validate:"max=20,dive,required"`
}

func (r *MatchRequest) Validate() error {
	return validate.Struct(r)
}

type CareerPathRequest struct {
	Resume          *ResumeFeatures `json:"resume" validate:"required_without=ResumeText"`
	ResumeText      string          `json:"resume_text" validate:"required_without=Resume"`
	JobDescriptions []string        `json:"job_descriptions" validate:"max=20,dive,required"`
	ReferenceCount  int             `json:"reference_count" validate:"min=0,max=10"`
}

func (r *CareerPathRequest) Validate() error {
	return validate.Struct(r)
}

type ResultResponse struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Result       *AnalysisData `json:"result,omitempty"`
	ErrorMessage *string       `json:"error_message,omitempty"`
}

type AnalysisData struct {
	TotalScore int             `json:"total_score"`
	Grade      string          `json:"grade"`
	Features   *ResumeFeatures `json:"features"`
	Score      *ScoreReport    `json:"score"`
	Match      *JobMatchReport `json:"match,omitempty"`
}
