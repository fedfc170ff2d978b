package dto

import (
	"time"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
)

// VersionedRequest carries the version the caller last saw. Nil skips the early staleness check.
type VersionedRequest struct {
	Version *int64 `json:"version" validate:"omitempty,min=1"`
}

// CreateTestRequest creates a draft paper from a blueprint.
type CreateTestRequest struct {
	BlueprintID     string    `json:"blueprintId" validate:"required"`
	Title           string    `json:"title" validate:"required,max=200"`
	Subject         string    `json:"subject" validate:"omitempty,max=100"`
	Grade           string    `json:"grade" validate:"omitempty,max=20"`
	TotalMarks      int       `json:"totalMarks" validate:"omitempty,min=1,max=1000"`
	DurationMinutes int       `json:"durationMinutes" validate:"omitempty,min=1,max=600"`
	ExamDate        time.Time `json:"examDate" validate:"required"`
	PaperFormat     string    `json:"paperFormat" validate:"omitempty,max=50"`
}

// UpdateTestRequest edits paper content while the paper is in draft.
type UpdateTestRequest struct {
	VersionedRequest
	Title           *string    `json:"title" validate:"omitempty,min=1,max=200"`
	TotalMarks      *int       `json:"totalMarks" validate:"omitempty,min=1,max=1000"`
	DurationMinutes *int       `json:"durationMinutes" validate:"omitempty,min=1,max=600"`
	ExamDate        *time.Time `json:"examDate"`
	PaperFormat     *string    `json:"paperFormat" validate:"omitempty,max=50"`
}

// TransitionRequest is the body of every flag or state command.
type TransitionRequest struct {
	VersionedRequest
}

// TestQuery mirrors supported listing filters.
type TestQuery struct {
	Subject string
	Grade   string
	States  []models.TestState
	Limit   int
	Offset  int
}

// PrintPackResponse describes a rendered print pack.
type PrintPackResponse struct {
	TestID      string    `json:"testId"`
	Token       string    `json:"token"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
