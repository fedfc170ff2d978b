package dto

import (
	"time"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
)

// CreateChapterRequest creates a draft chapter.
type CreateChapterRequest struct {
	Subject  string   `json:"subject" validate:"required,max=100"`
	Grade    string   `json:"grade" validate:"required,max=20"`
	Position int      `json:"position" validate:"min=0"`
	Title    string   `json:"title" validate:"required,max=200"`
	Topics   []string `json:"topics" validate:"required,min=1,dive,required,max=200"`
}

// UnlockChapterRequest opens a chapter with an optional deadline.
type UnlockChapterRequest struct {
	VersionedRequest
	Deadline *time.Time `json:"deadline"`
}

// SetDeadlineRequest sets the deadline of an unlocked chapter.
type SetDeadlineRequest struct {
	VersionedRequest
	Deadline time.Time `json:"deadline" validate:"required"`
}

// UpdatePortionsRequest replaces the completed topic list.
type UpdatePortionsRequest struct {
	VersionedRequest
	CompletedTopics []string `json:"completedTopics" validate:"dive,required"`
}

// ChapterQuery mirrors supported listing filters.
type ChapterQuery struct {
	Subject string
	Grade   string
	Status  []models.ChapterStatus
	Limit   int
	Offset  int
}

// ChapterResponse adds derived progress to a chapter.
type ChapterResponse struct {
	models.Chapter
	Progress int `json:"progress"`
}

// NewChapterResponse wraps a chapter with its progress percentage.
func NewChapterResponse(chapter models.Chapter) ChapterResponse {
	return ChapterResponse{Chapter: chapter, Progress: chapter.Progress()}
}
