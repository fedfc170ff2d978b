package models

import (
	"math"
	"time"

	"github.com/lib/pq"
)

// ChapterStatus captures the syllabus unit lifecycle. It is unrelated to TestState even though both use "locked".
type ChapterStatus string

const (
	ChapterStatusDraft     ChapterStatus = "draft"
	ChapterStatusLocked    ChapterStatus = "locked"
	ChapterStatusUnlocked  ChapterStatus = "unlocked"
	ChapterStatusCompleted ChapterStatus = "completed"
)

// Chapter represents a syllabus unit with topic completion tracking.
type Chapter struct {
	ID              string         `db:"id" json:"id"`
	TenantID        string         `db:"tenant_id" json:"tenantId"`
	Subject         string         `db:"subject" json:"subject"`
	Grade           string         `db:"grade" json:"grade"`
	Position        int            `db:"position" json:"position"`
	Title           string         `db:"title" json:"title"`
	Status          ChapterStatus  `db:"status" json:"status"`
	Deadline        *time.Time     `db:"deadline" json:"deadline,omitempty"`
	ScoresRevealed  bool           `db:"scores_revealed" json:"scoresRevealed"`
	Topics          pq.StringArray `db:"topics" json:"topics"`
	CompletedTopics pq.StringArray `db:"completed_topics" json:"completedTopics"`
	CreatedBy       string         `db:"created_by" json:"createdBy"`
	Version         int64          `db:"version" json:"version"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updatedAt"`
}

// Progress returns the share of completed topics as a rounded percentage.
func (c *Chapter) Progress() int {
	if c == nil || len(c.Topics) == 0 {
		return 0
	}
	return int(math.Round(float64(len(c.CompletedTopics)) * 100 / float64(len(c.Topics))))
}

// ChapterFilter constrains chapter listings.
type ChapterFilter struct {
	TenantID string
	Subject  string
	Grade    string
	Status   []ChapterStatus
	Limit    int
	Offset   int
}
