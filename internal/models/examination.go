package models

import "time"

// TestState is the examination paper pipeline stage.
type TestState string

const (
	TestStateDraft           TestState = "draft"
	TestStatePendingReview   TestState = "pending_review"
	TestStateApproved        TestState = "approved"
	TestStateSentToCommittee TestState = "sent_to_committee"
	TestStateLocked          TestState = "locked"
	TestStateCompleted       TestState = "completed"
)

var testStateRank = map[TestState]int{
	TestStateDraft:           0,
	TestStatePendingReview:   1,
	TestStateApproved:        2,
	TestStateSentToCommittee: 3,
	TestStateLocked:          4,
	TestStateCompleted:       5,
}

// Rank orders states along the pipeline; unknown states rank -1.
func (s TestState) Rank() int {
	if r, ok := testStateRank[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether the state is part of the pipeline.
func (s TestState) Valid() bool {
	return s.Rank() >= 0
}

// Test is an examination paper moving through approval, protection, locking and printing.
type Test struct {
	ID                 string     `db:"id" json:"id"`
	TenantID           string     `db:"tenant_id" json:"tenantId"`
	BlueprintID        string     `db:"blueprint_id" json:"blueprintId"`
	Title              string     `db:"title" json:"title"`
	Subject            string     `db:"subject" json:"subject"`
	Grade              string     `db:"grade" json:"grade"`
	TotalMarks         int        `db:"total_marks" json:"totalMarks"`
	DurationMinutes    int        `db:"duration_minutes" json:"durationMinutes"`
	// DurationOverridden pins DurationMinutes so later mark changes do not re-derive it.
	DurationOverridden bool       `db:"duration_overridden" json:"durationOverridden"`
	ExamDate           time.Time  `db:"exam_date" json:"examDate"`
	PaperFormat        string     `db:"paper_format" json:"paperFormat"`
	WorkflowState      TestState  `db:"workflow_state" json:"workflowState"`
	IsConfidential     bool       `db:"is_confidential" json:"isConfidential"`
	PrintingReady      bool       `db:"printing_ready" json:"printingReady"`
	IsRevealed         bool       `db:"is_revealed" json:"isRevealed"`
	// PrintedAt records completion of printing; PrintingReady is cleared at that point.
	PrintedAt          *time.Time `db:"printed_at" json:"printedAt,omitempty"`
	StateChangedAt     time.Time  `db:"state_changed_at" json:"stateChangedAt"`
	CreatedBy          string     `db:"created_by" json:"createdBy"`
	Version            int64      `db:"version" json:"version"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`
}

// TestFilter constrains test listings.
type TestFilter struct {
	TenantID string
	Subject  string
	Grade    string
	States   []TestState
	Limit    int
	Offset   int
}
