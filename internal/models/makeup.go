package models

import "time"

// MakeupStatus tracks a supplementary sitting.
type MakeupStatus string

const (
	MakeupStatusScheduled  MakeupStatus = "scheduled"
	MakeupStatusInProgress MakeupStatus = "in_progress"
	MakeupStatusCompleted  MakeupStatus = "completed"
	MakeupStatusCancelled  MakeupStatus = "cancelled"
)

// MakeupTest links a completed Test and a Student to a supplementary sitting.
type MakeupTest struct {
	ID            string       `db:"id" json:"id"`
	TenantID      string       `db:"tenant_id" json:"tenantId"`
	TestID        string       `db:"test_id" json:"testId"`
	StudentID     string       `db:"student_id" json:"studentId"`
	Reason        string       `db:"reason" json:"reason"`
	ScheduledDate time.Time    `db:"scheduled_date" json:"scheduledDate"`
	Status        MakeupStatus `db:"status" json:"status"`
	CreatedBy     string       `db:"created_by" json:"createdBy"`
	Version       int64        `db:"version" json:"version"`
	CreatedAt     time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updatedAt"`
}
