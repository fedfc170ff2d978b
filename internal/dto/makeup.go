package dto

import "time"

// ScheduleMakeupRequest books a supplementary sitting.
type ScheduleMakeupRequest struct {
	TestID        string    `json:"testId" validate:"required"`
	StudentID     string    `json:"studentId" validate:"required"`
	Reason        string    `json:"reason" validate:"required,max=500"`
	ScheduledDate time.Time `json:"scheduledDate" validate:"required"`
}
