package workflow

import (
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

// MakeupAction is an operation on a makeup sitting.
type MakeupAction string

const (
	MakeupStart    MakeupAction = "start"
	MakeupComplete MakeupAction = "complete"
	MakeupCancel   MakeupAction = "cancel"
)

var makeupMoves = map[MakeupAction]struct {
	from []models.MakeupStatus
	to   models.MakeupStatus
}{
	MakeupStart:    {from: []models.MakeupStatus{models.MakeupStatusScheduled}, to: models.MakeupStatusInProgress},
	MakeupComplete: {from: []models.MakeupStatus{models.MakeupStatusInProgress}, to: models.MakeupStatusCompleted},
	MakeupCancel:   {from: []models.MakeupStatus{models.MakeupStatusScheduled, models.MakeupStatusInProgress}, to: models.MakeupStatusCancelled},
}

// ApplyMakeup moves a makeup sitting forward.
func ApplyMakeup(m models.MakeupTest, action MakeupAction) (models.MakeupTest, error) {
	move, ok := makeupMoves[action]
	if !ok {
		return m, appErrors.InvalidTransition("makeup_test", string(action), string(m.Status), "")
	}
	for _, from := range move.from {
		if m.Status == from {
			next := m
			next.Status = move.to
			return next, nil
		}
	}
	return m, appErrors.InvalidTransition("makeup_test", string(action), string(m.Status), string(move.to))
}

// Outstanding reports whether the sitting blocks a new one for the same test and student.
func Outstanding(status models.MakeupStatus) bool {
	return status != models.MakeupStatusCancelled
}
