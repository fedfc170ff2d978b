// Package workflow implements the examination paper, chapter and makeup state machines as pure functions.
// Callers persist the returned copy; nothing here performs I/O.
package workflow

import (
	"time"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

// TestAction is an operation on an examination paper.
type TestAction string

const (
	TestSubmitReview      TestAction = "submit_review"
	TestApprove           TestAction = "approve"
	TestSendToCommittee   TestAction = "send_to_committee"
	TestLock              TestAction = "lock"
	TestComplete          TestAction = "complete"
	TestMarkConfidential  TestAction = "mark_confidential"
	TestMarkPrintingReady TestAction = "mark_printing_ready"
	TestReveal            TestAction = "reveal"
)

// TestActions lists every action the engine accepts.
var TestActions = []TestAction{
	TestSubmitReview, TestApprove, TestSendToCommittee, TestLock, TestComplete,
	TestMarkConfidential, TestMarkPrintingReady, TestReveal,
}

type stateMove struct {
	from models.TestState
	to   models.TestState
}

// pipeline holds the only state-changing moves. Each advances exactly one rank.
var pipeline = map[TestAction]stateMove{
	TestSubmitReview:    {from: models.TestStateDraft, to: models.TestStatePendingReview},
	TestApprove:         {from: models.TestStatePendingReview, to: models.TestStateApproved},
	TestSendToCommittee: {from: models.TestStateApproved, to: models.TestStateSentToCommittee},
	TestLock:            {from: models.TestStateSentToCommittee, to: models.TestStateLocked},
	TestComplete:        {from: models.TestStateLocked, to: models.TestStateCompleted},
}

var revealableStates = map[models.TestState]bool{
	models.TestStateSentToCommittee: true,
	models.TestStateLocked:          true,
	models.TestStateCompleted:       true,
}

var makeupEligibleStates = map[models.TestState]bool{
	models.TestStateSentToCommittee: true,
	models.TestStateLocked:          true,
	models.TestStateCompleted:       true,
}

// DefaultDuration derives the sitting length in minutes from total marks.
func DefaultDuration(totalMarks int) int {
	switch totalMarks {
	case 40:
		return 90
	case 80:
		return 180
	default:
		return 120
	}
}

// ApplyTest validates action against t and returns the next value.
// changed is false when the action is an idempotent no-op.
func ApplyTest(t models.Test, action TestAction, now time.Time) (next models.Test, changed bool, err error) {
	next = t
	if move, ok := pipeline[action]; ok {
		if t.WorkflowState != move.from {
			return t, false, appErrors.InvalidTransition("test", string(action), string(t.WorkflowState), string(move.to))
		}
		if action == TestComplete && !t.PrintingReady {
			return t, false, appErrors.Clone(appErrors.ErrPreconditionFailed, "paper must be printing ready before completion")
		}
		next.WorkflowState = move.to
		next.StateChangedAt = now
		if action == TestComplete {
			printed := now
			next.PrintingReady = false
			next.PrintedAt = &printed
		}
		return next, true, nil
	}

	switch action {
	case TestMarkConfidential:
		if t.IsConfidential {
			return t, false, nil
		}
		if t.PrintingReady || t.PrintedAt != nil {
			return t, false, appErrors.InvalidTransition("test", string(action), string(t.WorkflowState), "")
		}
		next.IsConfidential = true
		return next, true, nil
	case TestMarkPrintingReady:
		if t.WorkflowState != models.TestStateLocked {
			return t, false, appErrors.WithDetails(appErrors.ErrNotLocked, map[string]interface{}{"state": string(t.WorkflowState)})
		}
		if t.PrintingReady {
			return t, false, nil
		}
		next.PrintingReady = true
		return next, true, nil
	case TestReveal:
		if !revealableStates[t.WorkflowState] {
			return t, false, appErrors.WithDetails(appErrors.ErrNotLocked, map[string]interface{}{"state": string(t.WorkflowState)})
		}
		if t.IsRevealed {
			return t, false, nil
		}
		next.IsRevealed = true
		return next, true, nil
	}
	return t, false, appErrors.InvalidTransition("test", string(action), string(t.WorkflowState), "")
}

// EnsureEditable rejects content changes once the paper has left draft.
func EnsureEditable(t models.Test) error {
	if t.WorkflowState != models.TestStateDraft {
		return appErrors.WithDetails(appErrors.ErrPaperImmutable, map[string]interface{}{"state": string(t.WorkflowState)})
	}
	return nil
}

// EligibleForMakeup reports whether a makeup sitting may reference a paper in state s.
func EligibleForMakeup(s models.TestState) bool {
	return makeupEligibleStates[s]
}

// CheckTestInvariants reports the first violated paper invariant, if any.
func CheckTestInvariants(t models.Test) error {
	if !t.WorkflowState.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown workflow state")
	}
	if t.PrintingReady && t.WorkflowState != models.TestStateLocked {
		return appErrors.Clone(appErrors.ErrValidation, "printing ready paper must be locked")
	}
	if t.PrintedAt != nil && t.WorkflowState != models.TestStateCompleted {
		return appErrors.Clone(appErrors.ErrValidation, "printed paper must be completed")
	}
	if t.IsRevealed && !revealableStates[t.WorkflowState] {
		return appErrors.Clone(appErrors.ErrValidation, "revealed paper must be locked, with committee or completed")
	}
	return nil
}
