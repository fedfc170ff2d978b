// Package access holds the static permission table every engine operation consults before mutating state.
package access

import (
	"fmt"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

// Action names an operation guarded by the gate.
type Action string

const (
	ActionChapterCreate         Action = "chapter.create"
	ActionChapterView           Action = "chapter.view"
	ActionChapterUnlock         Action = "chapter.unlock"
	ActionChapterLock           Action = "chapter.lock"
	ActionChapterComplete       Action = "chapter.complete"
	ActionChapterSetDeadline    Action = "chapter.set_deadline"
	ActionChapterReveal         Action = "chapter.reveal"
	ActionChapterUpdatePortions Action = "chapter.update_portions"

	ActionTestCreate            Action = "test.create"
	ActionTestView              Action = "test.view"
	ActionTestUpdate            Action = "test.update"
	ActionTestSubmitReview      Action = "test.submit_review"
	ActionTestApprove           Action = "test.approve"
	ActionTestSendToCommittee   Action = "test.send_to_committee"
	ActionTestMarkConfidential  Action = "test.mark_confidential"
	ActionTestLock              Action = "test.lock"
	ActionTestMarkPrintingReady Action = "test.mark_printing_ready"
	ActionTestComplete          Action = "test.complete"
	ActionTestReveal            Action = "test.reveal"
	ActionTestPrintPack         Action = "test.print_pack"

	ActionMakeupSchedule Action = "makeup.schedule"
	ActionMakeupView     Action = "makeup.view"
	ActionMakeupStart    Action = "makeup.start"
	ActionMakeupComplete Action = "makeup.complete"
	ActionMakeupCancel   Action = "makeup.cancel"

	ActionRiskAlertView        Action = "risk_alert.view"
	ActionRiskAlertAcknowledge Action = "risk_alert.acknowledge"
	ActionRiskAlertEvaluate    Action = "risk_alert.evaluate"
	ActionRiskAlertExport      Action = "risk_alert.export"
)

var (
	admins      = []models.UserRole{models.RoleAdmin, models.RoleSuperAdmin}
	curriculum  = append([]models.UserRole{models.RoleHOD, models.RoleTeacher}, admins...)
	committee   = append([]models.UserRole{models.RoleExamCommittee}, admins...)
	leadership  = append([]models.UserRole{models.RolePrincipal}, admins...)
	staff       = append([]models.UserRole{models.RoleHOD, models.RoleTeacher, models.RolePrincipal, models.RoleExamCommittee}, admins...)
	everyone    = append([]models.UserRole{models.RoleStudent, models.RoleParent}, staff...)
	paperOwners = append([]models.UserRole{models.RoleHOD}, admins...)
)

// permissions is the single source of truth for role gating. Absent actions are denied.
var permissions = map[Action][]models.UserRole{
	ActionChapterCreate:         curriculum,
	ActionChapterView:           everyone,
	ActionChapterUnlock:         curriculum,
	ActionChapterLock:           curriculum,
	ActionChapterComplete:       append([]models.UserRole{models.RoleExamCommittee}, curriculum...),
	ActionChapterSetDeadline:    curriculum,
	ActionChapterReveal:         curriculum,
	ActionChapterUpdatePortions: curriculum,

	ActionTestCreate:            paperOwners,
	ActionTestView:              staff,
	ActionTestUpdate:            paperOwners,
	ActionTestSubmitReview:      curriculum,
	ActionTestApprove:           leadership,
	ActionTestSendToCommittee:   leadership,
	ActionTestMarkConfidential:  committee,
	ActionTestLock:              committee,
	ActionTestMarkPrintingReady: committee,
	ActionTestComplete:          committee,
	ActionTestReveal:            append([]models.UserRole{models.RolePrincipal}, committee...),
	ActionTestPrintPack:         committee,

	ActionMakeupSchedule: curriculum,
	ActionMakeupView:     staff,
	ActionMakeupStart:    curriculum,
	ActionMakeupComplete: curriculum,
	ActionMakeupCancel:   curriculum,

	ActionRiskAlertView:        append([]models.UserRole{models.RoleHOD, models.RoleExamCommittee}, leadership...),
	ActionRiskAlertAcknowledge: leadership,
	ActionRiskAlertEvaluate:    leadership,
	ActionRiskAlertExport:      leadership,
}

// Principal is the verified caller supplied by the identity provider.
type Principal struct {
	UserID   string
	TenantID string
	Role     models.UserRole
}

// PrincipalFromClaims maps verified token claims into a principal.
func PrincipalFromClaims(claims *models.JWTClaims) Principal {
	if claims == nil {
		return Principal{}
	}
	return Principal{UserID: claims.UserID, TenantID: claims.TenantID, Role: claims.Role}
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err converts a denial into the typed forbidden error; allowed decisions yield nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, d.Reason)
}

// Authorize decides whether p may perform action on an entity owned by entityTenantID.
// An empty entityTenantID means the entity does not exist yet (creation) and only the role is checked.
func Authorize(p Principal, action Action, entityTenantID string) Decision {
	if p.UserID == "" || p.TenantID == "" {
		return Decision{Reason: "caller identity is incomplete"}
	}
	if !p.Role.Valid() {
		return Decision{Reason: fmt.Sprintf("unknown role %q", p.Role)}
	}
	if !Allowed(p.Role, action) {
		return Decision{Reason: fmt.Sprintf("role %s may not perform %s", p.Role, action)}
	}
	if entityTenantID != "" && entityTenantID != p.TenantID {
		return Decision{Reason: "entity belongs to another tenant"}
	}
	return Decision{Allowed: true}
}

// Allowed reports whether role appears in the permission table for action.
func Allowed(role models.UserRole, action Action) bool {
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Roles lists the roles permitted to perform action.
func Roles(action Action) []models.UserRole {
	roles := permissions[action]
	out := make([]models.UserRole, len(roles))
	copy(out, roles)
	return out
}
