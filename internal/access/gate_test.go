package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

func principal(role models.UserRole) Principal {
	return Principal{UserID: "user-1", TenantID: "school-1", Role: role}
}

func TestAuthorizePermissionTable(t *testing.T) {
	cases := []struct {
		action  Action
		allowed []models.UserRole
		denied  []models.UserRole
	}{
		{ActionChapterUnlock, []models.UserRole{models.RoleAdmin, models.RoleHOD, models.RoleTeacher}, []models.UserRole{models.RolePrincipal, models.RoleStudent, models.RoleParent}},
		{ActionChapterReveal, []models.UserRole{models.RoleAdmin, models.RoleHOD, models.RoleTeacher}, []models.UserRole{models.RoleExamCommittee, models.RoleParent}},
		{ActionTestCreate, []models.UserRole{models.RoleAdmin, models.RoleHOD}, []models.UserRole{models.RoleTeacher, models.RolePrincipal, models.RoleExamCommittee}},
		{ActionTestLock, []models.UserRole{models.RoleExamCommittee, models.RoleAdmin}, []models.UserRole{models.RoleHOD, models.RoleTeacher, models.RolePrincipal}},
		{ActionTestMarkConfidential, []models.UserRole{models.RoleExamCommittee, models.RoleAdmin}, []models.UserRole{models.RoleTeacher}},
		{ActionTestMarkPrintingReady, []models.UserRole{models.RoleExamCommittee, models.RoleAdmin}, []models.UserRole{models.RolePrincipal}},
		{ActionTestApprove, []models.UserRole{models.RolePrincipal, models.RoleAdmin}, []models.UserRole{models.RoleHOD, models.RoleExamCommittee}},
		{ActionRiskAlertAcknowledge, []models.UserRole{models.RoleAdmin, models.RolePrincipal}, []models.UserRole{models.RoleTeacher, models.RoleHOD, models.RoleExamCommittee}},
		{ActionMakeupSchedule, []models.UserRole{models.RoleAdmin, models.RoleHOD, models.RoleTeacher}, []models.UserRole{models.RoleStudent, models.RolePrincipal}},
	}
	for _, tc := range cases {
		for _, role := range tc.allowed {
			assert.True(t, Authorize(principal(role), tc.action, "school-1").Allowed, "%s should allow %s", tc.action, role)
		}
		for _, role := range tc.denied {
			d := Authorize(principal(role), tc.action, "school-1")
			assert.False(t, d.Allowed, "%s should deny %s", tc.action, role)
			assert.NotEmpty(t, d.Reason)
		}
	}
}

func TestSuperAdminInheritsAdmin(t *testing.T) {
	for action, roles := range permissions {
		hasAdmin := false
		for _, r := range roles {
			if r == models.RoleAdmin {
				hasAdmin = true
			}
		}
		if hasAdmin {
			assert.True(t, Allowed(models.RoleSuperAdmin, action), "super admin missing %s", action)
		}
	}
}

func TestStudentsAndParentsCannotMutate(t *testing.T) {
	for action := range permissions {
		if action == ActionChapterView {
			continue
		}
		assert.False(t, Allowed(models.RoleStudent, action), "student allowed %s", action)
		assert.False(t, Allowed(models.RoleParent, action), "parent allowed %s", action)
	}
}

func TestAuthorizeRejectsCrossTenant(t *testing.T) {
	d := Authorize(principal(models.RoleAdmin), ActionTestLock, "school-2")
	assert.False(t, d.Allowed)
	assert.True(t, errors.Is(d.Err(), appErrors.ErrForbidden))
}

func TestAuthorizeUnknownActionAndRole(t *testing.T) {
	assert.False(t, Authorize(principal(models.RoleAdmin), Action("test.delete"), "").Allowed)
	assert.False(t, Authorize(principal(models.UserRole("janitor")), ActionChapterView, "").Allowed)
	assert.False(t, Authorize(Principal{Role: models.RoleAdmin}, ActionChapterView, "").Allowed)
	assert.NoError(t, Authorize(principal(models.RoleHOD), ActionTestCreate, "").Err())
}

func TestRolesReturnsCopy(t *testing.T) {
	roles := Roles(ActionTestLock)
	roles[0] = models.RoleStudent
	assert.False(t, Allowed(models.RoleStudent, ActionTestLock))
}
