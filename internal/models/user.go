package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin    UserRole = "super_admin"
	RoleAdmin         UserRole = "admin"
	RoleHOD           UserRole = "hod"
	RoleTeacher       UserRole = "teacher"
	RolePrincipal     UserRole = "principal"
	RoleExamCommittee UserRole = "exam_committee"
	RoleStudent       UserRole = "student"
	RoleParent        UserRole = "parent"
)

// Valid reports whether the role belongs to the fixed role set.
func (r UserRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleHOD, RoleTeacher, RolePrincipal, RoleExamCommittee, RoleStudent, RoleParent:
		return true
	}
	return false
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
