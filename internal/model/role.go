package model

// Role enumerates the platform actor roles the identity provider can assert.
// The engine never branches on raw role strings outside this file; every
// authorization decision goes through the capability methods below.
type Role string

const (
	RoleStudent   Role = "student"
	RoleTrainer   Role = "trainer"
	RoleHOD       Role = "hod"
	RolePrincipal Role = "principal"
)

// Valid reports whether the role is one the engine recognizes.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTrainer, RoleHOD, RolePrincipal:
		return true
	}
	return false
}

// CanAuthor reports whether the role may create and mutate courses, tests,
// questions and cohort assignments.
func (r Role) CanAuthor() bool {
	return r == RoleTrainer
}

// CanAttempt reports whether the role may start and submit test attempts.
func (r Role) CanAttempt() bool {
	return r == RoleStudent
}

// CanViewAnalytics reports whether the role may read aggregated results.
func (r Role) CanViewAnalytics() bool {
	switch r {
	case RoleTrainer, RoleHOD, RolePrincipal:
		return true
	}
	return false
}

// AnalyticsDepartmentScoped reports whether analytics reads for this role
// must be narrowed to the caller's own department. Scoping is a filter on
// the aggregation input, never a different aggregation.
func (r Role) AnalyticsDepartmentScoped() bool {
	return r == RoleHOD
}
