package model

import "testing"

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role       Role
		author     bool
		attempt    bool
		analytics  bool
		deptScoped bool
	}{
		{RoleStudent, false, true, false, false},
		{RoleTrainer, true, false, true, false},
		{RoleHOD, false, false, true, true},
		{RolePrincipal, false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if !tt.role.Valid() {
				t.Fatalf("%s should be valid", tt.role)
			}
			if got := tt.role.CanAuthor(); got != tt.author {
				t.Errorf("CanAuthor() = %v, want %v", got, tt.author)
			}
			if got := tt.role.CanAttempt(); got != tt.attempt {
				t.Errorf("CanAttempt() = %v, want %v", got, tt.attempt)
			}
			if got := tt.role.CanViewAnalytics(); got != tt.analytics {
				t.Errorf("CanViewAnalytics() = %v, want %v", got, tt.analytics)
			}
			if got := tt.role.AnalyticsDepartmentScoped(); got != tt.deptScoped {
				t.Errorf("AnalyticsDepartmentScoped() = %v, want %v", got, tt.deptScoped)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	if Role("admin").Valid() {
		t.Error("unknown role should not be valid")
	}
	if Role("").Valid() {
		t.Error("empty role should not be valid")
	}
}
