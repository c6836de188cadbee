package service

import (
	"errors"
	"testing"

	"github.com/campuscore/placement-backend/internal/model"
)

func strPtr(s string) *string { return &s }

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name      string
		role      model.Role
		ownDept   string
		requested *string
		want      *string
		wantErr   error
	}{
		{"principal unscoped", model.RolePrincipal, "", nil, nil, nil},
		{"principal picks a department", model.RolePrincipal, "", strPtr("ECE"), strPtr("ECE"), nil},
		{"trainer unscoped", model.RoleTrainer, "", nil, nil, nil},
		{"hod defaults to own department", model.RoleHOD, "CSE", nil, strPtr("CSE"), nil},
		{"hod asking for own department", model.RoleHOD, "CSE", strPtr("CSE"), strPtr("CSE"), nil},
		{"hod empty filter pins to own", model.RoleHOD, "CSE", strPtr(""), strPtr("CSE"), nil},
		{"hod asking for another department", model.RoleHOD, "CSE", strPtr("ECE"), nil, ErrScopeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveScope(tt.role, tt.ownDept, tt.requested)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("scope = %q, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("scope = nil, want %q", *tt.want)
			case tt.want != nil && got != nil && *got != *tt.want:
				t.Errorf("scope = %q, want %q", *got, *tt.want)
			}
		})
	}
}
