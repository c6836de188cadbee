package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuscore/placement-backend/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestValidateToken(t *testing.T) {
	svc := NewIdentityService(testSecret)

	tokenStr := signToken(t, testSecret, &Claims{
		UserID:       42,
		Role:         model.RoleStudent,
		DepartmentID: "CSE",
		ClassID:      7,
		RollNo:       "CSE0042",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(tokenStr)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != model.RoleStudent {
		t.Errorf("Role = %s, want student", claims.Role)
	}
	if claims.DepartmentID != "CSE" || claims.ClassID != 7 {
		t.Errorf("cohort = %s/%d, want CSE/7", claims.DepartmentID, claims.ClassID)
	}
	if claims.RollNo != "CSE0042" {
		t.Errorf("RollNo = %s, want CSE0042", claims.RollNo)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewIdentityService(testSecret)

	tokenStr := signToken(t, testSecret, &Claims{
		UserID: 1,
		Role:   model.RoleTrainer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	if _, err := svc.ValidateToken(tokenStr); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewIdentityService(testSecret)

	tokenStr := signToken(t, "other-secret", &Claims{
		UserID: 1,
		Role:   model.RoleTrainer,
	})

	if _, err := svc.ValidateToken(tokenStr); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateTokenRejectsUnknownRole(t *testing.T) {
	svc := NewIdentityService(testSecret)

	tokenStr := signToken(t, testSecret, &Claims{
		UserID: 1,
		Role:   model.Role("admin"),
	})

	if _, err := svc.ValidateToken(tokenStr); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewIdentityService(testSecret)

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}
