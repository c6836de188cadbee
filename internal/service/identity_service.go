package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuscore/placement-backend/internal/model"
)

// Domain Errors
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the payload of a platform-issued JWT. The engine never issues
// tokens; it only verifies signatures against the shared secret and trusts
// the asserted identity. Department and class are carried for students so
// eligibility checks need no extra directory round trip on hot paths.
type Claims struct {
	UserID       int        `json:"user_id"`
	Role         model.Role `json:"role"`
	DepartmentID string     `json:"department_id,omitempty"`
	ClassID      int        `json:"class_id,omitempty"`
	RollNo       string     `json:"roll_no,omitempty"`
	jwt.RegisteredClaims
}

// IdentityService verifies platform-issued JWTs.
type IdentityService struct {
	secret []byte
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(secret string) *IdentityService {
	return &IdentityService{secret: []byte(secret)}
}

// ValidateToken parses and verifies a JWT, returning its claims.
func (s *IdentityService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if !claims.Role.Valid() {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
