package jwtware

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// mapClaims adapts raw jwt.MapClaims to the AuthClaims interface for the
// KeyFunc fallback path where no TokenValidator is configured.
type mapClaims jwt.MapClaims

var _ AuthClaims = mapClaims{}

func (m mapClaims) Subject() string {
	sub, _ := jwt.MapClaims(m).GetSubject()
	return sub
}

func (m mapClaims) UserID() string {
	if uid, ok := m["uid"].(string); ok && uid != "" {
		return uid
	}
	return m.Subject()
}

func (m mapClaims) Role() string {
	role, _ := m["role"].(string)
	return role
}

func (m mapClaims) HasRole(role string) bool {
	return m.Role() == role
}

func (m mapClaims) IsAtLeast(minRole string) bool {
	return roleRank(m.Role()) >= roleRank(minRole)
}

func (m mapClaims) Expires() time.Time {
	if exp, err := jwt.MapClaims(m).GetExpirationTime(); err == nil && exp != nil {
		return exp.Time
	}
	return time.Time{}
}

func (m mapClaims) IssuedAt() time.Time {
	if iat, err := jwt.MapClaims(m).GetIssuedAt(); err == nil && iat != nil {
		return iat.Time
	}
	return time.Time{}
}

func roleRank(role string) int {
	switch role {
	case "student":
		return 0
	case "teacher":
		return 1
	case "admin":
		return 2
	default:
		return -1
	}
}
