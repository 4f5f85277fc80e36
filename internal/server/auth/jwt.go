// Package auth issues and verifies the HS256 access tokens that identify
// holders and admin scanners to the gateway.
package auth

import (
	"errors"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the caller identity on top of the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"uid"`
	Role   common.Role `json:"role"`
}

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Role   common.Role
}

func (i Identity) IsAdmin() bool { return i.Role == common.RoleAdmin }

func GenerateToken(userID string, role common.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Role:   role,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and returns the caller identity.
// An expired token yields common.ErrTokenExpired; any other failure
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, common.ErrTokenExpired
		}
		return Identity{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// PeekToken reads the identity and expiry of tokenString without checking
// its signature. It is for display on the client, which does not hold the
// signing secret; never authorize with it.
func PeekToken(tokenString string) (Identity, time.Time, error) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return Identity{}, time.Time{}, common.ErrInvalidToken
	}
	if claims.UserID == "" {
		return Identity{}, time.Time{}, common.ErrInvalidToken
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	return Identity{UserID: claims.UserID, Role: claims.Role}, exp, nil
}
