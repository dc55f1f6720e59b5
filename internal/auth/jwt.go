package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// JWTManager issues and validates group admin tokens.
//
// There are no user accounts: the only privileged identity is "creator of
// group X", so the token carries nothing but the group ID. Whoever holds the
// token may draw or delete that one group.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// GroupClaims are the custom JWT claims for a group admin token.
type GroupClaims struct {
	GroupID string `json:"group_id"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager with the given secret and token
// lifetime. secretKey should be a strong random string (e.g., 32 bytes);
// tokenDuration should outlive the drawing itself (weeks, not hours), since
// the creator needs the token until the draw is done.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate creates a new admin token for the given group.
func (m *JWTManager) Generate(groupID string) (string, error) {
	claims := &GroupClaims{
		GroupID: groupID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates an admin token, returning the claims if valid.
func (m *JWTManager) Validate(tokenString string) (*GroupClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&GroupClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*GroupClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
