package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/golang-jwt/jwt/v5"
)

// TicketManager issues and verifies HS256 session tickets.
type TicketManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTicketManager(secret string, ttl time.Duration) *TicketManager {
	return &TicketManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (m *TicketManager) WithClock(now func() time.Time) *TicketManager {
	m.now = now
	return m
}

func (m *TicketManager) Issue(c Credentials) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:   c.ID,
		Email:    c.Email,
		Role:     c.Role,
		FullName: c.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(c.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign ticket: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the identity the ticket carries.
func (m *TicketManager) Verify(tokenString string) (policy.Identity, error) {
	if tokenString == "" {
		return policy.Identity{}, internal.ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return policy.Identity{}, internal.ErrTokenExpired
		}
		return policy.Identity{}, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return policy.Identity{}, internal.ErrInvalidToken
	}
	role, err := policy.ParseRole(claims.Role)
	if err != nil {
		return policy.Identity{}, internal.ErrInvalidToken
	}

	return policy.Identity{UserID: claims.UserID, Email: claims.Email, Role: role}, nil
}
