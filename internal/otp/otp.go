// Package otp issues and redeems one-time signup codes backed by redis.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/redis/go-redis/v9"
)

const (
	codeDigits = 6
	keyPrefix  = "otp:"
)

var codeSpace = big.NewInt(1_000_000)

// Generate returns a uniformly random zero-padded six digit code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

type Store struct {
	client redis.Cmdable
}

func NewStore(client redis.Cmdable) *Store {
	return &Store{client: client}
}

func key(email string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Save stores code for email, replacing any earlier code and resetting the TTL.
func (s *Store) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

// Consume checks code against the stored one and deletes it on a match.
// A code can be redeemed at most once.
func (s *Store) Consume(ctx context.Context, email, code string) error {
	k := key(email)

	stored, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return internal.ErrOTPNotFound
	}
	if err != nil {
		return fmt.Errorf("load otp: %w", err)
	}
	if stored != strings.TrimSpace(code) {
		return internal.ErrInvalidOTP
	}

	deleted, err := s.client.Del(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	if deleted == 0 {
		// redeemed concurrently
		return internal.ErrOTPNotFound
	}
	return nil
}
