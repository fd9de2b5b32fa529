// Package session stores opaque bearer tokens in Redis. The token itself
// carries no information; everything about the signed-in user lives in the
// Redis value, so revocation is a single DEL.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/maherraissi/MedFlow/config"
	"github.com/maherraissi/MedFlow/pkg/access"
	"github.com/maherraissi/MedFlow/pkg/util/codes"
)

var (
	ErrNotFound = errors.New("session not found or expired")
)

// redisKeySession returns the Redis key for a session token.
func redisKeySession(token string) string { return "session:" + token }

// Claims is what a valid session resolves to.
type Claims struct {
	UserID   uuid.UUID   `json:"user_id"`
	ClinicID uuid.UUID   `json:"clinic_id"`
	Role     access.Role `json:"role"`
	Email    string      `json:"email"`
}

type Manager struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewManager(rdb *redis.Client, cfg *config.Config) *Manager {
	ttl := time.Duration(cfg.Authentication.SessionTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{rdb: rdb, ttl: ttl}
}

// Create issues a fresh token and stores the claims under it.
func (m *Manager) Create(ctx context.Context, claims Claims) (string, error) {
	token, err := codes.GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	b, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	if err := m.rdb.Set(ctx, redisKeySession(token), b, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

// Get resolves a token to its claims and slides the expiry window.
func (m *Manager) Get(ctx context.Context, token string) (*Claims, error) {
	b, err := m.rdb.Get(ctx, redisKeySession(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(b, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}

	// Sliding expiry: activity keeps the session alive.
	m.rdb.Expire(ctx, redisKeySession(token), m.ttl)

	return &claims, nil
}

// Destroy removes a session. Destroying an already-expired session is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if err := m.rdb.Del(ctx, redisKeySession(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
