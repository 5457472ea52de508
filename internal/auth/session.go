package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"vacationManagement/models"
)

// ErrNoSession is returned when a token does not map to a live session.
var ErrNoSession = errors.New("no active session")

const sessionKeyPrefix = "session:"

// UserLookup loads the user a session belongs to.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Sessions issues, resolves and revokes login sessions.
// A session lives in Redis under session:<sid>; the token handed to the client is
// an HS256 JWT carrying sid and uid so that forged ids are rejected before Redis is hit.
type Sessions struct {
	redis  *redis.Client
	users  UserLookup
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions creates a session manager. ttl defaults to 8h when zero.
func NewSessions(client *redis.Client, users UserLookup, secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Sessions{redis: client, users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of issued sessions.
func (s *Sessions) TTL() time.Duration { return s.ttl }

type sessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid"`
	jwt.RegisteredClaims
}

// Issue starts a session for u and returns the signed token.
func (s *Sessions) Issue(ctx context.Context, u *models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("session secret is empty")
	}
	sid := uuid.NewString()
	now := s.now()
	claims := sessionClaims{
		SessionID: sid,
		UserID:    u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKeyPrefix+sid, u.ID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Resolve maps a token to the principal of its live session.
// The role is read from the record store, not from the token.
func (s *Sessions) Resolve(ctx context.Context, token string) (*Principal, error) {
	c, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	stored, err := s.redis.Get(ctx, sessionKeyPrefix+c.SessionID).Int64()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if stored != c.UserID {
		return nil, ErrNoSession
	}
	u, err := s.users.GetByID(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	if u == nil {
		return nil, ErrNoSession
	}
	return &Principal{UserID: u.ID, Name: u.Name, Role: u.Role}, nil
}

// Revoke ends the session behind token. Unknown or invalid tokens are ignored.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	c, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.redis.Del(ctx, sessionKeyPrefix+c.SessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Sessions) parse(token string) (*sessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoSession
	}
	if len(s.secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	tok, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tok.Valid {
		return nil, ErrNoSession
	}
	c, _ := tok.Claims.(*sessionClaims)
	if c == nil || c.SessionID == "" || c.UserID == 0 {
		return nil, ErrNoSession
	}
	return c, nil
}
