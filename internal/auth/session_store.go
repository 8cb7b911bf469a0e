package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/pqrssi-service/internal/domain"
)

// ErrSessionNotFound reports a token that resolves to no live session.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists server-side session records.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Destroy(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "session:"

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore backs sessions with Redis under the configured TTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) Create(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.ID, payload, s.ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *redisSessionStore) Destroy(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

// SessionManager creates, resolves and destroys login sessions. It pairs
// the signed client token with the server-side record in the store.
type SessionManager struct {
	store  SessionStore
	tokens *TokenManager
}

// NewSessionManager builds the manager.
func NewSessionManager(store SessionStore, tokens *TokenManager) *SessionManager {
	return &SessionManager{store: store, tokens: tokens}
}

// Open starts a session for an authenticated user and returns the client token.
func (m *SessionManager) Open(ctx context.Context, user *domain.User) (string, time.Time, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		LoggedIn:  true,
		CreatedAt: time.Now(),
	}
	if err := m.store.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}
	token, expiresAt, err := m.tokens.GenerateToken(session.ID)
	if err != nil {
		_ = m.store.Destroy(ctx, session.ID)
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Resolve maps a client-presented token to its session record. An invalid
// token or a missing record both come back as ErrSessionNotFound.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	sessionID, err := m.tokens.ParseToken(token)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return m.store.Get(ctx, sessionID)
}

// Close destroys the session referenced by the token. A token that no
// longer resolves is not an error; logout is idempotent.
func (m *SessionManager) Close(ctx context.Context, token string) error {
	sessionID, err := m.tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	return m.store.Destroy(ctx, sessionID)
}
