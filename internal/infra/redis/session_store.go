package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"questboard/internal/domain"
)

// SessionStore is a Redis-backed implementation of app.SessionRepository.
// Each session is a hash at session:{token}:
//
//	HSET session:{token} role {role} studentId {studentID} createdAt {unix}
//
// and expires after ttl, so idle logins fall away on their own.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	key := s.key(session.Token)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"role", string(session.Role),
		"studentId", session.StudentID,
		"createdAt", session.CreatedAt.Unix(),
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key(token)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sessionFromHash(token, fields), nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(token string) string {
	return "session:" + token
}

func sessionFromHash(token string, fields map[string]string) domain.Session {
	session := domain.Session{
		Token:     token,
		Role:      domain.Role(fields["role"]),
		StudentID: fields["studentId"],
	}
	if unix, err := strconv.ParseInt(fields["createdAt"], 10, 64); err == nil {
		session.CreatedAt = time.Unix(unix, 0)
	}
	return session
}
