package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrCorrupt          = errors.New("session corrupt")
)

// Session is the server-held record behind a session cookie. Username and
// Permissions are a cache for logging only; authorization reloads the user.
type Session struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewStore(client redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "portal"
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Create(ctx context.Context, userID int64, username string, permissions []string) (*Session, error) {
	sess := &Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		Username:    username,
		Permissions: nonNil(permissions),
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sess.ID), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return sess, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, ErrCorrupt
	}
	return &sess, nil
}

// Refresh overwrites the cached identity while keeping the remaining TTL.
// A session deleted in the meantime is not recreated.
func (s *Store) Refresh(ctx context.Context, sess *Session) error {
	sess.Permissions = nonNil(sess.Permissions)
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	err = s.client.SetArgs(ctx, s.key(sess.ID), data, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Delete is idempotent.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (s *Store) key(id string) string {
	return s.prefix + ":session:" + id
}

func nonNil(perms []string) []string {
	if perms == nil {
		return []string{}
	}
	return perms
}
