package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

const (
	sessionKeyPrefix = "session:"

	// Hash field names. The token and the serialized user record are the
	// contract with any other consumer of the store; they are always written
	// by one HSET and removed by one DEL so no client can observe one
	// without the other.
	fieldToken    = "token"
	fieldUserData = "user_data"
	fieldCreated  = "created_at"
	fieldLastSeen = "last_seen"
)

// SessionStore persists sessions as Redis hashes, one hash per session.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore wraps the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Put writes the whole session in a single HSET.
func (s *SessionStore) Put(ctx context.Context, sess *domain.Session) error {
	userData, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}

	err = s.client.HSet(ctx, sessionKey(sess.ID),
		fieldToken, sess.Token,
		fieldUserData, string(userData),
		fieldCreated, strconv.FormatInt(sess.CreatedAt.Unix(), 10),
		fieldLastSeen, strconv.FormatInt(sess.LastSeen.UnixNano(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Find loads a session. A missing hash, a missing token, or a user record
// that fails to parse all yield ErrSessionNotFound: rehydration never
// produces a partial session.
func (s *SessionStore) Find(ctx context.Context, id string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sessionFromFields(id, fields)
}

// Touch advances the last-seen instant.
func (s *SessionStore) Touch(ctx context.Context, id string, at time.Time) error {
	// HSET on a missing key would recreate a half-empty session, so guard
	// with an existence check; a lost race with logout only skips a touch.
	n, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if n == 0 {
		return nil
	}
	return s.client.HSet(ctx, sessionKey(id), fieldLastSeen, strconv.FormatInt(at.UnixNano(), 10)).Err()
}

// Delete removes the session. Deleting an absent session is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// All scans every stored session. Sessions that fail to parse are skipped;
// the reaper will not see them, but neither will any authenticator.
func (s *SessionStore) All(ctx context.Context) ([]*domain.Session, error) {
	var sessions []*domain.Session

	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", key, err)
		}
		sess, err := sessionFromFields(key[len(sessionKeyPrefix):], fields)
		if err != nil {
			continue
		}
		sessions = append(sessions, sess)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return sessions, nil
}

// sessionFromFields rebuilds a session from its hash fields, enforcing the
// pair invariant: no token or unreadable user record means no session.
func sessionFromFields(id string, fields map[string]string) (*domain.Session, error) {
	if len(fields) == 0 || fields[fieldToken] == "" {
		return nil, domain.ErrSessionNotFound
	}

	var user domain.User
	if err := json.Unmarshal([]byte(fields[fieldUserData]), &user); err != nil {
		return nil, domain.ErrSessionNotFound
	}

	sess := &domain.Session{
		ID:    id,
		Token: fields[fieldToken],
		User:  &user,
	}
	if v, err := strconv.ParseInt(fields[fieldCreated], 10, 64); err == nil {
		sess.CreatedAt = time.Unix(v, 0).UTC()
	}
	if v, err := strconv.ParseInt(fields[fieldLastSeen], 10, 64); err == nil {
		sess.LastSeen = time.Unix(0, v).UTC()
	}
	return sess, nil
}
