package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/infrastructure/session"
)

// Key layout:
//
//	session:<token>        hash {uid, email, name, is_admin}
//	session_uid:<uid>      set of tokens
//	session_email:<email>  set of tokens
//
// Keys carry no TTL; sessions live until logout.
const (
	sessionPrefix = "session:"
	uidPrefix     = "session_uid:"
	emailPrefix   = "session_email:"
)

// setAdminIfPresent updates is_admin only on a session hash that still
// exists, so a concurrent logout is never resurrected as a partial hash.
var setAdminIfPresent = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  redis.call('HSET', KEYS[1], 'is_admin', ARGV[1])
  return 1
end
return 0
`)

// SessionStore shares bearer sessions between API replicas. The
// active-sessions gauge is per process and is only kept by the memory store.
type SessionStore struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewSessionStore(client *redis.Client, log zerolog.Logger) *SessionStore {
	return &SessionStore{client: client, log: log}
}

func (s *SessionStore) Issue(ctx context.Context, sess domain.Session) (string, error) {
	token, err := session.NewToken()
	if err != nil {
		return "", err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, sessionPrefix+token, encodeSession(sess))
		pipe.SAdd(ctx, uidPrefix+sess.UID, token)
		if sess.Email != "" {
			pipe.SAdd(ctx, emailPrefix+sess.Email, token)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *SessionStore) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	fields, err := s.client.HGetAll(ctx, sessionPrefix+token).Result()
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrInvalidToken
	}
	sess := decodeSession(fields)
	sess.Token = token
	return sess, nil
}

func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	key := sessionPrefix + token
	vals, err := s.client.HMGet(ctx, key, "uid", "email").Result()
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if uid, ok := vals[0].(string); ok && uid != "" {
			pipe.SRem(ctx, uidPrefix+uid, token)
		}
		if email, ok := vals[1].(string); ok && email != "" {
			pipe.SRem(ctx, emailPrefix+email, token)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *SessionStore) PropagateAdminChange(ctx context.Context, isAdmin bool, keys ...string) (int, error) {
	var indexKeys []string
	for _, k := range keys {
		if k != "" {
			indexKeys = append(indexKeys, uidPrefix+k, emailPrefix+k)
		}
	}
	if len(indexKeys) == 0 {
		return 0, nil
	}

	tokens, err := s.client.SUnion(ctx, indexKeys...).Result()
	if err != nil {
		return 0, fmt.Errorf("lookup sessions: %w", err)
	}

	flag := boolField(isAdmin)
	updated := 0
	var stale []any
	for _, token := range tokens {
		n, err := setAdminIfPresent.Run(ctx, s.client, []string{sessionPrefix + token}, flag).Int()
		if err != nil {
			return updated, fmt.Errorf("update session: %w", err)
		}
		if n == 1 {
			updated++
			continue
		}
		// index entry left by a session that is already gone
		stale = append(stale, token)
	}

	if len(stale) > 0 {
		s.pruneIndexes(ctx, indexKeys, stale)
	}
	return updated, nil
}

// pruneIndexes drops tokens from the uid/email index sets. A failure leaves
// harmless entries that the next propagation retries.
func (s *SessionStore) pruneIndexes(ctx context.Context, indexKeys []string, tokens []any) {
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, idx := range indexKeys {
			pipe.SRem(ctx, idx, tokens...)
		}
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Int("tokens", len(tokens)).Msg("prune stale session index entries")
	}
}

func encodeSession(s domain.Session) map[string]any {
	return map[string]any{
		"uid":      s.UID,
		"email":    s.Email,
		"name":     s.Name,
		"is_admin": boolField(s.IsAdmin),
	}
}

func decodeSession(fields map[string]string) *domain.Session {
	return &domain.Session{
		UID:     fields["uid"],
		Email:   fields["email"],
		Name:    fields["name"],
		IsAdmin: fields["is_admin"] == "1",
	}
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
