package sessions

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/khanghh/kontest/internal/common"
	"github.com/khanghh/kontest/internal/store"
)

const csrfTokenLength = 43

type Store struct {
	records store.Store[SessionData]
	signer  *tokenSigner
	maxAge  time.Duration
}

// Create persists a new session record and signs its token.
func (s *Store) Create(ctx context.Context, data SessionData) (*Session, error) {
	csrfToken, err := common.GenerateSecret(csrfTokenLength)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	data.CSRFToken = csrfToken
	data.LoginTime = now.UnixMilli()
	data.LastSeen = now.UnixMilli()

	sess := &Session{
		SessionData: data,
		id:          uuid.NewString(),
		expiresAt:   now.Add(s.maxAge),
	}
	if err := s.records.Set(ctx, sess.id, data, s.maxAge); err != nil {
		return nil, err
	}
	sess.token, err = s.signer.sign(sess.id, &sess.SessionData, sess.expiresAt)
	if err != nil {
		_ = s.records.Delete(ctx, sess.id)
		return nil, err
	}
	return sess, nil
}

// Load verifies the token and returns the session it names. A token whose
// record is gone has been revoked.
func (s *Store) Load(ctx context.Context, token string) (*Session, error) {
	c, err := s.signer.parse(token)
	if err != nil {
		return nil, err
	}
	data, err := s.records.Get(ctx, c.SessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRevoked
	}
	if err != nil {
		return nil, err
	}
	if strconv.FormatUint(uint64(data.UserID), 10) != c.Subject {
		return nil, ErrTokenInvalid
	}
	return &Session{
		SessionData: data,
		id:          c.SessionID,
		token:       token,
		expiresAt:   c.ExpiresAt.Time,
	}, nil
}

func (s *Store) Touch(ctx context.Context, sess *Session) error {
	sess.LastSeen = time.Now().UnixMilli()
	return s.records.SetAttr(ctx, sess.id, "last_seen", sess.LastSeen)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.records.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func NewStore(storage store.Storage, keyPrefix string, signingKey string, maxAge time.Duration) *Store {
	return &Store{
		records: store.New[SessionData](storage, keyPrefix),
		signer:  &tokenSigner{key: []byte(signingKey)},
		maxAge:  maxAge,
	}
}
