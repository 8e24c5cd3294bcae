// Package auth is a stub authenticator. Any email logs in; the password is
// never checked. Sessions are persisted in the key-value store so they
// survive restarts of the sqlite backend.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"financeflow/internal/core"
	"financeflow/internal/store"
)

var (
	ErrEmptyEmail = errors.New("email is required")
	ErrNoSession  = errors.New("no active session")
)

// userNamespace scopes the name-based user ids.
var userNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("financeflow/users"))

const avatarBase = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// Session binds a token to the logged in user.
type Session struct {
	Token     string    `json:"token"`
	User      core.User `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

type Service struct {
	kv  store.KeyValue
	now func() time.Time
}

func NewService(kv store.KeyValue) *Service {
	return &Service{kv: kv, now: time.Now}
}

// MockUser derives the user record for email. The same email always yields the same id.
func MockUser(email string) core.User {
	name, _, _ := strings.Cut(email, "@")
	return core.User{
		ID:     uuid.NewSHA1(userNamespace, []byte(email)).String(),
		Email:  email,
		Name:   name,
		Avatar: avatarBase + email,
	}
}

// Login opens a session for email. Only an empty email is rejected.
func (s *Service) Login(ctx context.Context, email, _ string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Session{}, ErrEmptyEmail
	}

	sess := Session{
		Token:     uuid.NewString(),
		User:      MockUser(email),
		CreatedAt: s.now().UTC(),
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, store.UserKey(sess.Token), b); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Logout forgets the session. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.kv.Remove(ctx, store.UserKey(token)); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Resolve returns the session of token or ErrNoSession.
func (s *Service) Resolve(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}
	b, err := s.kv.Get(ctx, store.UserKey(token))
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}
