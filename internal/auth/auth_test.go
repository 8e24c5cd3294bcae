package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeflow/internal/store"
	"financeflow/internal/store/memory"
)

func TestMockUser(t *testing.T) {
	u := MockUser("alice@example.com")
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=alice@example.com", u.Avatar)
	assert.Equal(t, u.ID, MockUser("alice@example.com").ID)
	assert.NotEqual(t, u.ID, MockUser("bob@example.com").ID)

	assert.Equal(t, "nodomain", MockUser("nodomain").Name)
}

func TestLoginResolveLogout(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	svc := NewService(kv)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	sess, err := svc.Login(ctx, " alice@example.com ", "ignored")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "alice@example.com", sess.User.Email)
	assert.Equal(t, fixed, sess.CreatedAt)

	_, err = kv.Get(ctx, store.UserKey(sess.Token))
	require.NoError(t, err)

	got, err := svc.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User, got.User)
	assert.True(t, sess.CreatedAt.Equal(got.CreatedAt))

	other, err := svc.Login(ctx, "alice@example.com", "")
	require.NoError(t, err)
	assert.NotEqual(t, sess.Token, other.Token)
	assert.Equal(t, sess.User.ID, other.User.ID)

	require.NoError(t, svc.Logout(ctx, sess.Token))
	_, err = svc.Resolve(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = svc.Resolve(ctx, other.Token)
	assert.NoError(t, err, "logging out one session leaves the others")
}

func TestLoginRejectsEmptyEmail(t *testing.T) {
	_, err := NewService(memory.New()).Login(context.Background(), "  ", "pw")
	assert.True(t, errors.Is(err, ErrEmptyEmail))
}

func TestResolveUnknown(t *testing.T) {
	svc := NewService(memory.New())
	_, err := svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = svc.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, svc.Logout(context.Background(), "nope"))
}

func TestSessionContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	sess := Session{Token: "t", User: MockUser("a@b.c")}
	got, ok := FromContext(WithSession(context.Background(), sess))
	require.True(t, ok)
	assert.Equal(t, sess, got)
}
