package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

type memoryUserRepo struct {
	users map[string]*User
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id int64) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := HashPassword("tiles123")
	require.NoError(t, err)

	repo := &memoryUserRepo{users: map[string]*User{
		"admin": {ID: 1, Username: "admin", Name: "Owner", PasswordHash: hash},
	}}
	return NewService(repo, NewTokenStore(client, time.Hour)), mr
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, user, err := svc.Login(ctx, "admin", "tiles123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "Owner", user.Name)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(1), resolved.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, err := svc.Login(context.Background(), "admin", "nope")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginUnknownUserLooksLikeBadPassword(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, err := svc.Login(context.Background(), "ghost", "whatever")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "admin", "tiles123")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, shared.ErrSessionExpired)
}

func TestExpiredToken(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "admin", "tiles123")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, shared.ErrSessionExpired)
}
