package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/MKhiriev/go-user-auth/internal/crypto"
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/internal/store"
	"github.com/MKhiriev/go-user-auth/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestAuthService wires the service to the in-memory store and a real
// bcrypt hasher at the minimum cost.
func newTestAuthService(t *testing.T) (AuthService, store.UserRepository) {
	t.Helper()
	repo := store.NewMemoryUserRepository(logger.Nop())
	svc := NewAuthService(repo, crypto.NewBcryptHasher(bcrypt.MinCost), utils.NewUUIDGenerator(), logger.Nop())
	return svc, repo
}

// ── RegisterUser ─────────────────────────────────────────────────────────────

func TestAuthService_RegisterUser(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "u@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "u@x.com", user.Email)
	assert.NotEqual(t, "pw1", user.HashedPassword)
	assert.False(t, user.SessionID.Valid)
	assert.False(t, user.ResetToken.Valid)

	stored, err := repo.FindUser(ctx, store.ByEmail("u@x.com"))
	require.NoError(t, err)
	assert.Equal(t, user.UserID, stored.UserID)
}

func TestAuthService_RegisterUser_AlreadyExists(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "u@x.com", "pw1")
	require.NoError(t, err)

	for _, password := range []string{"pw1", "another", "x"} {
		_, err = svc.RegisterUser(ctx, "u@x.com", password)
		assert.ErrorIs(t, err, ErrUserAlreadyExists, password)
	}
}

func TestAuthService_RegisterUser_NormalisesEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "  Bob@Example.COM ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email)

	_, err = svc.RegisterUser(ctx, "bob@example.com", "pw")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	ok, err := svc.ValidLogin(ctx, "BOB@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthService_RegisterUser_InvalidData(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "pw"},
		{name: "blank email", email: "   ", password: "pw"},
		{name: "empty password", email: "a@b.c", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterUser(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestAuthService_RegisterUser_Concurrent(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RegisterUser(ctx, "race@x.com", fmt.Sprintf("pw-%d", i))
			switch {
			case err == nil:
				successes.Add(1)
			case assert.ErrorIs(t, err, ErrUserAlreadyExists):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// ── ValidLogin ───────────────────────────────────────────────────────────────

func TestAuthService_ValidLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "u@x.com", "pw1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		want     bool
	}{
		{name: "correct password", email: "u@x.com", password: "pw1", want: true},
		{name: "wrong password", email: "u@x.com", password: "pw2", want: false},
		{name: "empty password", email: "u@x.com", password: "", want: false},
		{name: "unknown email", email: "nobody@x.com", password: "pw1", want: false},
		{name: "empty email", email: "", password: "pw1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := svc.ValidLogin(ctx, tt.email, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

// ── Sessions ─────────────────────────────────────────────────────────────────

func TestAuthService_SessionLifecycle(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.RegisterUser(ctx, "u@x.com", "pw1")
	require.NoError(t, err)

	token, err := svc.CreateSession(ctx, "u@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, ok, err := svc.GetUserFromSessionID(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, registered.UserID, user.UserID)
	assert.Equal(t, "u@x.com", user.Email)

	require.NoError(t, svc.DestroySession(ctx, user.UserID))

	_, ok, err = svc.GetUserFromSessionID(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)

	// idempotent
	require.NoError(t, svc.DestroySession(ctx, user.UserID))
	require.NoError(t, svc.DestroySession(ctx, 9999))
}

func TestAuthService_CreateSession_SupersedesPrevious(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "u@x.com", "pw1")
	require.NoError(t, err)

	first, err := svc.CreateSession(ctx, "u@x.com")
	require.NoError(t, err)
	second, err := svc.CreateSession(ctx, "u@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, ok, err := svc.GetUserFromSessionID(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.GetUserFromSessionID(ctx, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthService_CreateSession_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	token, err := svc.CreateSession(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestAuthService_GetUserFromSessionID_Absent(t *testing.T) {
	svc, _ := newTestAuthService(t)

	for _, sid := range []string{"", "does-not-exist"} {
		_, ok, err := svc.GetUserFromSessionID(context.Background(), sid)
		require.NoError(t, err)
		assert.False(t, ok, sid)
	}
}

// ── Password reset ───────────────────────────────────────────────────────────

func TestAuthService_GetResetPasswordToken_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.GetResetPasswordToken(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_GetResetPasswordToken_NoCollisions(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	const (
		users    = 10
		perUser  = 1000
		issuance = users * perUser
	)

	for i := range users {
		_, err := svc.RegisterUser(ctx, fmt.Sprintf("user%d@x.com", i), "pw")
		require.NoError(t, err)
	}

	seen := make(map[string]struct{}, issuance)
	for i := range issuance {
		token, err := svc.GetResetPasswordToken(ctx, fmt.Sprintf("user%d@x.com", i%users))
		require.NoError(t, err)
		require.NotEmpty(t, token)

		_, dup := seen[token]
		require.False(t, dup, "token issued twice after %d issuances", i)
		seen[token] = struct{}{}
	}

	// the last token of each user is the one stored
	stored, err := repo.FindUser(ctx, store.ByEmail("user0@x.com"))
	require.NoError(t, err)
	assert.True(t, stored.ResetToken.Valid)
	assert.Contains(t, seen, stored.ResetToken.String)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "u@x.com", "old")
	require.NoError(t, err)
	session, err := svc.CreateSession(ctx, "u@x.com")
	require.NoError(t, err)

	token, err := svc.GetResetPasswordToken(ctx, "u@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, "u@x.com", token, "new"))

	ok, err := svc.ValidLogin(ctx, "u@x.com", "new")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ValidLogin(ctx, "u@x.com", "old")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindUser(ctx, store.ByEmail("u@x.com"))
	require.NoError(t, err)
	assert.False(t, stored.ResetToken.Valid, "reset token must be consumed")

	// sessions are not touched by a reset
	_, ok, err = svc.GetUserFromSessionID(ctx, session)
	require.NoError(t, err)
	assert.True(t, ok)

	// the token works once
	assert.ErrorIs(t, svc.UpdatePassword(ctx, "u@x.com", token, "newer"), ErrInvalidResetToken)
}

func TestAuthService_UpdatePassword_Rejected(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "u@x.com", "pw")
	require.NoError(t, err)
	_, err = svc.RegisterUser(ctx, "v@x.com", "pw")
	require.NoError(t, err)

	// no reset pending yet
	assert.ErrorIs(t, svc.UpdatePassword(ctx, "u@x.com", "anything", "new"), ErrInvalidResetToken)

	token, err := svc.GetResetPasswordToken(ctx, "u@x.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		email   string
		token   string
		newPass string
		wantErr error
	}{
		{name: "unknown email", email: "nobody@x.com", token: token, newPass: "n", wantErr: ErrInvalidResetToken},
		{name: "token of another user", email: "v@x.com", token: token, newPass: "n", wantErr: ErrInvalidResetToken},
		{name: "wrong token", email: "u@x.com", token: token + "x", newPass: "n", wantErr: ErrInvalidResetToken},
		{name: "empty token", email: "u@x.com", token: "", newPass: "n", wantErr: ErrInvalidResetToken},
		{name: "empty password", email: "u@x.com", token: token, newPass: "", wantErr: ErrInvalidDataProvided},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.UpdatePassword(ctx, tt.email, tt.token, tt.newPass), tt.wantErr)
		})
	}

	// none of the rejected attempts consumed the token
	assert.NoError(t, svc.UpdatePassword(ctx, "u@x.com", token, "new"))
}

// ── End to end ───────────────────────────────────────────────────────────────

func TestAuthService_EndToEnd(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "u@x.com", "pw1")
	require.NoError(t, err)

	ok, err := svc.ValidLogin(ctx, "u@x.com", "pw1")
	require.NoError(t, err)
	require.True(t, ok)

	token, err := svc.CreateSession(ctx, "u@x.com")
	require.NoError(t, err)

	user, ok, err := svc.GetUserFromSessionID(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u@x.com", user.Email)

	require.NoError(t, svc.DestroySession(ctx, user.UserID))

	_, ok, err = svc.GetUserFromSessionID(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.ValidLogin(ctx, "u@x.com", "pw1")
	require.NoError(t, err)
	assert.True(t, ok)
}
