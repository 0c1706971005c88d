package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/auth"
	"github.com/volunteerhub/volunteer-platform/internal/model"
)

func newTestIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	dir := t.TempDir()
	keys := auth.NewKeyStore(filepath.Join(dir, "priv.pem"), filepath.Join(dir, "pub.pem"), 2048)
	return auth.NewIssuer(keys, "test-key", time.Hour, 10*time.Minute)
}

func TestRegisterAndLogin(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(newMemFactory(store), newTestIssuer(t), 4)

	u, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Ada Volunteer",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.True(t, u.IsActive)

	token, logged, err := svc.Login(context.Background(), "ADA@example.com ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(newMemFactory(store), newTestIssuer(t), 4)

	_, err := svc.Register(context.Background(), RegisterInput{FullName: "First", Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{FullName: "Second", Email: "dup@example.com", Password: "password2"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)
}

func TestLoginDoesNotRevealWhichPartWasWrong(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(newMemFactory(store), newTestIssuer(t), 4)

	_, err := svc.Register(context.Background(), RegisterInput{FullName: "Ada", Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, _, wrongPassErr := svc.Login(context.Background(), "ada@example.com", "battery staple")

	unknown, ok := apperr.As(unknownErr)
	require.True(t, ok)
	wrongPass, ok := apperr.As(wrongPassErr)
	require.True(t, ok)

	assert.Equal(t, 401, unknown.Status)
	assert.Equal(t, *unknown, *wrongPass, "unknown email and wrong password must be indistinguishable")
}

func TestLoginBlockedAccount(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(newMemFactory(store), newTestIssuer(t), 4)

	u, err := svc.Register(context.Background(), RegisterInput{FullName: "Ada", Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)

	blocked := store.users[u.ID]
	blocked.IsActive = false
	store.users[u.ID] = blocked

	_, _, err = svc.Login(context.Background(), "ada@example.com", "correct horse")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Status)

	// The block is reported before the password is even checked, so a bad
	// guess against a blocked account reveals nothing about the credentials.
	_, _, err = svc.Login(context.Background(), "ada@example.com", "wrong guess")
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "PERMISSION_DENIED", appErr.Code)
}

func TestLoginSnapshotsRolesIntoToken(t *testing.T) {
	store := newMemStore()
	issuer := newTestIssuer(t)
	svc := NewAuthService(newMemFactory(store), issuer, 4)

	u, err := svc.Register(context.Background(), RegisterInput{FullName: "Ada", Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)

	// Grant volunteer directly in the store; the token must reflect it.
	store.userRoles[u.ID] = append(store.userRoles[u.ID], 3)

	token, _, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)

	claims, err := issuer.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, auth.KindAccess, claims.Kind)
	assert.Equal(t, u.ID, claims.UserID)
	assert.True(t, claims.HasRole(model.RoleUser))
	assert.True(t, claims.HasRole(model.RoleVolunteer))
	assert.False(t, claims.HasRole(model.RoleAdmin))
}
