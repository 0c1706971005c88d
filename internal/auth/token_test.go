package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteerhub/volunteer-platform/internal/model"
)

func testKeys(t *testing.T) *KeyStore {
	t.Helper()
	dir := t.TempDir()
	return NewKeyStore(filepath.Join(dir, "priv.pem"), filepath.Join(dir, "pub.pem"), 2048)
}

func testIssuer(t *testing.T) *Issuer {
	t.Helper()
	return NewIssuer(testKeys(t), "kid-1", time.Hour, 10*time.Minute)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := testIssuer(t)

	token, err := issuer.Create(Claims{
		UserID: 42,
		Email:  "ada@example.com",
		Roles:  []model.Role{{ID: 3, Name: model.RoleVolunteer}},
	}, KindAccess)
	require.NoError(t, err)

	claims, err := issuer.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.True(t, claims.HasRole(model.RoleVolunteer))
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestTokenKindIsCarried(t *testing.T) {
	issuer := testIssuer(t)

	token, err := issuer.Create(Claims{Email: "ada@example.com"}, KindVerify)
	require.NoError(t, err)

	claims, err := issuer.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, KindVerify, claims.Kind)

	// Decode leaves kind checking to callers: a verify token decodes fine,
	// the caller must refuse it where an access token is required.
	assert.NotEqual(t, KindAccess, claims.Kind)
}

func TestTamperedTokenRejected(t *testing.T) {
	issuer := testIssuer(t)

	token, err := issuer.Create(Claims{UserID: 1, Email: "ada@example.com"}, KindAccess)
	require.NoError(t, err)

	tampered := []byte(token)
	tampered[len(tampered)/2] ^= 0x01
	_, err = issuer.Decode(string(tampered))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenFromOtherKeypairRejected(t *testing.T) {
	issuerA := testIssuer(t)
	issuerB := testIssuer(t)

	token, err := issuerA.Create(Claims{Email: "ada@example.com"}, KindAccess)
	require.NoError(t, err)

	_, err = issuerB.Decode(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := testIssuer(t)

	issued := time.Now()
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Create(Claims{Email: "ada@example.com"}, KindVerify)
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(11 * time.Minute) }
	_, err = issuer.Decode(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	issuer.now = func() time.Time { return issued.Add(9 * time.Minute) }
	_, err = issuer.Decode(token)
	assert.NoError(t, err)
}

func TestGarbageRejected(t *testing.T) {
	issuer := testIssuer(t)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Decode(raw)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestKeypairPersistsAcrossStores(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "priv.pem")
	pub := filepath.Join(dir, "pub.pem")

	first := NewIssuer(NewKeyStore(priv, pub, 2048), "", time.Hour, time.Hour)
	token, err := first.Create(Claims{Email: "ada@example.com"}, KindAccess)
	require.NoError(t, err)

	// A second store reads the same PEM files, so the token stays valid.
	second := NewIssuer(NewKeyStore(priv, pub, 2048), "", time.Hour, time.Hour)
	claims, err := second.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
}
