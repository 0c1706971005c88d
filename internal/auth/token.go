package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// Kind is the token type discriminant carried in the "type" claim. A token of
// one kind must never be accepted where the other is required, so the value
// is checked explicitly after signature verification.
type Kind string

const (
	// KindAccess is the long-lived session token issued on login.
	KindAccess Kind = "access_token"
	// KindVerify is the short-lived token proving control of an email address.
	KindVerify Kind = "verify_token"
)

// ErrTokenInvalid is returned when a token fails signature verification, is
// structurally malformed, or has expired. Callers that care about the
// distinction between "no token" and "bad token" check for the cookie first.
var ErrTokenInvalid = errors.New("invalid or expired token")

// Claims is the signed claim set for both token kinds. Verification tokens
// carry only Email; access tokens add the user id and a snapshot of the
// user's roles at login time.
type Claims struct {
	UserID int64        `json:"user_id,omitempty"`
	Email  string       `json:"email"`
	Roles  []model.Role `json:"roles,omitempty"`
	Kind   Kind         `json:"type"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims' role snapshot contains name.
func (c *Claims) HasRole(name string) bool {
	for _, r := range c.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Issuer creates and validates signed tokens. Signing uses the private half
// of the keypair, validation only the public half.
type Issuer struct {
	keys      *KeyStore
	keyID     string
	accessTTL time.Duration
	verifyTTL time.Duration
	now       func() time.Time
}

// NewIssuer builds an Issuer with the given key material and per-kind lifetimes.
func NewIssuer(keys *KeyStore, keyID string, accessTTL, verifyTTL time.Duration) *Issuer {
	return &Issuer{
		keys:      keys,
		keyID:     keyID,
		accessTTL: accessTTL,
		verifyTTL: verifyTTL,
		now:       time.Now,
	}
}

// TTL returns the configured lifetime for a token kind.
func (i *Issuer) TTL(kind Kind) time.Duration {
	if kind == KindVerify {
		return i.verifyTTL
	}
	return i.accessTTL
}

// Create stamps issued-at, computes expiry from the kind's lifetime, embeds
// the kind and signs the claims with RS256. The optional key id is placed in
// the header for future key rotation.
func (i *Issuer) Create(claims Claims, kind Kind) (string, error) {
	now := i.now().UTC()
	claims.Kind = kind
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.TTL(kind)))

	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if i.keyID != "" {
		t.Header["kid"] = i.keyID
	}

	priv, err := i.keys.Private()
	if err != nil {
		return "", err
	}
	return t.SignedString(priv)
}

// Decode verifies the signature and expiry of a token and returns its claims.
// Any parse, signature or expiry failure is reported as ErrTokenInvalid.
// Decode does not check the kind; callers reject mismatched kinds themselves.
func (i *Issuer) Decode(token string) (*Claims, error) {
	pub, err := i.keys.Public()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrTokenInvalid
		}
		return pub, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
