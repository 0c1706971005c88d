package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KeyStore owns the RSA keypair used to sign and verify tokens. The pair is
// read from disk on first use and cached for the process lifetime; if the
// files are missing a fresh pair is generated and written. There is no hot
// rotation: once loaded, the cached keys are used until restart.
type KeyStore struct {
	privPath string
	pubPath  string
	keySize  int

	once sync.Once
	priv *rsa.PrivateKey
	pub  *rsa.PublicKey
	err  error
}

// NewKeyStore returns a KeyStore reading (or creating) PEM files at the given
// paths. keySize is only used when generating a fresh pair.
func NewKeyStore(privPath, pubPath string, keySize int) *KeyStore {
	if keySize <= 0 {
		keySize = 2048
	}
	return &KeyStore{privPath: privPath, pubPath: pubPath, keySize: keySize}
}

// Private returns the cached signing key, loading or generating it on first call.
func (k *KeyStore) Private() (*rsa.PrivateKey, error) {
	k.once.Do(k.load)
	return k.priv, k.err
}

// Public returns the cached verification key, loading or generating on first call.
func (k *KeyStore) Public() (*rsa.PublicKey, error) {
	k.once.Do(k.load)
	return k.pub, k.err
}

func (k *KeyStore) load() {
	if _, statErr := os.Stat(k.privPath); errors.Is(statErr, os.ErrNotExist) {
		if k.err = k.generate(); k.err != nil {
			return
		}
	}

	privPEM, err := os.ReadFile(k.privPath)
	if err != nil {
		k.err = fmt.Errorf("read private key: %w", err)
		return
	}
	block, _ := pem.Decode(privPEM)
	if block == nil {
		k.err = errors.New("private key file is not valid PEM")
		return
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		k.err = fmt.Errorf("parse private key: %w", err)
		return
	}
	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		k.err = errors.New("private key is not RSA")
		return
	}

	pubPEM, err := os.ReadFile(k.pubPath)
	if err != nil {
		k.err = fmt.Errorf("read public key: %w", err)
		return
	}
	block, _ = pem.Decode(pubPEM)
	if block == nil {
		k.err = errors.New("public key file is not valid PEM")
		return
	}
	parsedPub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		k.err = fmt.Errorf("parse public key: %w", err)
		return
	}
	pub, ok := parsedPub.(*rsa.PublicKey)
	if !ok {
		k.err = errors.New("public key is not RSA")
		return
	}

	k.priv, k.pub = priv, pub
}

// generate creates a new keypair and writes both halves as PEM.
func (k *KeyStore) generate() error {
	if dir := filepath.Dir(k.privPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create key dir: %w", err)
		}
	}

	priv, err := rsa.GenerateKey(rand.Reader, k.keySize)
	if err != nil {
		return fmt.Errorf("generate keypair: %w", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	if err := os.WriteFile(k.privPath, privPEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return fmt.Errorf("marshal public key: %w", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	if err := os.WriteFile(k.pubPath, pubPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}
	return nil
}
