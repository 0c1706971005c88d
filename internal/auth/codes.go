package auth

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"
)

// CodeStore is the in-memory store of one-time verification codes, keyed by
// email. At most one live code exists per email: issuing a new code replaces
// any previous one, and a successful redemption deletes the entry so a code
// is usable exactly once. Entries are never persisted and are lost on
// restart. A mutex guards the map since handlers run on multiple goroutines;
// under concurrent use for the same email the last issue wins and the first
// successful redeem invalidates the code for everyone else.
type CodeStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]storedCode
	now   func() time.Time
}

type storedCode struct {
	code      int
	expiresAt time.Time
}

// NewCodeStore returns a store whose codes expire after ttl.
func NewCodeStore(ttl time.Duration) *CodeStore {
	return &CodeStore{
		ttl:   ttl,
		codes: make(map[string]storedCode),
		now:   time.Now,
	}
}

// Issue generates a uniformly random 6-digit code for email, stores it with
// an expiry and returns it for out-of-band delivery. Expired entries are
// swept first; there is no background timer.
func (s *CodeStore) Issue(email string) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	code := int(n.Int64()) + 100000

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.codes[email] = storedCode{code: code, expiresAt: s.now().Add(s.ttl)}
	return code, nil
}

// Redeem checks code against the stored entry for email. It returns false
// when no entry exists, the entry has expired, or the code does not match.
// On an exact match the entry is deleted and true is returned.
func (s *CodeStore) Redeem(email string, code int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()

	stored, ok := s.codes[email]
	if !ok || stored.code != code {
		return false
	}
	delete(s.codes, email)
	return true
}

// sweep drops all expired entries. Callers must hold the mutex.
func (s *CodeStore) sweep() {
	now := s.now()
	for email, c := range s.codes {
		if c.expiresAt.Before(now) {
			delete(s.codes, email)
		}
	}
}
