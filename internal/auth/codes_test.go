package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeIssueAndRedeem(t *testing.T) {
	store := NewCodeStore(10 * time.Minute)

	code, err := store.Issue("ada@example.com")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, code, 100000)
	assert.LessOrEqual(t, code, 999999)

	assert.True(t, store.Redeem("ada@example.com", code))
	assert.False(t, store.Redeem("ada@example.com", code), "codes are single use")
}

func TestCodeWrongGuessDoesNotBurn(t *testing.T) {
	store := NewCodeStore(10 * time.Minute)

	code, err := store.Issue("ada@example.com")
	require.NoError(t, err)

	wrong := code + 1
	if wrong > 999999 {
		wrong = 100000
	}
	assert.False(t, store.Redeem("ada@example.com", wrong))
	assert.True(t, store.Redeem("ada@example.com", code))
}

func TestCodeReissueReplaces(t *testing.T) {
	store := NewCodeStore(10 * time.Minute)

	first, err := store.Issue("ada@example.com")
	require.NoError(t, err)
	second, err := store.Issue("ada@example.com")
	require.NoError(t, err)

	if first != second {
		assert.False(t, store.Redeem("ada@example.com", first), "replaced code must not redeem")
	}
	assert.True(t, store.Redeem("ada@example.com", second))
}

func TestCodeExpiry(t *testing.T) {
	store := NewCodeStore(10 * time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	code, err := store.Issue("ada@example.com")
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	assert.False(t, store.Redeem("ada@example.com", code))

	// The expired entry was swept, not just hidden.
	store.mu.Lock()
	_, exists := store.codes["ada@example.com"]
	store.mu.Unlock()
	assert.False(t, exists)
}

func TestCodeEntriesAreIndependent(t *testing.T) {
	store := NewCodeStore(10 * time.Minute)

	adaCode, err := store.Issue("ada@example.com")
	require.NoError(t, err)
	bobCode, err := store.Issue("bob@example.com")
	require.NoError(t, err)

	assert.True(t, store.Redeem("ada@example.com", adaCode))
	assert.True(t, store.Redeem("bob@example.com", bobCode))
}

func TestCodeStoreConcurrentUse(t *testing.T) {
	store := NewCodeStore(10 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			email := string(rune('a'+n%10)) + "@example.com"
			code, err := store.Issue(email)
			if err != nil {
				t.Error(err)
				return
			}
			store.Redeem(email, code)
		}(i)
	}
	wg.Wait()
}

func TestCodeRedeemSingleWinner(t *testing.T) {
	store := NewCodeStore(10 * time.Minute)
	code, err := store.Issue("ada@example.com")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wins := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Redeem("ada@example.com", code) {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one concurrent redeem may win")
}
