package auth

import (
	"testing"

	"warden/config"
	domainerrors "warden/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(cost int) *bcryptHasher {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: cost}}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := newTestHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	// Verify the hash can be checked
	assert.True(t, hasher.Check("correct horse battery staple", hash))
}

func TestBcryptHasher_Hash_EmptySecret(t *testing.T) {
	hasher := newTestHasher(bcrypt.MinCost)

	_, err := hasher.Hash("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestBcryptHasher_Hash_SaltsDiffer(t *testing.T) {
	hasher := newTestHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same secret")
	require.NoError(t, err)
	second, err := hasher.Hash("same secret")
	require.NoError(t, err)

	// Two hashes of the same secret must differ (random salt) yet both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("same secret", first))
	assert.True(t, hasher.Check("same secret", second))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := newTestHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)

	// Correct secret
	assert.True(t, hasher.Check("correct horse battery staple", hash))

	// Verification is case-sensitive
	assert.False(t, hasher.Check("Correct Horse Battery Staple", hash))

	// Different secret
	assert.False(t, hasher.Check("tr0ub4dor&3", hash))

	// Empty candidate
	assert.False(t, hasher.Check("", hash))
}

func TestBcryptHasher_Check_MalformedHash(t *testing.T) {
	hasher := newTestHasher(bcrypt.MinCost)

	// Malformed stored tokens must produce false, never a panic, and the
	// result must not distinguish parse failures from digest mismatches.
	malformed := []string{
		"",
		"not-a-bcrypt-token",
		"$2a$bad",
		"$9z$10$????????????????????????????????????????????????????",
	}
	for _, hash := range malformed {
		assert.False(t, hasher.Check("anything", hash), "hash: %q", hash)
	}
}

func TestBcryptHasher_Cost(t *testing.T) {
	hasher := newTestHasher(6)

	hash, err := hasher.Hash("some secret")
	require.NoError(t, err)

	cost, err := hasher.Cost(hash)
	require.NoError(t, err)
	assert.Equal(t, 6, cost)

	_, err = hasher.Cost("garbage")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrMalformedCredential))
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "zero falls back to default", cost: 0, want: bcrypt.DefaultCost},
		{name: "below minimum falls back", cost: 2, want: bcrypt.DefaultCost},
		{name: "above maximum falls back", cost: 40, want: bcrypt.DefaultCost},
		{name: "valid cost kept", cost: 12, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := newTestHasher(tt.cost)
			assert.Equal(t, tt.want, hasher.cost)
		})
	}
}

func TestNewBcryptHasher_NilConfig(t *testing.T) {
	hasher := NewBcryptHasher(nil).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
