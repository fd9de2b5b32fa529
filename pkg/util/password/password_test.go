package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.NoError(t, Verify(hash, "correct horse battery staple"))
	assert.ErrorIs(t, Verify(hash, "wrong password"), ErrMismatch)
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := Hash("same input")
	require.NoError(t, err)
	h2, err := Hash("same input")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashWithParams(t *testing.T) {
	params := &Params{Memory: 16 * 1024, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	hash, err := HashWithParams("secret", params)
	require.NoError(t, err)

	assert.Contains(t, hash, "m=16384,t=2,p=1")
	assert.NoError(t, Verify(hash, "secret"))
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.ErrorIs(t, Verify("not a hash", "secret"), ErrInvalidHash)
	assert.ErrorIs(t, Verify("$argon2i$v=19$m=1,t=1,p=1$AAAA$AAAA", "secret"), ErrInvalidHash)
}

func TestMatch(t *testing.T) {
	hash, err := Hash("secret")
	require.NoError(t, err)

	assert.True(t, Match(hash, "secret"))
	assert.False(t, Match(hash, "nope"))
	assert.False(t, Match("invalidhash", "secret"))
}

func TestConfigureAppliesDeploymentParams(t *testing.T) {
	t.Cleanup(func() { activeParams = DefaultParams() })

	Configure(Config{MemoryKiB: 16 * 1024, Iterations: 2, Parallelism: 1})

	hash, err := Hash("secret")
	require.NoError(t, err)
	assert.Contains(t, hash, "m=16384,t=2,p=1")
	assert.NoError(t, Verify(hash, "secret"))
}

func TestConfigZeroValuesKeepDefaults(t *testing.T) {
	p := Config{}.ToParams()
	assert.Equal(t, DefaultParams(), p)
}

func TestConfigLowMemoryModeCaps(t *testing.T) {
	p := Config{LowMemoryMode: true}.ToParams()
	assert.Equal(t, uint32(32*1024), p.Memory)
}
