package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Sup3rSecret", hash)

	assert.True(t, CheckPassword(hash, "Sup3rSecret"))
	assert.False(t, CheckPassword(hash, "sup3rsecret"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("Sup3rSecret", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("Sup3rSecret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword(first, "Sup3rSecret"))
	assert.True(t, CheckPassword(second, "Sup3rSecret"))
}

func TestHashPasswordClampsCost(t *testing.T) {
	// Out-of-range costs fall back to the library default instead of failing.
	hash, err := HashPassword("Sup3rSecret", 99)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "Sup3rSecret"))

	hash, err = HashPassword("Sup3rSecret", 0)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "Sup3rSecret"))
}
