package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", digest)
	assert.True(t, strings.HasPrefix(digest, "$2a$"))

	assert.True(t, h.Verify("s3cret!", digest))
	assert.False(t, h.Verify("wrong", digest))
	assert.False(t, h.Verify("s3cret!", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("s3cret!", ""))
}

func TestHasher_SaltsEachHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewHasher_DefaultCost(t *testing.T) {
	h := NewHasher(0)
	assert.Equal(t, DefaultCost, h.cost)
	assert.Equal(t, 10, DefaultCost)
}

func TestHasher_Burn(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	h.Burn("anything")
	require.NotEmpty(t, h.dummy)
	cost, err := bcrypt.Cost(h.dummy)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
