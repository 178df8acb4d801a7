package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashWithSalt(t *testing.T) {
	first, err := HashWithSalt("id|Acme|acme@example.com|approved", "")
	assert.NoError(t, err)
	assert.Len(t, first.Hash, 64)
	assert.Len(t, first.Salt, 32)

	// same data and salt re-derives the same digest
	again, err := HashWithSalt("id|Acme|acme@example.com|approved", first.Salt)
	assert.NoError(t, err)
	assert.Equal(t, first.Hash, again.Hash)

	// fresh salt gives a different digest
	other, err := HashWithSalt("id|Acme|acme@example.com|approved", "")
	assert.NoError(t, err)
	assert.NotEqual(t, first.Hash, other.Hash)
}
