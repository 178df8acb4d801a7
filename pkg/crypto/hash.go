package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SaltedHash is a sha256 digest of data concatenated with a random salt.
// The salt is kept so the hash can be re-derived for verification against
// the on-chain copy.
type SaltedHash struct {
	Hash string
	Salt string
}

// HashWithSalt hashes sensitive data for on-chain storage. When salt is
// empty a fresh 16-byte salt is generated.
func HashWithSalt(data, salt string) (SaltedHash, error) {
	if salt == "" {
		raw := make([]byte, 16)
		if _, err := rand.Read(raw); err != nil {
			return SaltedHash{}, fmt.Errorf("failed to generate salt: %w", err)
		}
		salt = hex.EncodeToString(raw)
	}

	sum := sha256.Sum256([]byte(data + salt))
	return SaltedHash{
		Hash: hex.EncodeToString(sum[:]),
		Salt: salt,
	}, nil
}
