package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"time"
)

// ErrCodeMismatch is returned when a submitted verification code does not
// match the stored one.
var ErrCodeMismatch = errors.New("verification code mismatch")

// codeRecord holds a verification code and the email it was sent to.
type codeRecord struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// CodeStore keeps emailed one-time verification codes in Redis, encrypted
// at rest with AES-GCM. Codes are single use: a successful Verify deletes
// the record.
type CodeStore struct {
	encryptionKey []byte
}

var (
	setCodeValue = Set
	getCodeValue = Get
	delCodeValue = Del
)

// NewCodeStore creates a new code store
func NewCodeStore(encryptionKeyHex string) (*CodeStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &CodeStore{encryptionKey: key}, nil
}

// Save stores an encrypted verification code for the given user
func (s *CodeStore) Save(ctx context.Context, userID, email, code string, expiration time.Duration) error {
	jsonData, err := json.Marshal(&codeRecord{Email: email, Code: code})
	if err != nil {
		return err
	}

	encryptedData, err := s.encrypt(jsonData)
	if err != nil {
		return err
	}

	return setCodeValue(ctx, "verifycode:"+userID, encryptedData, expiration)
}

// Verify checks a submitted code against the stored one and consumes it on
// success
func (s *CodeStore) Verify(ctx context.Context, userID, code string) error {
	encryptedDataStr, err := getCodeValue(ctx, "verifycode:"+userID)
	if err != nil {
		return err
	}

	decryptedData, err := s.decrypt(encryptedDataStr)
	if err != nil {
		return err
	}

	var record codeRecord
	if err := json.Unmarshal(decryptedData, &record); err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		return ErrCodeMismatch
	}

	return delCodeValue(ctx, "verifycode:"+userID)
}

// Invalidate removes a pending code without verifying it
func (s *CodeStore) Invalidate(ctx context.Context, userID string) error {
	return delCodeValue(ctx, "verifycode:"+userID)
}

func (s *CodeStore) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

func (s *CodeStore) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
