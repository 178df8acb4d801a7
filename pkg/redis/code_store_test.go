package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

const testEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestCodeStore(t *testing.T) (*CodeStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	store, err := NewCodeStore(testEncryptionKey)
	assert.NoError(t, err)
	return store, mr
}

func TestNewCodeStore_KeyValidation(t *testing.T) {
	_, err := NewCodeStore("not hex")
	assert.Error(t, err)

	// right format, wrong length
	_, err = NewCodeStore("0011223344")
	assert.Error(t, err)

	_, err = NewCodeStore(testEncryptionKey)
	assert.NoError(t, err)
}

func TestCodeStore_SaveAndVerify(t *testing.T) {
	store, mr := newTestCodeStore(t)
	ctx := context.Background()

	err := store.Save(ctx, "user-1", "founder@cryptorafts.com", "483920", 10*time.Minute)
	assert.NoError(t, err)

	// stored value is encrypted, not the raw code
	raw, err := mr.Get("verifycode:user-1")
	assert.NoError(t, err)
	assert.NotContains(t, raw, "483920")

	assert.NoError(t, store.Verify(ctx, "user-1", "483920"))

	// codes are single use
	assert.Error(t, store.Verify(ctx, "user-1", "483920"))
}

func TestCodeStore_VerifyMismatch(t *testing.T) {
	store, _ := newTestCodeStore(t)
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, "user-1", "founder@cryptorafts.com", "483920", 10*time.Minute))

	err := store.Verify(ctx, "user-1", "000000")
	assert.ErrorIs(t, err, ErrCodeMismatch)

	// a failed attempt does not consume the code
	assert.NoError(t, store.Verify(ctx, "user-1", "483920"))
}

func TestCodeStore_Invalidate(t *testing.T) {
	store, _ := newTestCodeStore(t)
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, "user-1", "founder@cryptorafts.com", "483920", 10*time.Minute))
	assert.NoError(t, store.Invalidate(ctx, "user-1"))
	assert.Error(t, store.Verify(ctx, "user-1", "483920"))
}

func TestCodeStore_Expiry(t *testing.T) {
	store, mr := newTestCodeStore(t)
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, "user-1", "founder@cryptorafts.com", "483920", time.Minute))
	mr.FastForward(2 * time.Minute)
	assert.Error(t, store.Verify(ctx, "user-1", "483920"))
}
