package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedHash_KnownVector(t *testing.T) {
	key := MustDeriveKey("access-key")
	// python: hashlib.sha256(b"ZGF0YQ==" + key).hexdigest()
	assert.Equal(t, "67bac583dd385d74c3e81ef1a0fd48ea5394ada2174ba8d9f26d2e2d0bee198b", KeyedHash("ZGF0YQ==", key))
}

func TestVerifyKeyedHash(t *testing.T) {
	key := MustDeriveKey("access-key")
	h := KeyedHash("ZGF0YQ==", key)

	assert.True(t, VerifyKeyedHash("ZGF0YQ==", h, key))
	assert.False(t, VerifyKeyedHash("ZGF0YR==", h, key))
	assert.False(t, VerifyKeyedHash("ZGF0YQ==", h, MustDeriveKey("other")))
	assert.False(t, VerifyKeyedHash("ZGF0YQ==", h[:10], key))
}
