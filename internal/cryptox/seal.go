package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random salt stored next to a sealed cache.
const SaltSize = 16

var ErrSealedTooShort = errors.New("sealed blob too short")

// DeriveCacheKey derives the AES key that protects the client's local token
// cache from a caller credential (the access token) and a per-device salt.
func DeriveCacheKey(credential []byte, salt []byte) []byte {
	return argon2.IDKey(credential, salt, 1, 64*1024, 4, 32)
}

// SealJSON serializes v to JSON and encrypts it with AES-GCM under key.
// A fresh random nonce is generated for every call and prepended to the
// returned blob.
func SealJSON(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// OpenJSON decrypts a blob produced by SealJSON and unmarshals it into v.
func OpenJSON(blob []byte, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	ns := aesgcm.NonceSize()
	if len(blob) < ns {
		return ErrSealedTooShort
	}

	plaintext, err := aesgcm.Open(nil, blob[:ns], blob[ns:], nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}
