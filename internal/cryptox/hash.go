package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// KeyedHash returns the lowercase hex SHA-256 of data followed by the key
// bytes. data is the base64 ciphertext text exactly as it travels in the QR.
func KeyedHash(data string, key Key) string {
	h := sha256.New()
	h.Write([]byte(data))
	h.Write(key[:])
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyKeyedHash recomputes the keyed hash over data and compares it to
// want in constant time.
func VerifyKeyedHash(data, want string, key Key) bool {
	got := KeyedHash(data, key)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
