// Package cryptox implements the cryptographic primitives behind the QR
// access token: the shared key derivation, fixed-IV AES-256-CBC, the keyed
// integrity hash, and AES-GCM sealing for the client-side token cache.
package cryptox

import (
	"errors"
	"strings"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// keyPad is appended to short secrets. It is the ASCII digit zero,
// not a NUL byte.
const keyPad = "0"

// ErrInvalidSecret is returned for secrets that cannot be derived identically
// by every client: empty strings and anything outside 7-bit ASCII.
var ErrInvalidSecret = errors.New("invalid shared secret")

// Key is the derived symmetric key shared by every issuing and validating client.
type Key [KeySize]byte

// DeriveKey expands the shared passphrase into a Key.
//
// The passphrase bytes are right-padded with '0' up to KeySize, or truncated
// to the first KeySize bytes. Every client implementation must apply exactly
// this rule; a one-byte difference silently breaks cross-client validation.
func DeriveKey(secret string) (Key, error) {
	var k Key
	if secret == "" {
		return k, ErrInvalidSecret
	}
	for i := 0; i < len(secret); i++ {
		if secret[i] > 0x7f {
			return k, ErrInvalidSecret
		}
	}

	padded := secret
	if len(padded) < KeySize {
		padded += strings.Repeat(keyPad, KeySize-len(padded))
	}
	copy(k[:], padded[:KeySize])
	return k, nil
}

// MustDeriveKey is DeriveKey for constants known to be valid. It panics on error.
func MustDeriveKey(secret string) Key {
	k, err := DeriveKey(secret)
	if err != nil {
		panic(err)
	}
	return k
}
