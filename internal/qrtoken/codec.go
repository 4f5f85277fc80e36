package qrtoken

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/cryptox"
)

// Codec converts between Claims and Envelopes under one shared key.
type Codec struct {
	key cryptox.Key
}

// NewCodec derives the shared key from secret.
func NewCodec(secret string) (*Codec, error) {
	key, err := cryptox.DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	return &Codec{key: key}, nil
}

// NewCodecWithKey builds a Codec from an already derived key.
func NewCodecWithKey(key cryptox.Key) *Codec {
	return &Codec{key: key}
}

// Encode serializes, encrypts and hashes claim.
func (c *Codec) Encode(claim Claim) (Envelope, error) {
	if err := claim.Validate(); err != nil {
		return Envelope{}, err
	}

	plaintext, err := claim.CanonicalJSON()
	if err != nil {
		return Envelope{}, fmt.Errorf("serialize claim: %w", err)
	}

	ciphertext, err := cryptox.EncryptFixedIV(c.key, plaintext)
	if err != nil {
		return Envelope{}, fmt.Errorf("encrypt claim: %w", err)
	}

	data := base64.StdEncoding.EncodeToString(ciphertext)
	return Envelope{
		Data:      data,
		Hash:      cryptox.KeyedHash(data, c.key),
		QRID:      claim.QRID,
		Version:   claim.Version,
		ExpiresAt: claim.ExpiresAt,
	}, nil
}

// Decode verifies and decrypts e.
//
// The hash is checked before anything else; on mismatch Decode returns
// common.ErrIntegrity without attempting decryption. Ciphertext problems
// yield common.ErrDecrypt and an unusable plaintext common.ErrMalformedClaim.
func (c *Codec) Decode(e Envelope) (Claim, error) {
	if !cryptox.VerifyKeyedHash(e.Data, e.Hash, c.key) {
		return Claim{}, common.ErrIntegrity
	}

	ciphertext, err := base64.StdEncoding.DecodeString(e.Data)
	if err != nil {
		return Claim{}, fmt.Errorf("%w: %v", common.ErrDecrypt, err)
	}

	plaintext, err := cryptox.DecryptFixedIV(c.key, ciphertext)
	if err != nil {
		return Claim{}, fmt.Errorf("%w: %v", common.ErrDecrypt, err)
	}

	var claim Claim
	if err := json.Unmarshal(plaintext, &claim); err != nil {
		return Claim{}, fmt.Errorf("%w: %v", common.ErrMalformedClaim, err)
	}
	if err := claim.Validate(); err != nil {
		return Claim{}, err
	}

	if e.QRID != claim.QRID || e.Version != claim.Version || !e.ExpiresAt.Equal(claim.ExpiresAt) {
		return Claim{}, fmt.Errorf("%w: envelope metadata does not match claim", common.ErrIntegrity)
	}

	return claim, nil
}

// DecodePayload is ParsePayload followed by Decode.
func (c *Codec) DecodePayload(raw string) (Envelope, Claim, error) {
	e, err := ParsePayload(raw)
	if err != nil {
		return Envelope{}, Claim{}, err
	}
	claim, err := c.Decode(e)
	if err != nil {
		return e, Claim{}, err
	}
	return e, claim, nil
}
