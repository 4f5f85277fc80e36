package qrtoken

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
)

// Claim is the plaintext user assertion encrypted inside an Envelope.
//
// Field order is part of the wire format: the canonical serialization is
// encoding/json over this struct, so do not reorder fields.
type Claim struct {
	UserID                 string      `json:"userId"`
	FullName               string      `json:"fullName"`
	Email                  string      `json:"email"`
	SubscriptionValidUntil string      `json:"subscriptionValidUntil"`
	Role                   common.Role `json:"role"`
	InstitutionID          string      `json:"institutionId,omitempty"`
	ProfilePicURL          string      `json:"profilePicUrl,omitempty"`
	GeneratedAt            Timestamp   `json:"generatedAt"`
	ExpiresAt              Timestamp   `json:"expiresAt"`
	QRID                   string      `json:"qrId"`
	Version                int64       `json:"version"`
}

// Expired reports whether the claim is past its expiry at now. A claim is
// still valid at exactly ExpiresAt.
func (c Claim) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt.Time())
}

// Validate checks the fields every consumer relies on.
func (c Claim) Validate() error {
	switch {
	case c.UserID == "":
		return fmt.Errorf("%w: missing userId", common.ErrMalformedClaim)
	case c.QRID == "":
		return fmt.Errorf("%w: missing qrId", common.ErrMalformedClaim)
	case !c.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", common.ErrMalformedClaim, c.Role)
	case c.GeneratedAt.IsZero():
		return fmt.Errorf("%w: missing generatedAt", common.ErrMalformedClaim)
	case c.ExpiresAt.IsZero():
		return fmt.Errorf("%w: missing expiresAt", common.ErrMalformedClaim)
	case c.ExpiresAt.Time().Before(c.GeneratedAt.Time()):
		return fmt.Errorf("%w: expiresAt before generatedAt", common.ErrMalformedClaim)
	}
	return nil
}

// CanonicalJSON returns the exact plaintext bytes that get encrypted.
func (c Claim) CanonicalJSON() ([]byte, error) {
	return canonicalJSON(c)
}

func canonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
