package qrtoken

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
)

// Envelope is the wire format rendered into the QR image.
// QRID, Version and ExpiresAt travel in clear for display and triage; only
// Data is covered by Hash.
type Envelope struct {
	Data      string    `json:"data"`
	Hash      string    `json:"hash"`
	QRID      string    `json:"qrId"`
	Version   int64     `json:"version"`
	ExpiresAt Timestamp `json:"expiresAt"`
}

// Payload returns the QR text for e.
func (e Envelope) Payload() (string, error) {
	b, err := canonicalJSON(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParsePayload interprets a scanned QR string as an Envelope. Anything that
// is not a JSON object with data, hash, qrId and a parseable expiresAt fails
// with common.ErrInvalidFormat.
func ParsePayload(raw string) (Envelope, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return Envelope{}, common.ErrInvalidFormat
	}

	var e Envelope
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", common.ErrInvalidFormat, err)
	}
	if e.Data == "" || e.Hash == "" || e.QRID == "" || e.ExpiresAt.IsZero() {
		return Envelope{}, fmt.Errorf("%w: missing envelope fields", common.ErrInvalidFormat)
	}
	return e, nil
}
