// Package models defines the records kept in the client's local cache.
package models

import "time"

// HeldToken is the holder's copy of an issued access code. It is the
// plaintext sealed into CachedToken.Sealed.
type HeldToken struct {
	Payload     string    `json:"payload"`
	QRID        string    `json:"qrId"`
	Version     int64     `json:"version"`
	GeneratedAt time.Time `json:"generatedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	RefreshAt   time.Time `json:"refreshAt"`
	SnapshotURL string    `json:"snapshotUrl,omitempty"`
}

// Expired reports whether the token is past its expiry at now. A token is
// still usable at exactly ExpiresAt.
func (t *HeldToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// CachedToken is a row of the tokens table. Only the fields needed for
// ordering and pruning are stored in the clear.
type CachedToken struct {
	QRID      string
	Version   int64
	ExpiresAt time.Time
	Sealed    []byte
	CreatedAt time.Time
}
