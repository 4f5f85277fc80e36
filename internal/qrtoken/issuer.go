package qrtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
	"github.com/google/uuid"
)

// Profile is the holder snapshot copied into a claim at issuance time.
type Profile struct {
	UserID                 string
	FullName               string
	Email                  string
	SubscriptionValidUntil string
	Role                   common.Role
	InstitutionID          string
	ProfilePicURL          string
}

// Issued is a freshly minted token ready for rendering.
type Issued struct {
	Claim    Claim
	Envelope Envelope
	// Payload is the exact QR text.
	Payload string
	// RefreshAt is when the holder should request the next token so the
	// displayed code never lapses.
	RefreshAt time.Time
}

// Issuer stamps and encodes claims.
//
// Issue does not check eligibility. Callers must have confirmed that the
// account is verified and the subscription active before calling it.
type Issuer struct {
	codec         *Codec
	clock         timex.Clock
	window        time.Duration
	refreshMargin time.Duration
	newID         func(time.Time) string
}

// NewIssuer returns an Issuer whose tokens live for window and should be
// refreshed refreshMargin before they expire.
func NewIssuer(codec *Codec, clock timex.Clock, window, refreshMargin time.Duration) *Issuer {
	return &Issuer{
		codec:         codec,
		clock:         clock,
		window:        window,
		refreshMargin: refreshMargin,
		newID:         NewQRID,
	}
}

// NewQRID returns a unique nonce of the form qr_<unix-ms>_<uuid>.
func NewQRID(now time.Time) string {
	return fmt.Sprintf("qr_%d_%s", now.UnixMilli(), uuid.NewString())
}

// Window is the fixed validity of every token.
func (i *Issuer) Window() time.Duration { return i.window }

// Issue builds a claim for p at the given version and encodes it.
func (i *Issuer) Issue(p Profile, version int64) (*Issued, error) {
	if p.UserID == "" {
		return nil, errors.New("profile without user id")
	}
	if version < 1 {
		return nil, fmt.Errorf("invalid token version %d", version)
	}

	generatedAt := NewTimestamp(i.clock.Now())
	expiresAt := NewTimestamp(generatedAt.Time().Add(i.window))

	claim := Claim{
		UserID:                 p.UserID,
		FullName:               p.FullName,
		Email:                  p.Email,
		SubscriptionValidUntil: p.SubscriptionValidUntil,
		Role:                   p.Role,
		InstitutionID:          p.InstitutionID,
		ProfilePicURL:          p.ProfilePicURL,
		GeneratedAt:            generatedAt,
		ExpiresAt:              expiresAt,
		QRID:                   i.newID(generatedAt.Time()),
		Version:                version,
	}

	envelope, err := i.codec.Encode(claim)
	if err != nil {
		return nil, err
	}

	payload, err := envelope.Payload()
	if err != nil {
		return nil, err
	}

	return &Issued{
		Claim:     claim,
		Envelope:  envelope,
		Payload:   payload,
		RefreshAt: i.refreshAt(generatedAt.Time(), expiresAt.Time()),
	}, nil
}

// refreshAt schedules the next issuance refreshMargin before expiry. A
// margin that does not fit inside the window falls back to the midpoint.
func (i *Issuer) refreshAt(generatedAt, expiresAt time.Time) time.Time {
	if i.refreshMargin <= 0 || i.refreshMargin >= i.window {
		return generatedAt.Add(i.window / 2)
	}
	return expiresAt.Add(-i.refreshMargin)
}
