// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
)

type AccountStatus string

const (
	StatusPending   AccountStatus = "pending"
	StatusVerified  AccountStatus = "verified"
	StatusSuspended AccountStatus = "suspended"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// DateLayout is the wire form of subscription end dates.
const DateLayout = "2006-01-02"

// User is the live holder record. Status and SubscriptionEnd are the
// authority for every access decision; SubscriptionStatus is a
// denormalized flag that may lag behind SubscriptionEnd.
type User struct {
	ID                 string
	Email              string
	FullName           string
	Role               common.Role
	InstitutionID      string
	ProfilePicURL      string
	Status             AccountStatus
	SubscriptionEnd    *time.Time
	SubscriptionStatus SubscriptionStatus
	QRVersion          int64
	LatestQRID         string
	LatestQRPayload    string
	LatestQRExpiresAt  *time.Time
	CreatedAt          time.Time
}

// Verified reports whether the account passed approval.
func (u *User) Verified() bool {
	return u.Status == StatusVerified
}

// SubscriptionActiveAt reports whether the subscription covers now. The end
// date is inclusive: a subscription ending 2025-01-01 is valid until
// 2025-01-02T00:00:00Z.
func (u *User) SubscriptionActiveAt(now time.Time) bool {
	if u.SubscriptionEnd == nil {
		return false
	}
	end := u.SubscriptionEnd.UTC()
	endExclusive := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return now.Before(endExclusive)
}

// SubscriptionValidUntil renders SubscriptionEnd for claims.
func (u *User) SubscriptionValidUntil() string {
	if u.SubscriptionEnd == nil {
		return ""
	}
	return u.SubscriptionEnd.UTC().Format(DateLayout)
}
