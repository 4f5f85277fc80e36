package users

import (
	"context"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// IncrementQRVersion bumps the per-user issuance counter and returns the
	// new value.
	IncrementQRVersion(ctx context.Context, id string) (int64, error)
	// SaveLatestToken stores the most recent issuance for display continuity.
	SaveLatestToken(ctx context.Context, id, qrID, payload string, expiresAt time.Time) error
	// MarkSubscriptionExpired flips a stale subscription_status to expired.
	MarkSubscriptionExpired(ctx context.Context, id string) error
}
