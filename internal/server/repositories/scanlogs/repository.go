// Package scanlogs stores the append-only audit trail of scan decisions.
// The repository exposes no update or delete operations.
package scanlogs

import (
	"context"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, log *models.ScanLog) error
	GetByID(ctx context.Context, id string) (*models.ScanLog, error)
	// ListByUser returns a user's scans, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ScanLog, error)
	// ListByRange returns scans with from <= scan_time < to, oldest first.
	ListByRange(ctx context.Context, from, to time.Time) ([]models.ScanLog, error)
}
