// Package tokens caches the holder's issued access codes in SQLite. Token
// bodies are stored sealed; expiry and creation times are kept as unix
// milliseconds so ordering and pruning happen in SQL.
package tokens

import (
	"context"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/models"
)

type Repository interface {
	// Save inserts t, replacing a row with the same QRID.
	Save(ctx context.Context, t *models.CachedToken) error
	// Latest returns the most recently created token, or common.ErrorNotFound.
	Latest(ctx context.Context) (*models.CachedToken, error)
	// DeleteExpired removes tokens that expired strictly before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Clear(ctx context.Context) error
}
