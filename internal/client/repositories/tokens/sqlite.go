package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, t *models.CachedToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tokens (qr_id, version, expires_at, sealed, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(qr_id) DO UPDATE SET
			version = excluded.version,
			expires_at = excluded.expires_at,
			sealed = excluded.sealed,
			created_at = excluded.created_at
	`, t.QRID, t.Version, t.ExpiresAt.UnixMilli(), t.Sealed, t.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save token %s: %w", t.QRID, err)
	}
	return nil
}

func (r *SQLiteRepository) Latest(ctx context.Context) (*models.CachedToken, error) {
	var (
		t                  models.CachedToken
		expires, createdAt int64
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT qr_id, version, expires_at, sealed, created_at
		FROM tokens
		ORDER BY created_at DESC, version DESC
		LIMIT 1
	`).Scan(&t.QRID, &t.Version, &expires, &t.Sealed, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest token: %w", err)
	}

	t.ExpiresAt = time.UnixMilli(expires).UTC()
	t.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &t, nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < ?`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune tokens: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tokens`); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}
