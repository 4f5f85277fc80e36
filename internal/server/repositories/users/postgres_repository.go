package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/dbx"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, full_name, role, institution_id, profile_pic_url, status, subscription_end, subscription_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.FullName, string(user.Role),
		dbx.NullString(user.InstitutionID), dbx.NullString(user.ProfilePicURL),
		string(user.Status), dbx.NullTime(user.SubscriptionEnd), string(user.SubscriptionStatus),
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, full_name, role, institution_id, profile_pic_url, status,
		        subscription_end, subscription_status, qr_version,
		        latest_qr_id, latest_qr_payload, latest_qr_expires_at, created_at
		 FROM users
		 WHERE id = $1
		 `

	var (
		u                                  models.User
		role, status, subStatus            string
		institution, avatar, qrID, payload sql.NullString
		subEnd, qrExpires                  sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.FullName, &role, &institution, &avatar, &status,
		&subEnd, &subStatus, &u.QRVersion,
		&qrID, &payload, &qrExpires, &u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.Role = common.Role(role)
	u.Status = models.AccountStatus(status)
	u.SubscriptionStatus = models.SubscriptionStatus(subStatus)
	u.InstitutionID = institution.String
	u.ProfilePicURL = avatar.String
	u.LatestQRID = qrID.String
	u.LatestQRPayload = payload.String
	if subEnd.Valid {
		u.SubscriptionEnd = &subEnd.Time
	}
	if qrExpires.Valid {
		u.LatestQRExpiresAt = &qrExpires.Time
	}

	return &u, nil
}

func (r *PostgresRepository) IncrementQRVersion(ctx context.Context, id string) (int64, error) {
	query :=
		`UPDATE users SET qr_version = qr_version + 1
		 WHERE id = $1
		 RETURNING qr_version
		 `

	var version int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&version)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return version, nil
}

func (r *PostgresRepository) SaveLatestToken(ctx context.Context, id, qrID, payload string, expiresAt time.Time) error {
	query :=
		`UPDATE users SET latest_qr_id = $2, latest_qr_payload = $3, latest_qr_expires_at = $4
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, qrID, payload, expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(res)
}

func (r *PostgresRepository) MarkSubscriptionExpired(ctx context.Context, id string) error {
	query :=
		`UPDATE users SET subscription_status = 'expired'
		 WHERE id = $1 AND subscription_status <> 'expired'
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
