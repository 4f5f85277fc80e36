package scanlogs

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

const selectColumns = `SELECT id, user_id, scan_type, outcome, reason, scanned_by, location, qr_id, scan_time, corrects_id
		 FROM scan_logs`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, l *models.ScanLog) error {

	query :=
		`INSERT INTO scan_logs (id, user_id, scan_type, outcome, reason, scanned_by, location, qr_id, scan_time, corrects_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 `

	_, err := r.db.ExecContext(ctx, query,
		l.ID, dbx.NullString(l.UserID), string(l.ScanType), string(l.Outcome),
		dbx.NullString(l.Reason), l.ScannedBy, dbx.NullString(l.Location),
		dbx.NullString(l.QRID), l.ScanTime, dbx.NullString(l.CorrectsID),
	)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ScanLog, error) {
	query := selectColumns + `
		 WHERE id = $1
		 `

	l, err := scanLog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return l, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.ScanLog, error) {
	query := selectColumns + `
		 WHERE user_id = $1
		 ORDER BY scan_time DESC, id DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collect(rows)
}

func (r *PostgresRepository) ListByRange(ctx context.Context, from, to time.Time) ([]models.ScanLog, error) {
	query := selectColumns + `
		 WHERE scan_time >= $1 AND scan_time < $2
		 ORDER BY scan_time ASC, id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collect(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLog(s scanner) (*models.ScanLog, error) {
	var (
		l                                        models.ScanLog
		scanType, outcome                        string
		userID, reason, location, qrID, corrects sql.NullString
	)

	err := s.Scan(&l.ID, &userID, &scanType, &outcome, &reason, &l.ScannedBy, &location, &qrID, &l.ScanTime, &corrects)
	if err != nil {
		return nil, err
	}

	l.UserID = userID.String
	l.ScanType = common.ScanType(scanType)
	l.Outcome = common.Outcome(outcome)
	l.Reason = reason.String
	l.Location = location.String
	l.QRID = qrID.String
	l.CorrectsID = corrects.String

	return &l, nil
}

func collect(rows *sql.Rows) ([]models.ScanLog, error) {
	defer rows.Close()

	result := make([]models.ScanLog, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
