package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/dbx"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/repositories/repomanager"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// ScanRecorder is the append-only audit trail of scan decisions.
type ScanRecorder struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
	newID       func() string
}

func NewScanRecorder(db *sql.DB, m repomanager.RepositoryManager, clock timex.Clock) *ScanRecorder {
	return &ScanRecorder{
		db:          db,
		repomanager: m,
		clock:       clock,
		newID:       uuid.NewString,
	}
}

// Record appends l, filling in ID and ScanTime when they are empty.
func (r *ScanRecorder) Record(ctx context.Context, l *models.ScanLog) error {
	return r.record(ctx, r.db, l)
}

func (r *ScanRecorder) record(ctx context.Context, db dbx.DBTX, l *models.ScanLog) error {
	if !l.ScanType.Valid() || !l.Outcome.Valid() || l.ScannedBy == "" {
		return fmt.Errorf("%w: incomplete scan log", common.ErrInvalidArgument)
	}
	if l.ID == "" {
		l.ID = r.newID()
	}
	if l.ScanTime.IsZero() {
		l.ScanTime = r.clock.Now().UTC()
	}
	if l.Outcome == common.OutcomeGranted {
		l.Reason = ""
	}

	return r.repomanager.ScanLogs(db).Insert(ctx, l)
}

// History returns userID's scans, newest first.
func (r *ScanRecorder) History(ctx context.Context, userID string, limit int) ([]models.ScanLog, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", common.ErrInvalidArgument)
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return r.repomanager.ScanLogs(r.db).ListByUser(ctx, userID, limit)
}

// Range returns scans with from <= scan time < to, oldest first.
func (r *ScanRecorder) Range(ctx context.Context, from, to time.Time) ([]models.ScanLog, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: empty time range", common.ErrInvalidArgument)
	}
	return r.repomanager.ScanLogs(r.db).ListByRange(ctx, from, to)
}

// Correct appends a compensating entry for originalID. The original row is
// left untouched; readers pair the two through CorrectsID.
func (r *ScanRecorder) Correct(ctx context.Context, originalID, adminID string, outcome common.Outcome, reason string) (*models.ScanLog, error) {
	if originalID == "" || adminID == "" || !outcome.Valid() {
		return nil, fmt.Errorf("%w: correction needs scan id, admin and outcome", common.ErrInvalidArgument)
	}
	if outcome == common.OutcomeDenied && reason == "" {
		return nil, fmt.Errorf("%w: a denial needs a reason", common.ErrInvalidArgument)
	}

	var correction *models.ScanLog
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		original, err := r.repomanager.ScanLogs(tx).GetByID(ctx, originalID)
		if err != nil {
			return err
		}

		correction = &models.ScanLog{
			UserID:     original.UserID,
			ScanType:   original.ScanType,
			Outcome:    outcome,
			Reason:     reason,
			ScannedBy:  adminID,
			Location:   original.Location,
			QRID:       original.QRID,
			CorrectsID: original.ID,
		}
		return r.record(ctx, tx, correction)
	})
	if err != nil {
		return nil, err
	}

	return correction, nil
}
