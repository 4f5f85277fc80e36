package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/logging"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/qrtoken"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/repositories/repomanager"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
)

// ScanRequest is one raw QR read from an admin scanner.
type ScanRequest struct {
	Payload  string
	ScanType common.ScanType
	AdminID  string
	Location string
}

// Decision is the admit/deny verdict for a scan.
type Decision struct {
	Granted   bool
	Reason    string
	UserID    string
	FullName  string
	QRID      string
	ScanLogID string
	ScanTime  time.Time
	// Duplicate marks a repeat of a scan already decided within the dedupe
	// window. Nothing was logged for it.
	Duplicate bool
}

type ValidatorOptions struct {
	DedupeWindow         time.Duration
	LookupTimeout        time.Duration
	EnforceLatestVersion bool
}

type dedupeKey struct {
	adminID  string
	scanType common.ScanType
	payload  [sha256.Size]byte
}

type recentDecision struct {
	at       time.Time
	decision Decision
}

// ValidatorService turns scanned payloads into audited decisions.
type ValidatorService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *qrtoken.Codec
	recorder    *ScanRecorder
	clock       timex.Clock
	logger      logging.Logger
	opts        ValidatorOptions

	mu     sync.Mutex
	recent map[dedupeKey]recentDecision
}

func NewValidatorService(db *sql.DB, m repomanager.RepositoryManager, codec *qrtoken.Codec,
	recorder *ScanRecorder, clock timex.Clock, logger logging.Logger, opts ValidatorOptions) *ValidatorService {
	return &ValidatorService{
		db:          db,
		repomanager: m,
		codec:       codec,
		recorder:    recorder,
		clock:       clock,
		logger:      logger.With("module", "validator"),
		opts:        opts,
		recent:      make(map[dedupeKey]recentDecision),
	}
}

// Validate decides req and records exactly one scan log for it, unless the
// same admin submitted the same payload and scan type within the dedupe
// window, in which case the earlier decision is returned as a duplicate.
//
// Token and account problems never surface as errors; they become denials.
// An error is returned only for a bad request or when the audit write
// fails, and in the latter case the returned decision is a denial.
func (s *ValidatorService) Validate(ctx context.Context, req ScanRequest) (*Decision, error) {
	if !req.ScanType.Valid() {
		return nil, fmt.Errorf("%w: unknown scan type %q", common.ErrInvalidArgument, req.ScanType)
	}
	if req.AdminID == "" {
		return nil, fmt.Errorf("%w: admin id required", common.ErrInvalidArgument)
	}

	key := dedupeKey{adminID: req.AdminID, scanType: req.ScanType, payload: sha256.Sum256([]byte(req.Payload))}
	if d, ok := s.lookupRecent(key); ok {
		s.logger.Debug(ctx, "duplicate scan suppressed", "admin_id", req.AdminID, "qr_id", d.QRID)
		return &d, nil
	}

	d := s.decide(ctx, req)

	entry := &models.ScanLog{
		UserID:    d.UserID,
		ScanType:  req.ScanType,
		Outcome:   common.OutcomeDenied,
		Reason:    d.Reason,
		ScannedBy: req.AdminID,
		Location:  req.Location,
		QRID:      d.QRID,
	}
	if d.Granted {
		entry.Outcome = common.OutcomeGranted
	}

	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Error(ctx, "scan log write failed", "qr_id", d.QRID, "error", err)
		d.Granted = false
		d.Reason = common.ErrServiceUnavailable.Error()
		return &d, fmt.Errorf("%w: %w", common.ErrServiceUnavailable, err)
	}

	d.ScanLogID = entry.ID
	d.ScanTime = entry.ScanTime
	s.remember(key, d)

	s.logger.Info(ctx, "scan decided",
		"scan_log_id", d.ScanLogID,
		"user_id", d.UserID,
		"qr_id", d.QRID,
		"scan_type", req.ScanType,
		"outcome", entry.Outcome,
		"reason", d.Reason)

	return &d, nil
}

// decide runs the validation steps in order and stops at the first failure.
func (s *ValidatorService) decide(ctx context.Context, req ScanRequest) Decision {
	_, claim, err := s.codec.DecodePayload(req.Payload)
	if err != nil {
		s.logger.Debug(ctx, "payload rejected", "error", err)
		return deny(Decision{}, err)
	}

	d := Decision{UserID: claim.UserID, FullName: claim.FullName, QRID: claim.QRID}

	now := s.clock.Now()
	if claim.Expired(now) {
		return deny(d, common.ErrExpiredToken)
	}

	u, err := s.lookupUser(ctx, claim.UserID)
	if err != nil {
		return deny(d, err)
	}
	d.FullName = u.FullName

	if !u.Verified() {
		return deny(d, common.ErrAccountNotVerified)
	}

	if !u.SubscriptionActiveAt(now) {
		if u.SubscriptionStatus != models.SubscriptionExpired {
			s.markExpired(ctx, u.ID)
		}
		return deny(d, common.ErrSubscriptionExpired)
	}

	if s.opts.EnforceLatestVersion && claim.Version < u.QRVersion {
		return deny(d, common.ErrSupersededToken)
	}

	d.Granted = true
	return d
}

func (s *ValidatorService) lookupUser(ctx context.Context, userID string) (*models.User, error) {
	if s.opts.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.LookupTimeout)
		defer cancel()
	}

	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return nil, common.ErrUserNotFound
	case err != nil:
		s.logger.Warn(ctx, "live lookup failed", "user_id", userID, "error", err)
		return nil, common.ErrServiceUnavailable
	}
	return u, nil
}

// markExpired repairs a stale subscription_status. Failures only cost a
// repeat attempt on the next scan.
func (s *ValidatorService) markExpired(ctx context.Context, userID string) {
	if err := s.repomanager.Users(s.db).MarkSubscriptionExpired(ctx, userID); err != nil {
		s.logger.Warn(ctx, "subscription status repair failed", "user_id", userID, "error", err)
		return
	}
	s.logger.Info(ctx, "subscription status marked expired", "user_id", userID)
}

func deny(d Decision, err error) Decision {
	d.Granted = false
	d.Reason = common.DenialReason(err)
	return d
}

func (s *ValidatorService) lookupRecent(key dedupeKey) (Decision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recent[key]
	if !ok || s.clock.Now().Sub(r.at) > s.opts.DedupeWindow {
		return Decision{}, false
	}
	d := r.decision
	d.Duplicate = true
	return d, true
}

func (s *ValidatorService) remember(key dedupeKey, d Decision) {
	if s.opts.DedupeWindow <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for k, r := range s.recent {
		if now.Sub(r.at) > s.opts.DedupeWindow {
			delete(s.recent, k)
		}
	}
	s.recent[key] = recentDecision{at: now, decision: d}
}
