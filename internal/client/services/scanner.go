package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/api"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/client"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/logging"
)

// ScannerService is the admin side of the CLI: it submits scanned codes
// and reads or amends the audit log.
type ScannerService interface {
	Scan(ctx context.Context, scanType common.ScanType, payload string) (*api.ValidateScanResponse, error)
	History(ctx context.Context, userID string, limit int) ([]api.ScanLog, error)
	Range(ctx context.Context, from, to time.Time) ([]api.ScanLog, error)
	Correct(ctx context.Context, scanID string, outcome common.Outcome, reason string) (*api.ScanLog, error)
}

type scannerService struct {
	client   client.Client
	location string
	logger   logging.Logger
}

// NewScannerService returns a ScannerService that tags every scan with
// location.
func NewScannerService(c client.Client, location string, logger logging.Logger) ScannerService {
	return &scannerService{client: c, location: location, logger: logger.With("module", "scanner")}
}

// Scan trims the payload before submitting it; readers commonly append a
// newline. Input problems are rejected locally without a round trip.
func (s *scannerService) Scan(ctx context.Context, scanType common.ScanType, payload string) (*api.ValidateScanResponse, error) {
	if !scanType.Valid() {
		return nil, fmt.Errorf("%w: scan type must be %q or %q", common.ErrInvalidArgument, common.ScanEntry, common.ScanExit)
	}

	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", common.ErrInvalidArgument)
	}

	d, err := s.client.ValidateScan(ctx, payload, string(scanType), s.location)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "scan submitted", "scan_type", scanType, "granted", d.Granted, "reason", d.Reason, "duplicate", d.Duplicate)
	return d, nil
}

func (s *scannerService) History(ctx context.Context, userID string, limit int) ([]api.ScanLog, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", common.ErrInvalidArgument)
	}
	return s.client.ScanHistory(ctx, userID, limit)
}

func (s *scannerService) Range(ctx context.Context, from, to time.Time) ([]api.ScanLog, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: range end must be after its start", common.ErrInvalidArgument)
	}
	return s.client.ListScans(ctx, from, to)
}

func (s *scannerService) Correct(ctx context.Context, scanID string, outcome common.Outcome, reason string) (*api.ScanLog, error) {
	if scanID == "" || !outcome.Valid() {
		return nil, fmt.Errorf("%w: scan id and outcome are required", common.ErrInvalidArgument)
	}
	if outcome == common.OutcomeDenied && strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: a denial needs a reason", common.ErrInvalidArgument)
	}

	l, err := s.client.CorrectScan(ctx, scanID, string(outcome), reason)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "scan corrected", "scan_id", scanID, "correction_id", l.ID, "outcome", outcome)
	return l, nil
}
