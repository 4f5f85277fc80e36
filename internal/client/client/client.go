package client

import (
	"context"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/api"
)

// Client is the gateway API as seen by the CLI services.
type Client interface {
	Close() error
	// Ping returns the gateway build version.
	Ping(ctx context.Context) (string, error)
	IssueToken(ctx context.Context, withSnapshot bool) (*api.IssueTokenResponse, error)
	ValidateScan(ctx context.Context, payload, scanType, location string) (*api.ValidateScanResponse, error)
	ScanHistory(ctx context.Context, userID string, limit int) ([]api.ScanLog, error)
	ListScans(ctx context.Context, from, to time.Time) ([]api.ScanLog, error)
	CorrectScan(ctx context.Context, scanID, outcome, reason string) (*api.ScanLog, error)
}
