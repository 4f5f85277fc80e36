package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/api"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/client"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/logging"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/qrtoken"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
	"github.com/stretchr/testify/require"
)

const testQRSecret = "library-access-shared-secret"

var testNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// fakeClient implements client.Client. Unused methods panic through the
// nil embedded interface.
type fakeClient struct {
	client.Client

	issuer      *qrtoken.Issuer
	version     int64
	issueErr    error
	issueCalls  int
	snapshotURL string
	tamper      func(*api.IssueTokenResponse)

	pingVersion string
	pingErr     error
	closed      bool

	decision    *api.ValidateScanResponse
	scans       []api.ScanLog
	corrected   *api.ScanLog
	rpcErr      error
	calls       int
	lastPayload string
	lastType    string
	lastLoc     string
	lastUser    string
	lastLimit   int
	lastFrom    time.Time
	lastTo      time.Time
	lastScanID  string
	lastOutcome string
	lastReason  string
}

func (f *fakeClient) IssueToken(ctx context.Context, withSnapshot bool) (*api.IssueTokenResponse, error) {
	f.issueCalls++
	if f.issueErr != nil {
		return nil, f.issueErr
	}

	f.version++
	iss, err := f.issuer.Issue(qrtoken.Profile{
		UserID:                 "u1",
		FullName:               "Holder u1",
		Email:                  "u1@library.test",
		SubscriptionValidUntil: "2025-12-31",
		Role:                   common.RoleStudent,
	}, f.version)
	if err != nil {
		return nil, err
	}

	resp := &api.IssueTokenResponse{
		Payload:     iss.Payload,
		QRID:        iss.Claim.QRID,
		Version:     iss.Claim.Version,
		GeneratedAt: iss.Claim.GeneratedAt.Time(),
		ExpiresAt:   iss.Claim.ExpiresAt.Time(),
		RefreshAt:   iss.RefreshAt,
	}
	if withSnapshot {
		resp.SnapshotURL = f.snapshotURL
	}
	if f.tamper != nil {
		f.tamper(resp)
	}
	return resp, nil
}

func (f *fakeClient) Ping(ctx context.Context) (string, error) { return f.pingVersion, f.pingErr }

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func (f *fakeClient) ValidateScan(ctx context.Context, payload, scanType, location string) (*api.ValidateScanResponse, error) {
	f.calls++
	f.lastPayload, f.lastType, f.lastLoc = payload, scanType, location
	return f.decision, f.rpcErr
}

func (f *fakeClient) ScanHistory(ctx context.Context, userID string, limit int) ([]api.ScanLog, error) {
	f.calls++
	f.lastUser, f.lastLimit = userID, limit
	return f.scans, f.rpcErr
}

func (f *fakeClient) ListScans(ctx context.Context, from, to time.Time) ([]api.ScanLog, error) {
	f.calls++
	f.lastFrom, f.lastTo = from, to
	return f.scans, f.rpcErr
}

func (f *fakeClient) CorrectScan(ctx context.Context, scanID, outcome, reason string) (*api.ScanLog, error) {
	f.calls++
	f.lastScanID, f.lastOutcome, f.lastReason = scanID, outcome, reason
	return f.corrected, f.rpcErr
}

type holderEnv struct {
	db     *sql.DB
	clock  *timex.FakeClock
	codec  *qrtoken.Codec
	client *fakeClient
}

func newHolderEnv(t *testing.T) *holderEnv {
	t.Helper()

	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	codec, err := qrtoken.NewCodec(testQRSecret)
	require.NoError(t, err)

	clock := timex.NewFake(testNow)

	return &holderEnv{
		db:     db,
		clock:  clock,
		codec:  codec,
		client: &fakeClient{issuer: qrtoken.NewIssuer(codec, clock, 5*time.Minute, 2*time.Minute)},
	}
}

func (e *holderEnv) holder(accessToken string, codec *qrtoken.Codec) HolderService {
	return NewHolderService(e.client, e.db, codec, accessToken, e.clock, logging.Discard())
}

func (e *holderEnv) tokenRows(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM tokens`).Scan(&n))
	return n
}
