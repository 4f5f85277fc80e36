package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/api"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/qrtoken"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestPing_OK(t *testing.T) {
	s := newServer(&fakeIssuer{}, &fakeValidator{}, &fakeRecorder{})
	resp, err := s.Ping(context.Background(), &api.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "v-test", resp.Version)
}

func TestIssueToken_OK(t *testing.T) {
	gen := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	is := &fakeIssuer{res: &services.IssueResult{
		Issued: &qrtoken.Issued{
			Claim: qrtoken.Claim{
				QRID:        "qr_1_a",
				Version:     3,
				GeneratedAt: qrtoken.NewTimestamp(gen),
				ExpiresAt:   qrtoken.NewTimestamp(gen.Add(5 * time.Minute)),
			},
			Payload:   `{"data":"x"}`,
			RefreshAt: gen.Add(3 * time.Minute),
		},
		SnapshotURL: "https://s3/qr.png",
	}}
	s := newServer(is, &fakeValidator{}, &fakeRecorder{})

	resp, err := s.IssueToken(holderCtx(), &api.IssueTokenRequest{WithSnapshot: true})
	require.NoError(t, err)
	assert.Equal(t, "u1", is.gotUserID)
	assert.True(t, is.gotSnapshots)
	assert.Equal(t, &api.IssueTokenResponse{
		Payload:     `{"data":"x"}`,
		QRID:        "qr_1_a",
		Version:     3,
		GeneratedAt: gen,
		ExpiresAt:   gen.Add(5 * time.Minute),
		RefreshAt:   gen.Add(3 * time.Minute),
		SnapshotURL: "https://s3/qr.png",
	}, resp)
}

func TestIssueToken_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{
			name: "ineligible",
			err:  fmt.Errorf("%w: %w", common.ErrIneligible, common.ErrSubscriptionExpired),
			code: codes.FailedPrecondition,
			msg:  "cannot generate access code: subscription expired",
		},
		{
			name: "internal",
			err:  errors.New("db error: boom"),
			code: codes.Internal,
			msg:  "internal error",
		},
		{
			name: "deadline",
			err:  fmt.Errorf("db error: %w", context.DeadlineExceeded),
			code: codes.Unavailable,
			msg:  "service unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(&fakeIssuer{err: tt.err}, &fakeValidator{}, &fakeRecorder{})
			_, err := s.IssueToken(holderCtx(), &api.IssueTokenRequest{})
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}

func TestIssueToken_NoIdentity(t *testing.T) {
	s := newServer(&fakeIssuer{}, &fakeValidator{}, &fakeRecorder{})
	_, err := s.IssueToken(context.Background(), &api.IssueTokenRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestValidateScan_OK(t *testing.T) {
	at := time.Date(2025, 1, 1, 9, 1, 0, 0, time.UTC)
	vs := &fakeValidator{decision: &services.Decision{
		Granted:   false,
		Reason:    "expired token",
		UserID:    "u1",
		QRID:      "qr_1_a",
		ScanLogID: "log-1",
		ScanTime:  at,
	}}
	s := newServer(&fakeIssuer{}, vs, &fakeRecorder{})

	resp, err := s.ValidateScan(adminCtx(), &api.ValidateScanRequest{Payload: "p", ScanType: "exit", Location: "gate"})
	require.NoError(t, err)
	assert.Equal(t, services.ScanRequest{Payload: "p", ScanType: common.ScanExit, AdminID: "admin-1", Location: "gate"}, vs.got)
	assert.False(t, resp.Granted)
	assert.Equal(t, "expired token", resp.Reason)
	assert.Equal(t, "log-1", resp.ScanLogID)
	assert.Equal(t, at, resp.ScanTime)
}

func TestValidateScan_Errors(t *testing.T) {
	s := newServer(&fakeIssuer{}, &fakeValidator{err: fmt.Errorf("%w: unknown scan type", common.ErrInvalidArgument)}, &fakeRecorder{})
	_, err := s.ValidateScan(adminCtx(), &api.ValidateScanRequest{Payload: "p", ScanType: "lunch"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	s = newServer(&fakeIssuer{}, &fakeValidator{
		decision: &services.Decision{Reason: "service unavailable"},
		err:      fmt.Errorf("%w: db error: disk full", common.ErrServiceUnavailable),
	}, &fakeRecorder{})
	_, err = s.ValidateScan(adminCtx(), &api.ValidateScanRequest{Payload: "p", ScanType: "entry"})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestScanHistory(t *testing.T) {
	at := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	rs := &fakeRecorder{logs: []models.ScanLog{{
		ID: "s1", UserID: "u1", ScanType: common.ScanEntry, Outcome: common.OutcomeGranted,
		ScannedBy: "admin-1", ScanTime: at,
	}}}
	s := newServer(&fakeIssuer{}, &fakeValidator{}, rs)

	resp, err := s.ScanHistory(holderCtx(), &api.ScanHistoryRequest{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "u1", rs.gotUserID)
	assert.Equal(t, 5, rs.gotLimit)
	assert.Equal(t, []api.ScanLog{{
		ID: "s1", UserID: "u1", ScanType: "entry", Outcome: "granted", ScannedBy: "admin-1", ScanTime: at,
	}}, resp.Scans)

	_, err = s.ScanHistory(holderCtx(), &api.ScanHistoryRequest{UserID: "u2"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = s.ScanHistory(adminCtx(), &api.ScanHistoryRequest{UserID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, "u2", rs.gotUserID)
}

func TestListScans(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	rs := &fakeRecorder{}
	s := newServer(&fakeIssuer{}, &fakeValidator{}, rs)

	resp, err := s.ListScans(adminCtx(), &api.ListScansRequest{From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, from, rs.gotFrom)
	assert.Equal(t, to, rs.gotTo)
	assert.NotNil(t, resp.Scans)
	assert.Empty(t, resp.Scans)

	rs.err = fmt.Errorf("%w: empty time range", common.ErrInvalidArgument)
	_, err = s.ListScans(adminCtx(), &api.ListScansRequest{From: to, To: from})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCorrectScan(t *testing.T) {
	rs := &fakeRecorder{corrected: &models.ScanLog{
		ID: "s2", UserID: "u1", ScanType: common.ScanEntry, Outcome: common.OutcomeGranted,
		ScannedBy: "admin-1", CorrectsID: "s1",
	}}
	s := newServer(&fakeIssuer{}, &fakeValidator{}, rs)

	resp, err := s.CorrectScan(adminCtx(), &api.CorrectScanRequest{ScanID: "s1", Outcome: "granted"})
	require.NoError(t, err)
	assert.Equal(t, "admin-1", rs.gotAdmin)
	assert.Equal(t, "s1", resp.Scan.CorrectsID)

	rs.err = common.ErrorNotFound
	_, err = s.CorrectScan(adminCtx(), &api.CorrectScanRequest{ScanID: "nope", Outcome: "granted"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrorForbidden, codes.PermissionDenied},
		{common.ErrServiceUnavailable, codes.Unavailable},
		{fmt.Errorf("wrap: %w", common.ErrorNotFound), codes.NotFound},
		{errors.New("anything"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, status.Code(toStatus(tt.err)), tt.err.Error())
	}
}
