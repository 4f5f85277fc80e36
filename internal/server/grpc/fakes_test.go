package grpc

import (
	"context"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/logging"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/auth"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/services"
)

const testSecret = "k"

type fakeIssuer struct {
	res          *services.IssueResult
	err          error
	gotUserID    string
	gotSnapshots bool
}

func (f *fakeIssuer) Issue(_ context.Context, userID string, withSnapshot bool) (*services.IssueResult, error) {
	f.gotUserID = userID
	f.gotSnapshots = withSnapshot
	return f.res, f.err
}

type fakeValidator struct {
	decision *services.Decision
	err      error
	got      services.ScanRequest
}

func (f *fakeValidator) Validate(_ context.Context, req services.ScanRequest) (*services.Decision, error) {
	f.got = req
	return f.decision, f.err
}

type fakeRecorder struct {
	logs []models.ScanLog
	err  error

	gotUserID string
	gotLimit  int
	gotFrom   time.Time
	gotTo     time.Time

	corrected *models.ScanLog
	gotAdmin  string
}

func (f *fakeRecorder) History(_ context.Context, userID string, limit int) ([]models.ScanLog, error) {
	f.gotUserID, f.gotLimit = userID, limit
	return f.logs, f.err
}

func (f *fakeRecorder) Range(_ context.Context, from, to time.Time) ([]models.ScanLog, error) {
	f.gotFrom, f.gotTo = from, to
	return f.logs, f.err
}

func (f *fakeRecorder) Correct(_ context.Context, originalID, adminID string, outcome common.Outcome, reason string) (*models.ScanLog, error) {
	f.gotAdmin = adminID
	if f.err != nil {
		return nil, f.err
	}
	return f.corrected, nil
}

func newServer(is issuerService, vs validatorService, rs recorderService) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Discard(), is, vs, rs, testSecret, "v-test")
}

func holderCtx() context.Context {
	return withIdentity(context.Background(), auth.Identity{UserID: "u1", Role: common.RoleStudent})
}

func adminCtx() context.Context {
	return withIdentity(context.Background(), auth.Identity{UserID: "admin-1", Role: common.RoleAdmin})
}
