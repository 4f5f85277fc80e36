package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/api"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/config"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/services"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/auth"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
)

var testNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

type fakeHolder struct {
	held        *models.HeldToken
	err         error
	snapshot    []byte
	watchTokens int
	issued      []bool
	forgotten   bool
}

func (f *fakeHolder) Issue(ctx context.Context, withSnapshot bool) (*models.HeldToken, error) {
	f.issued = append(f.issued, withSnapshot)
	return f.held, f.err
}

func (f *fakeHolder) Latest(ctx context.Context) (*models.HeldToken, error) { return f.held, f.err }

func (f *fakeHolder) Watch(ctx context.Context, fn func(*models.HeldToken)) error {
	if f.err != nil {
		return f.err
	}
	for i := 0; i < f.watchTokens; i++ {
		fn(f.held)
	}
	return context.Canceled
}

func (f *fakeHolder) Snapshot(ctx context.Context) ([]byte, error) { return f.snapshot, f.err }

func (f *fakeHolder) Forget(ctx context.Context) error {
	f.forgotten = true
	return f.err
}

type fakeScanner struct {
	decisions []*api.ValidateScanResponse
	scans     []api.ScanLog
	corrected *api.ScanLog
	err       error

	payloads []string
	types    []common.ScanType
	user     string
	limit    int
	from, to time.Time
	scanID   string
	outcome  common.Outcome
	reason   string
}

func (f *fakeScanner) Scan(ctx context.Context, scanType common.ScanType, payload string) (*api.ValidateScanResponse, error) {
	f.payloads = append(f.payloads, payload)
	f.types = append(f.types, scanType)
	if f.err != nil {
		return nil, f.err
	}
	d := f.decisions[0]
	if len(f.decisions) > 1 {
		f.decisions = f.decisions[1:]
	}
	return d, nil
}

func (f *fakeScanner) History(ctx context.Context, userID string, limit int) ([]api.ScanLog, error) {
	f.user, f.limit = userID, limit
	return f.scans, f.err
}

func (f *fakeScanner) Range(ctx context.Context, from, to time.Time) ([]api.ScanLog, error) {
	f.from, f.to = from, to
	return f.scans, f.err
}

func (f *fakeScanner) Correct(ctx context.Context, scanID string, outcome common.Outcome, reason string) (*api.ScanLog, error) {
	f.scanID, f.outcome, f.reason = scanID, outcome, reason
	return f.corrected, f.err
}

type fakeSession struct {
	session  services.Session
	err      error
	pingErr  error
	pings    int
	closedUp bool
}

func (f *fakeSession) Ping(ctx context.Context) (string, error) {
	f.pings++
	return "v1", f.pingErr
}

func (f *fakeSession) Whoami() (services.Session, error) { return f.session, f.err }

func (f *fakeSession) Close(ctx context.Context) error {
	f.closedUp = true
	return nil
}

type testApp struct {
	*App
	out     *bytes.Buffer
	holder  *fakeHolder
	scanner *fakeScanner
	session *fakeSession
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	out := &bytes.Buffer{}
	h := &fakeHolder{}
	s := &fakeScanner{}
	sess := &fakeSession{session: services.Session{
		Identity:  auth.Identity{UserID: "admin-1", Role: common.RoleAdmin},
		ExpiresAt: testNow.Add(time.Hour),
	}}

	a := &App{
		config:  &config.Config{OnlineCheckInterval: time.Hour},
		session: sess,
		holder:  h,
		scanner: s,
		clock:   timex.NewFake(testNow),
		out:     out,
		reader:  bufio.NewReader(strings.NewReader(input)),
	}
	return &testApp{App: a, out: out, holder: h, scanner: s, session: sess}
}

func heldToken() *models.HeldToken {
	return &models.HeldToken{
		Payload:     `{"data":"ZGF0YQ==","hash":"00","qrId":"qr_1","version":2,"expiresAt":"2025-01-01T09:05:00.000Z"}`,
		QRID:        "qr_1",
		Version:     2,
		GeneratedAt: testNow,
		ExpiresAt:   testNow.Add(5 * time.Minute),
		RefreshAt:   testNow.Add(3 * time.Minute),
	}
}

func setTerminal(t *testing.T, tty bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(io.Writer) bool { return tty }
	t.Cleanup(func() { isTerminal = orig })
}
