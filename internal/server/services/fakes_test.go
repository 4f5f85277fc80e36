package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/dbx"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/logging"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/qrtoken"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/repositories/scanlogs"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/repositories/users"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
	"github.com/stretchr/testify/require"
)

const testQRSecret = "library-access-shared-secret"

// --- fake users repository ---

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*models.User

	getErr  error
	markErr error
	block   bool // GetByID waits for ctx when set

	marked []string
}

func newFakeUsers(us ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[string]*models.User)}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.byID[u.ID] = &cp
	return &cp, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) IncrementQRVersion(_ context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.QRVersion++
	return u.QRVersion, nil
}

func (f *fakeUsers) SaveLatestToken(_ context.Context, id, qrID, payload string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LatestQRID = qrID
	u.LatestQRPayload = payload
	u.LatestQRExpiresAt = &expiresAt
	return nil
}

func (f *fakeUsers) MarkSubscriptionExpired(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	if f.markErr != nil {
		return f.markErr
	}
	if u, ok := f.byID[id]; ok {
		u.SubscriptionStatus = models.SubscriptionExpired
	}
	return nil
}

func (f *fakeUsers) update(id string, fn func(u *models.User)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.byID[id])
}

// --- fake scan log repository ---

type fakeScanLogs struct {
	mu        sync.Mutex
	rows      []models.ScanLog
	insertErr error
	lastLimit int
}

func (f *fakeScanLogs) Insert(_ context.Context, l *models.ScanLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, *l)
	return nil
}

func (f *fakeScanLogs) GetByID(_ context.Context, id string) (*models.ScanLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeScanLogs) ListByUser(_ context.Context, userID string, limit int) ([]models.ScanLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	var out []models.ScanLog
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScanTime.After(out[j].ScanTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeScanLogs) ListByRange(_ context.Context, from, to time.Time) ([]models.ScanLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ScanLog
	for _, r := range f.rows {
		if !r.ScanTime.Before(from) && r.ScanTime.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeScanLogs) all() []models.ScanLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ScanLog(nil), f.rows...)
}

// --- fake repository manager ---

type fakeRepoManager struct {
	users *fakeUsers
	scans *fakeScanLogs
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoManager) ScanLogs(dbx.DBTX) scanlogs.Repository        { return m.scans }

// --- fake snapshot store ---

type fakeSnapshots struct {
	puts   map[string][]byte
	putErr error
}

func (f *fakeSnapshots) Put(_ context.Context, key string, png []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.puts == nil {
		f.puts = make(map[string][]byte)
	}
	f.puts[key] = png
	return nil
}

func (f *fakeSnapshots) PresignGet(_ context.Context, key string) (string, error) {
	if _, ok := f.puts[key]; !ok {
		return "", errors.New("no such key")
	}
	return "https://snapshots.example/" + key + "?sig=1", nil
}

// --- environment ---

var testNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func subscriptionEnd(s string) *time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func activeUser(id string) *models.User {
	return &models.User{
		ID:                 id,
		Email:              id + "@library.test",
		FullName:           "Holder " + id,
		Role:               common.RoleStudent,
		Status:             models.StatusVerified,
		SubscriptionEnd:    subscriptionEnd("2025-01-01"),
		SubscriptionStatus: models.SubscriptionActive,
	}
}

type testEnv struct {
	db        *sql.DB
	mock      sqlmock.Sqlmock
	clock     *timex.FakeClock
	users     *fakeUsers
	scans     *fakeScanLogs
	rm        *fakeRepoManager
	codec     *qrtoken.Codec
	issuer    *qrtoken.Issuer
	recorder  *ScanRecorder
	snapshots *fakeSnapshots
}

func newTestEnv(t *testing.T, us ...*models.User) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	codec, err := qrtoken.NewCodec(testQRSecret)
	require.NoError(t, err)

	clock := timex.NewFake(testNow)
	rm := &fakeRepoManager{users: newFakeUsers(us...), scans: &fakeScanLogs{}}

	return &testEnv{
		db:        db,
		mock:      mock,
		clock:     clock,
		users:     rm.users,
		scans:     rm.scans,
		rm:        rm,
		codec:     codec,
		issuer:    qrtoken.NewIssuer(codec, clock, 5*time.Minute, 2*time.Minute),
		recorder:  NewScanRecorder(db, rm, clock),
		snapshots: &fakeSnapshots{},
	}
}

func (e *testEnv) issuerService() *IssuerService {
	return NewIssuerService(e.db, e.rm, e.issuer, e.snapshots, 4, e.clock, logging.Discard())
}

func (e *testEnv) validator(opts ValidatorOptions) *ValidatorService {
	return NewValidatorService(e.db, e.rm, e.codec, e.recorder, e.clock, logging.Discard(), opts)
}

func defaultValidatorOptions() ValidatorOptions {
	return ValidatorOptions{DedupeWindow: 2 * time.Second, LookupTimeout: 3 * time.Second}
}

// issue mints a token for userID through IssuerService and returns its payload.
func (e *testEnv) issue(t *testing.T, userID string) *IssueResult {
	t.Helper()
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
	res, err := e.issuerService().Issue(context.Background(), userID, false)
	require.NoError(t, err)
	require.NoError(t, e.mock.ExpectationsWereMet())
	return res
}
