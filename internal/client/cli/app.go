package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/client"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/config"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/services"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/filex"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/logging"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/qrtoken"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
	"golang.org/x/term"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// cacheFileName is the SQLite file inside the data directory.
const cacheFileName = "cache.db"

// isTerminal is a test seam for term.IsTerminal on the output stream.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type App struct {
	config  *config.Config
	db      *sql.DB
	session services.SessionService
	holder  services.HolderService
	scanner services.ScannerService
	clock   timex.Clock
	out     io.Writer
	reader  *bufio.Reader

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local cache under c.DataDir, connects to the gateway
// and wires the services. A QR secret in c enables local decoding of
// issued codes.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, cacheFileName))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var codec *qrtoken.Codec
	if c.QRSecret != "" {
		codec, err = qrtoken.NewCodec(c.QRSecret)
		if err != nil {
			_ = db.Close()
			_ = apiClient.Close()
			return nil, fmt.Errorf("qr secret: %w", err)
		}
	}

	logger := logging.NewJSONLogger(os.Stderr, slog.LevelWarn)
	clock := timex.Real()

	a := &App{
		config:  c,
		db:      db,
		session: services.NewSessionService(apiClient, c.AccessToken),
		holder:  services.NewHolderService(apiClient, db, codec, c.AccessToken, clock, logger),
		scanner: services.NewScannerService(apiClient, c.Location, logger),
		clock:   clock,
		out:     os.Stdout,
		reader:  bufio.NewReader(os.Stdin),
	}
	return a, nil
}

// Mode returns the last observed connectivity state.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) status() string {
	if m := a.Mode(); m != "" {
		return fmt.Sprintf("(%s)", m)
	}
	return ""
}

// Run starts the connectivity watcher and the REPL, and blocks until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	defer a.session.Close(ctx)

	fmt.Fprintln(a.out, "Library access CLI (type 'help' for commands)")
	if s, err := a.session.Whoami(); err == nil {
		fmt.Fprintf(a.out, "Signed in as %s (%s)\n", s.Identity.UserID, s.Identity.Role)
	}

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := a.session.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the gateway every interval until ctx is
// done and flips the mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
