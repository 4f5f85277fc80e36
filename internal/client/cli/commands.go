package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/api"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/client"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/filex"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/qrimage"
)

// pngScale is the pixels per module of PNGs written by the png command.
const pngScale = 8

var errUsage = errors.New("usage")

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}

// track records connectivity learned from a command result.
func (a *App) track(err error) error {
	if errors.Is(err, client.ErrUnavailable) {
		a.setMode(ModeOffline)
	}
	return err
}

func (a *App) Issue(ctx context.Context, args []string) error {
	withSnapshot := len(args) > 0 && args[0] == "-s"

	held, err := a.holder.Issue(ctx, withSnapshot)
	if err != nil {
		return a.track(err)
	}
	a.render(held)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	held, err := a.holder.Latest(ctx)
	if err != nil {
		if errors.Is(err, client.ErrLocalDataNotAvailable) || errors.Is(err, common.ErrTokenExpired) {
			return fmt.Errorf("%w; run 'issue' for a new code", err)
		}
		return err
	}
	a.render(held)
	return nil
}

// Watch keeps a fresh code on screen until Ctrl-C.
func (a *App) Watch(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintln(a.out, "Refreshing the access code automatically; press Ctrl-C to stop.")
	err := a.holder.Watch(ctx, a.render)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return a.track(err)
}

func (a *App) PNG(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("png <file>")
	}

	held, err := a.holder.Latest(ctx)
	if err != nil {
		return err
	}

	b, err := qrimage.PNG(held.Payload, pngScale)
	if err != nil {
		return err
	}
	if err := filex.WriteFile(args[0], b, 0o600); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Wrote %s (valid until %s)\n", args[0], formatTime(held.ExpiresAt))
	return nil
}

func (a *App) Snapshot(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("snapshot <file>")
	}

	b, err := a.holder.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := filex.WriteFile(args[0], b, 0o600); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Wrote %s\n", args[0])
	return nil
}

// Scan validates one code given inline, or reads codes line by line.
func (a *App) Scan(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("scan <entry|exit> [code]")
	}
	scanType := common.ScanType(args[0])

	if len(args) > 1 {
		return a.scanOne(ctx, scanType, strings.Join(args[1:], " "))
	}

	if !scanType.Valid() {
		return usage("scan <entry|exit> [code]")
	}
	return ReadUntilBlank(a.reader, fmt.Sprintf("Scanning for %s", scanType), a.out, func(line string) error {
		return a.scanOne(ctx, scanType, line)
	})
}

func (a *App) scanOne(ctx context.Context, scanType common.ScanType, payload string) error {
	d, err := a.scanner.Scan(ctx, scanType, payload)
	if err != nil {
		return a.track(err)
	}
	a.printDecision(d)
	return nil
}

func (a *App) History(ctx context.Context, args []string) error {
	var (
		userID string
		limit  int
	)

	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			limit = n
			continue
		}
		userID = arg
	}

	scans, err := a.scanner.History(ctx, userID, limit)
	if err != nil {
		return a.track(err)
	}
	a.printScans(scans)
	return nil
}

func (a *App) Range(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("range <from> <to>")
	}

	from, err := parseTime(args[0])
	if err != nil {
		return err
	}
	to, err := parseTime(args[1])
	if err != nil {
		return err
	}

	scans, err := a.scanner.Range(ctx, from, to)
	if err != nil {
		return a.track(err)
	}
	a.printScans(scans)
	return nil
}

func (a *App) Correct(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("correct <scanId> <granted|denied> [reason]")
	}

	outcome := common.Outcome(args[1])
	reason := strings.Join(args[2:], " ")
	if outcome == common.OutcomeDenied && reason == "" {
		r, err := GetSimpleText(a.reader, "Reason for the denial?", a.out)
		if err != nil {
			return err
		}
		reason = r
	}

	l, err := a.scanner.Correct(ctx, args[0], outcome, reason)
	if err != nil {
		return a.track(err)
	}

	fmt.Fprintf(a.out, "Recorded correction %s for scan %s\n", l.ID, l.CorrectsID)
	return nil
}

func (a *App) Whoami(ctx context.Context, args []string) error {
	s, err := a.session.Whoami()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%s), token valid until %s\n", s.Identity.UserID, s.Identity.Role, formatTime(s.ExpiresAt))
	return nil
}

func (a *App) Forget(ctx context.Context, args []string) error {
	if err := a.holder.Forget(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Local cache cleared")
	return nil
}

// render prints held as terminal art when stdout is a terminal, and as the
// raw payload otherwise so it can be piped into another tool.
func (a *App) render(held *models.HeldToken) {
	if !isTerminal(a.out) {
		fmt.Fprintln(a.out, held.Payload)
		return
	}

	m, err := qrimage.Encode(held.Payload)
	if err != nil {
		fmt.Fprintln(a.out, held.Payload)
		return
	}

	fmt.Fprint(a.out, m.Terminal())
	fmt.Fprintf(a.out, "%s  v%d  valid until %s (%s left)\n",
		held.QRID, held.Version, formatTime(held.ExpiresAt), held.ExpiresAt.Sub(a.clock.Now()).Round(time.Second))
}

func (a *App) printDecision(d *api.ValidateScanResponse) {
	verdict := "DENIED"
	if d.Granted {
		verdict = "GRANTED"
	}

	line := verdict
	if d.FullName != "" {
		line += "  " + d.FullName
	}
	if d.Reason != "" {
		line += "  (" + d.Reason + ")"
	}
	if d.Duplicate {
		line += "  [repeat]"
	}
	fmt.Fprintln(a.out, line)
}

func (a *App) printScans(scans []api.ScanLog) {
	if len(scans) == 0 {
		fmt.Fprintln(a.out, "No scans")
		return
	}

	for _, s := range scans {
		line := fmt.Sprintf("%s  %-5s  %-7s  %s", formatTime(s.ScanTime), s.ScanType, s.Outcome, s.ID)
		if s.UserID != "" {
			line += "  user=" + s.UserID
		}
		if s.Reason != "" {
			line += "  reason=" + strconv.Quote(s.Reason)
		}
		if s.CorrectsID != "" {
			line += "  corrects=" + s.CorrectsID
		}
		fmt.Fprintln(a.out, line)
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// parseTime accepts RFC 3339 timestamps and plain dates (UTC midnight).
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is neither a date nor an RFC 3339 time", common.ErrInvalidArgument, s)
	}
	return t, nil
}
