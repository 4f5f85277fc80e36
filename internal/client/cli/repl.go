package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Issue(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Watch(ctx context.Context, args []string) error
	PNG(ctx context.Context, args []string) error
	Snapshot(ctx context.Context, args []string) error
	Scan(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Range(ctx context.Context, args []string) error
	Correct(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Forget(ctx context.Context, args []string) error
}

const helpText = `Holder commands:
  issue [-s]                 get a fresh access code (-s also stores a PNG snapshot)
  show                       show the cached access code
  watch                      keep the code fresh until Ctrl-C
  png <file>                 write the cached code as a PNG
  snapshot <file>            download the stored PNG snapshot
Scanner commands:
  scan <entry|exit> [code]   validate a code (without one, read codes line by line)
  history [userId] [limit]   recent scans, newest first
  range <from> <to>          scans in [from, to), dates or RFC 3339 times
  correct <scanId> <granted|denied> [reason]
Other:
  whoami, forget, help, exit`

// runREPL reads commands from reader until EOF or "exit"/"quit".
//
// The first word of a line selects the command and the rest are its
// arguments. Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("lib %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "issue":
			cmdErr = a.Issue(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "watch":
			cmdErr = a.Watch(ctx, args)
		case "png":
			cmdErr = a.PNG(ctx, args)
		case "snapshot":
			cmdErr = a.Snapshot(ctx, args)
		case "scan":
			cmdErr = a.Scan(ctx, args)
		case "history":
			cmdErr = a.History(ctx, args)
		case "range":
			cmdErr = a.Range(ctx, args)
		case "correct":
			cmdErr = a.Correct(ctx, args)
		case "whoami":
			cmdErr = a.Whoami(ctx, args)
		case "forget":
			cmdErr = a.Forget(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}

		if err != nil {
			return
		}
	}
}
