package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadUntilBlank prints a prompt to w and hands every following line to fn
// until an empty line or EOF. It suits handheld scanners that type one
// code per line. A non-nil error from fn stops the loop and is returned.
func ReadUntilBlank(reader *bufio.Reader, prompt string, w io.Writer, fn func(line string) error) error {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return err
	}

	for {
		line, err := reader.ReadString('\n')
		text := strings.TrimRight(line, "\r\n")
		if text != "" {
			if ferr := fn(text); ferr != nil {
				return ferr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if text == "" {
			return nil
		}
	}
}
