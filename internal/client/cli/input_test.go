package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  tailgating \n"), "Reason?", &out)
	require.NoError(t, err)
	assert.Equal(t, "tailgating", got)
	assert.Equal(t, "Reason?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestReadUntilBlank(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "stops on empty line",
			input:    "a\nb\n\nc\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "CRLF line endings",
			input:    "a\r\nb\r\n\r\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "immediate blank line",
			input:    "\n",
			expected: nil,
		},
		{
			name:     "EOF without trailing newline",
			input:    "a\nb",
			expected: []string{"a", "b"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			err := ReadUntilBlank(rdr(tc.input), "Scan codes", &bytes.Buffer{}, func(line string) error {
				got = append(got, line)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestReadUntilBlank_StopsOnCallbackError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	err := ReadUntilBlank(rdr("a\nb\n\n"), "Scan codes", &bytes.Buffer{}, func(string) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
