package scanner_test

import (
	"bufio"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-hdrenc/header/field"
	"github.com/zostay/go-hdrenc/internal/scanner"
)

func scanAll(t *testing.T, in string, lb field.Break) []string {
	t.Helper()

	s := bufio.NewScanner(iotest.OneByteReader(strings.NewReader(in)))
	s.Buffer(make([]byte, 4), 4096)
	s.Split(scanner.ScanFields(lb))

	var out []string
	for s.Scan() {
		out = append(out, s.Text())
	}
	require.NoError(t, s.Err())
	return out
}

func TestScanFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		lb   field.Break
		want []string
	}{
		{
			name: "simple",
			in:   "Subject: hi\nTo: a@example.com\n",
			lb:   field.LF,
			want: []string{"Subject: hi\n", "To: a@example.com\n"},
		},
		{
			name: "continuations",
			in:   "To: a@example.com,\n b@example.com\nSubject: one\n\ttwo\n",
			lb:   field.LF,
			want: []string{"To: a@example.com,\n b@example.com\n", "Subject: one\n\ttwo\n"},
		},
		{
			name: "stops at blank line",
			in:   "A: b\r\nC: d\r\n\r\nE: body text\r\n",
			lb:   field.CRLF,
			want: []string{"A: b\r\n", "C: d\r\n"},
		},
		{
			name: "no final break",
			in:   "A: b\nC: d",
			lb:   field.LF,
			want: []string{"A: b\n", "C: d"},
		},
		{
			name: "junk start",
			in:   " junk\nmore junk\nA: b\n",
			lb:   field.LF,
			want: []string{"A: b\n"},
		},
		{
			name: "only junk",
			in:   " junk\n",
			lb:   field.LF,
			want: nil,
		},
		{
			name: "empty",
			in:   "",
			lb:   field.LF,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, scanAll(t, tt.in, tt.lb))
		})
	}
}

func TestScanFields_Parse(t *testing.T) {
	t.Parallel()

	toks := scanAll(t, "Subject: =?utf-8?b?Y2Fmw6k=?=\n  and more\n", field.LF)
	require.Len(t, toks, 1)

	f := field.Parse(field.Line(toks[0]), field.LF)
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "café  and more", f.Body())
}

func TestMakeSplitFuncExitByAdvance(t *testing.T) {
	t.Parallel()

	// keep only the words starting with "x"
	split := scanner.MakeSplitFuncExitByAdvance(func(data []byte, atEOF bool) (int, []byte, error) {
		advance, tok, err := bufio.ScanWords(data, atEOF)
		if err != nil || tok == nil {
			return advance, tok, err
		}
		if !strings.HasPrefix(string(tok), "x") {
			return advance, nil, scanner.ErrContinue
		}
		return advance, tok, nil
	})

	s := bufio.NewScanner(strings.NewReader("a xb c d xe f"))
	s.Split(split)

	var out []string
	for s.Scan() {
		out = append(out, s.Text())
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []string{"xb", "xe"}, out)
}
