package scanner

import (
	"bufio"
	"bytes"

	"github.com/zostay/go-hdrenc/header/field"
)

// ScanFields returns a bufio.SplitFunc that splits a raw header block into
// complete header fields. Each token is one field line together with its
// continuation lines, line breaks included, ready for field.Parse.
//
// Continuation lines at the very start, before any field, are skipped. The
// scan stops at the first blank line, so any body that follows is left
// unread.
func ScanFields(lb field.Break) bufio.SplitFunc {
	nl := lb.Bytes()

	// lineEnd returns the length of the first line of data including its
	// break, or -1 if more data is needed to find it.
	lineEnd := func(data []byte, atEOF bool) int {
		if ix := bytes.Index(data, nl); ix >= 0 {
			return ix + len(nl)
		}
		if atEOF {
			return len(data)
		}
		return -1
	}

	return MakeSplitFuncExitByAdvance(func(data []byte, atEOF bool) (int, []byte, error) {
		if len(data) == 0 {
			return 0, nil, nil
		}

		end := lineEnd(data, atEOF)
		if end < 0 {
			return 0, nil, nil
		}

		if bytes.Equal(data[:end], nl) {
			return end, nil, bufio.ErrFinalToken
		}

		// junk before the first field
		if field.IsContinuation(data[:end]) {
			return end, nil, ErrContinue
		}

		for end < len(data) {
			n := lineEnd(data[end:], atEOF)
			if n < 0 {
				return 0, nil, nil
			}

			line := data[end : end+n]
			if bytes.Equal(line, nl) || !field.IsContinuation(line) {
				return end, data[:end], nil
			}

			end += n
		}

		// the next line may yet continue this field
		if !atEOF {
			return 0, nil, nil
		}

		return end, data[:end], nil
	})
}
