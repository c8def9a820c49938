package field

import (
	"bytes"
)

// BadStartError is returned when the header begins with junk text that does not
// appear to be a header. This text is preserved in the error object.
type BadStartError struct {
	BadStart []byte // the text skipped at the start of header
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// Line represents the unparsed content for a complete header field line,
// including any continuation lines.
type Line []byte

// Lines represents the unparsed content for zero or more header field
// lines.
type Lines []Line

// IsContinuation returns true if the given physical line continues the header
// field started on an earlier line. That is the case when it starts with a
// space or tab or when it contains no colon at all.
func IsContinuation(line []byte) bool {
	return len(line) > 0 &&
		(isSpace(rune(line[0])) || !bytes.Contains(line, []byte(":")))
}

// ParseLines splits the given input into lines according to the rules we use to
// determine how to break header fields up inside a header. The input bytes are
// expected to include only the header.
//
// This is lenient in the same way a mail reader has to be: if the first line
// (or lines) start with spaces or contain no colons, they are skipped and a
// BadStartError holding them is returned along with the rest of the lines.
func ParseLines(m []byte, lb Break) (Lines, error) {
	h := make(Lines, 0, len(m)/80)
	var err *BadStartError
	for _, line := range bytes.SplitAfter(m, lb.Bytes()) {
		if len(line) == 0 {
			break
		}
		if IsContinuation(line) {
			if len(h) == 0 {
				if err != nil {
					err.BadStart = append(err.BadStart, line...)
				} else {
					err = &BadStartError{line}
				}
				continue
			}

			h[len(h)-1] = append(h[len(h)-1], line...)
		} else {
			h = append(h, line)
		}
	}

	if err != nil {
		return h, err
	}
	return h, nil
}

// Parse will take a single header field line, including any folded continuation
// lines, and construct a Field from it. The body is unfolded, trimmed, and any
// encoded words in it are decoded. If decoding fails, the body is kept as-is.
func Parse(f Line, lb Break) *Field {
	rawField := bytes.TrimRight(f, lb.String())

	off := 1
	ix := bytes.IndexByte(rawField, ':')
	if ix < 0 {
		ix = len(rawField)
		off = 0
	}

	name := string(DefaultFoldEncoding.Unfold(rawField[:ix]))
	body := string(bytes.TrimSpace(DefaultFoldEncoding.Unfold(rawField[ix+off:])))
	if decBody, err := Decode(body); err == nil {
		body = decBody
	}

	return &Field{name, body}
}
