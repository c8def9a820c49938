package field

import (
	"mime"
	"strings"
)

// WordEncoder turns header text into a header field body that is safe to
// write: text representable in the requested charset is folded as-is when the
// charset is ASCII, and turned into b-type encoded words otherwise. The zero
// value folds with DefaultFoldEncoding and CRLF.
type WordEncoder struct {
	// Fold is the fold encoding used to break long bodies. Nil means
	// DefaultFoldEncoding.
	Fold *FoldEncoding

	// Break is the line break placed between folded lines. The zero value,
	// Meh, means CRLF.
	Break Break
}

// DefaultWordEncoder folds using the default settings.
var DefaultWordEncoder = &WordEncoder{}

func (we *WordEncoder) fold() *FoldEncoding {
	if we == nil || we.Fold == nil {
		return DefaultFoldEncoding
	}
	return we.Fold
}

func (we *WordEncoder) lineBreak() Break {
	if we == nil || we.Break == Meh {
		return CRLF
	}
	return we.Break
}

// EncodeWords encodes text in the given charset and folds the result. The
// header name is only used to work out how much room the first line has; it is
// not part of the returned body. The split characters are the characters at
// which the body prefers to be folded (DefaultSplitChars when empty).
//
// For the ASCII charset, the text itself is the body. It returns
// ErrNotRepresentable if the text is not 7-bit. For any other charset, the
// text is converted to that charset and written as one or more encoded words.
// The returned body never contains 8-bit bytes.
func (we *WordEncoder) EncodeWords(text, charset, headerName, splitChars string) (string, error) {
	if splitChars == "" {
		splitChars = DefaultSplitChars
	}

	var body string
	switch cs := normalizeCharset(charset); cs {
	case ASCII:
		if !Representable(ASCII, text) {
			return "", ErrNotRepresentable
		}
		body = text
	case UTF8:
		body = encodeWords(UTF8, text)
	default:
		b, err := CharsetEncoder(cs, text)
		if err != nil {
			return "", err
		}
		body = encodeWords(cs, string(b))
	}

	return we.FoldBody(headerName, body, splitChars), nil
}

// encodeWords writes s as encoded words. Printable ASCII is left alone by the
// mime package, which is fine since it is already safe.
func encodeWords(charset, s string) string {
	return mime.BEncoding.Encode(charset, s)
}

// lineBreaks replaces every kind of line break with a plain LF.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ContinueBreaks turns every line break in s, of whatever kind, into a fold:
// the encoder's line break followed by the fold indent. Leading whitespace of
// each following line is dropped and lines left empty are removed, so the
// text can never start a new header field.
func (we *WordEncoder) ContinueBreaks(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}

	lines := strings.Split(lineBreaks.Replace(s), "\n")
	out := lines[:1]
	for _, line := range lines[1:] {
		line = strings.TrimLeft(line, " \t")
		if line != "" {
			out = append(out, line)
		}
	}

	return strings.Join(out, we.lineBreak().String()+we.fold().foldIndent)
}

// FoldBody folds an already safe header body as it would appear after
// "headerName: " and returns just the folded body. Line breaks already in the
// body become folds (see ContinueBreaks).
func (we *WordEncoder) FoldBody(headerName, body, splitChars string) string {
	if splitChars == "" {
		splitChars = DefaultSplitChars
	}

	prefix := headerName + ": "
	buf := &strings.Builder{}
	lb := we.lineBreak()

	// writing to a strings.Builder never fails
	_, _ = we.fold().FoldSplit(buf, []byte(prefix+we.ContinueBreaks(body)), lb, splitChars)

	folded := strings.TrimSuffix(buf.String(), lb.String())
	return strings.TrimPrefix(folded, prefix)
}
