package field

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Charsets the word encoder knows without consulting the IANA index.
const (
	ASCII = "us-ascii"
	UTF8  = "utf-8"
)

var (
	// ErrNotRepresentable is returned when text is asked to be written in a
	// charset that cannot hold all of its characters.
	ErrNotRepresentable = errors.New("text is not representable in charset")

	// ErrUnknownCharset is returned when a charset name is not known to the
	// IANA index.
	ErrUnknownCharset = errors.New("unknown charset")
)

// normalizeCharset maps the common aliases of the two built-in charsets to
// their canonical names and lowercases everything else.
func normalizeCharset(charset string) string {
	switch cs := strings.ToLower(charset); cs {
	case "ascii", "us-ascii", "":
		return ASCII
	case "utf8", "utf-8":
		return UTF8
	default:
		return cs
	}
}

// isASCII returns true if every byte of s is 7-bit.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Representable reports whether s can be written in the named charset without
// loss. This is the predicate used to pick an encoding strategy before any
// encoding is attempted.
func Representable(charset, s string) bool {
	switch normalizeCharset(charset) {
	case ASCII:
		return isASCII(s)
	case UTF8:
		return utf8.ValidString(s)
	}

	_, err := CharsetEncoder(charset, s)
	return err == nil
}

// CharsetEncoder converts a native UTF-8 string into the bytes of the named
// charset. It fails if the charset is unknown or any character of s has no
// representation in it.
func CharsetEncoder(charset, s string) ([]byte, error) {
	switch normalizeCharset(charset) {
	case ASCII:
		if !isASCII(s) {
			return nil, ErrNotRepresentable
		}
		return []byte(s), nil
	case UTF8:
		return []byte(s), nil
	}

	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownCharset, charset, err)
	}

	if e == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownCharset, charset)
	}

	es, err := e.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRepresentable, err)
	}

	return []byte(es), nil
}

// CharsetDecoder converts the bytes of the named charset into a native UTF-8
// string.
func CharsetDecoder(charset string, b []byte) (string, error) {
	switch normalizeCharset(charset) {
	case ASCII, UTF8:
		return string(b), nil
	}

	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrUnknownCharset, charset, err)
	}

	if e == nil {
		return "", fmt.Errorf("%w %q", ErrUnknownCharset, charset)
	}

	eb, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(eb), nil
}

// charsetReader adapts CharsetDecoder to the mime.WordDecoder hook.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	b, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}

	s, err := CharsetDecoder(charset, b)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader([]byte(s)), nil
}

// Encode transforms a single header field body into b-type (Base-64) encoded
// words using UTF-8 as the character set. It does no folding. Text that needs
// no encoding is returned unchanged.
func Encode(body string) string {
	return mime.BEncoding.Encode(UTF8, body)
}

// Decode transforms a single header field body and looks for MIME word encoded
// field values. When they are found, these are decoded into native unicode.
func Decode(body string) (string, error) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}

	dec := &mime.WordDecoder{CharsetReader: charsetReader}
	return dec.DecodeHeader(body)
}
