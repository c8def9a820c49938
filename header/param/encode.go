package param

import (
	"regexp"
	"strings"

	"github.com/zostay/go-hdrenc/header/field"
)

// tspecials are the characters that force a parameter value to be quoted.
var tspecials = regexp.MustCompile(`[ ()<>@,;:\\"/\[\]?=]`)

// WordEncoder is the charset-word encoding primitive used to escape parameter
// values that are not 7-bit clean. *field.WordEncoder implements it.
type WordEncoder interface {
	EncodeWords(text, charset, headerName, splitChars string) (string, error)
}

// quote backslash escapes backslashes and double quotes.
func quote(s string) string {
	if !strings.ContainsAny(s, `\"`) {
		return s
	}
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// Format returns name=value, quoting the value when it contains any special
// characters. A parameter with an empty value is written as the bare name.
func Format(name, value string) string {
	if value == "" {
		return name
	}

	if tspecials.MatchString(value) {
		return name + `="` + quote(value) + `"`
	}

	return name + "=" + value
}

// Encode formats a single parameter for the named header. Values that are
// 7-bit clean are formatted as-is. Anything else, including values holding a
// line break, is first turned into UTF-8 encoded words by the given encoder
// (field.DefaultWordEncoder when nil), so the returned fragment never holds an
// 8-bit byte or a bare line break.
//
// The parameter name is not checked.
func Encode(headerName, name, value string, we WordEncoder) (string, error) {
	if field.Representable(field.ASCII, value) && !strings.ContainsAny(value, "\r\n") {
		return Format(name, value), nil
	}

	if we == nil {
		we = field.DefaultWordEncoder
	}

	enc, err := we.EncodeWords(value, field.UTF8, headerName, field.DefaultSplitChars)
	if err != nil {
		return "", err
	}

	return Format(name, enc), nil
}
