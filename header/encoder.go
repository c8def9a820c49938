package header

import (
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"braces.dev/errtrace"

	"github.com/zostay/go-hdrenc/header/address"
	"github.com/zostay/go-hdrenc/header/field"
	"github.com/zostay/go-hdrenc/header/param"
	"github.com/zostay/go-hdrenc/internal/log"
)

// Errors returned while encoding.
var (
	// ErrNestedMulti is returned when a Multi holds another Multi.
	ErrNestedMulti = errors.New("multi value may not contain another multi value")

	// ErrUnsupportedValue is returned when a value is not one of the Value
	// types this package knows how to encode.
	ErrUnsupportedValue = errors.New("unsupported header value")
)

// Encoder encodes header values. Its configuration is fixed by New, so a
// single Encoder may be shared between goroutines.
type Encoder struct {
	logger *slog.Logger
	parser address.Parser
	words  *field.WordEncoder
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithLogger sets the logger used to report encoding failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Encoder) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithAddressParser sets the parser used for address headers.
func WithAddressParser(p address.Parser) Option {
	return func(e *Encoder) {
		if p != nil {
			e.parser = p
		}
	}
}

// WithFoldEncoding sets the fold encoding used for unstructured text and
// encoded words.
func WithFoldEncoding(vf *field.FoldEncoding) Option {
	return func(e *Encoder) {
		e.words.Fold = vf
	}
}

// WithBreak sets the line break placed between folded lines. The default is
// CRLF.
func WithBreak(lb field.Break) Option {
	return func(e *Encoder) {
		e.words.Break = lb
	}
}

// New returns an Encoder configured with the given options.
func New(opts ...Option) *Encoder {
	e := &Encoder{
		logger: log.Def,
		parser: address.Default,
		words:  &field.WordEncoder{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// defaultEncoder backs the package-level functions.
var defaultEncoder = New()

// ToMIME encodes v for the named header with the default Encoder.
func ToMIME(name string, v Value) (string, error) {
	return defaultEncoder.ToMIME(name, v)
}

// Encode encodes a single value for the named header with the default
// Encoder.
func Encode(name string, v Value) (string, error) {
	return defaultEncoder.Encode(name, v)
}

// ToMIME encodes v for the named header. Empty values give an empty string.
// The elements of a Multi are encoded in order and joined with "; ".
func (e *Encoder) ToMIME(name string, v Value) (string, error) {
	if isEmpty(v) {
		return "", nil
	}

	m, ok := v.(Multi)
	if !ok {
		return e.Encode(name, v)
	}

	out := make([]string, 0, len(m))
	for _, mv := range m {
		s, err := e.Encode(name, mv)
		if err != nil {
			return "", err
		}
		out = append(out, s)
	}

	return strings.Join(out, "; "), nil
}

// Encode encodes a single Plain or Parametrized value for the named header.
// Failures are logged along with the header and value and then returned.
func (e *Encoder) Encode(name string, v Value) (string, error) {
	s, err := e.encode(name, v)
	if err != nil {
		e.logger.Error("failed to encode header value",
			slog.String("header", name),
			slog.Any("value", v),
			slog.Any("error", err),
		)
		return "", err
	}
	return s, nil
}

func (e *Encoder) encode(name string, v Value) (string, error) {
	switch v := v.(type) {
	case Parametrized:
		return e.EncodeParametrized(name, v.Value, v.Params)
	case Plain:
		return e.EncodeUnstructured(name, string(v))
	case Multi:
		return "", ErrNestedMulti
	default:
		return "", ErrUnsupportedValue
	}
}

// EncodeUnstructured encodes free text. Text over MaxHeaderLength characters
// is returned unchanged. Otherwise 7-bit text is folded as-is, address header
// values are handed to EncodeAddressHeader, and anything else becomes folded
// UTF-8 encoded words.
func (e *Encoder) EncodeUnstructured(name, value string) (string, error) {
	if utf8.RuneCountInString(value) > MaxHeaderLength {
		return value, nil
	}

	if field.Representable(field.ASCII, value) {
		return e.words.EncodeWords(value, field.ASCII, name, field.DefaultSplitChars)
	}

	if IsAddressHeader(name, value) {
		return e.EncodeAddressHeader(name, value)
	}

	return e.words.EncodeWords(value, field.UTF8, name, field.DefaultSplitChars)
}

// EncodeAddressHeader parses value as an address list and writes each address
// in its 7-bit form, or as Unicode when the address cannot be written in 7-bit
// form at all. Addresses are joined with "; " in the order given.
func (e *Encoder) EncodeAddressHeader(name, value string) (string, error) {
	as, err := e.parser.ParseList(value)
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	out := make([]string, len(as))
	for i, a := range as {
		if a.RequiresNonASCII() {
			out[i] = a.Unicode()
		} else {
			out[i] = a.FullSpec()
		}
	}

	return strings.Join(out, "; "), nil
}

// EncodeParametrized writes the value followed by each parameter, in order,
// separated by "; ". A value without parameters is returned unchanged, apart
// from any line breaks in it, which become folds.
func (e *Encoder) EncodeParametrized(name, value string, params param.List) (string, error) {
	value = e.words.ContinueBreaks(value)
	if len(params) == 0 {
		return value, nil
	}

	out := make([]string, 0, len(params)+1)
	out = append(out, value)
	for _, p := range params {
		s, err := param.Encode(name, p.Name, p.Value, e.words)
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		out = append(out, s)
	}

	return strings.Join(out, "; "), nil
}

// EncodeString encodes value for the named header as 7-bit text if possible
// and as UTF-8 encoded words otherwise, folding lines at maxLineLen. A
// maxLineLen of 0 uses the Encoder's own fold encoding and field.DoNotFold
// turns folding off. There is no length
// limit and no special handling of address headers.
func (e *Encoder) EncodeString(name, value string, maxLineLen int) (string, error) {
	we := e.words
	if maxLineLen != 0 {
		forced := field.DoNotFold
		if maxLineLen != field.DoNotFold {
			forced = max(maxLineLen, field.DefaultForcedFoldLength)
		}
		vf, err := field.NewFoldEncoding(field.DefaultFoldIndent, maxLineLen, forced)
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		we = &field.WordEncoder{Fold: vf, Break: e.words.Break}
	}

	if field.Representable(field.ASCII, value) {
		return we.EncodeWords(value, field.ASCII, name, field.DefaultSplitChars)
	}
	return we.EncodeWords(value, field.UTF8, name, field.DefaultSplitChars)
}

// EncodeString encodes value with the default Encoder. See
// Encoder.EncodeString.
func EncodeString(name, value string, maxLineLen int) (string, error) {
	return defaultEncoder.EncodeString(name, value, maxLineLen)
}
