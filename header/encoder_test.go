package header_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/zostay/go-hdrenc/header"
	"github.com/zostay/go-hdrenc/header/address"
	"github.com/zostay/go-hdrenc/header/field"
	"github.com/zostay/go-hdrenc/header/param"
	"github.com/zostay/go-hdrenc/internal/log"
)

// stubParser returns a fixed list and counts how often it is asked.
type stubParser struct {
	as    []address.Address
	err   error
	calls atomic.Int32
}

func (p *stubParser) ParseList(string) ([]address.Address, error) {
	p.calls.Add(1)
	return p.as, p.err
}

func quietEncoder(opts ...header.Option) *header.Encoder {
	return header.New(append([]header.Option{header.WithLogger(log.Noop)}, opts...)...)
}

func TestToMIME_Empty(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	enc := header.New(header.WithLogger(slog.New(slog.NewJSONHandler(buf, nil))))

	for _, v := range []header.Value{
		nil,
		header.Plain(""),
		header.Multi{},
		header.Multi(nil),
		header.Parametrized{},
	} {
		for _, name := range []string{header.Subject, header.To, header.ContentType} {
			s, err := enc.ToMIME(name, v)
			assert.NoError(t, err)
			assert.Empty(t, s)
		}
	}

	assert.Empty(t, buf.String())
}

func TestToMIME_Plain(t *testing.T) {
	t.Parallel()

	enc := quietEncoder()

	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"ascii", header.Subject, "Hello, world", "Hello, world"},
		{"ascii address", header.To, "John <john@example.com>", "John <john@example.com>"},
		{"utf-8", header.Subject, "café", "=?utf-8?b?Y2Fmw6k=?="},
		{"utf-8 in address header without @", header.To, "Jöhn", "=?utf-8?b?SsO2aG4=?="},
		{"crlf", header.Subject, "a\r\nB: c", "a\r\n B: c"},
		{"bare lf", header.Subject, "a\nB: c", "a\r\n B: c"},
		{"header injection", header.Subject, "hello\r\nBcc: evil@x.com", "hello\r\n Bcc: evil@x.com"},
		{"header injection in address header", header.To, "a@x.com\nBcc: evil@x.com", "a@x.com\r\n Bcc: evil@x.com"},
		{
			"long ascii",
			header.Subject,
			strings.TrimSpace(strings.Repeat("abcdefghi ", 10)),
			strings.TrimSpace(strings.Repeat("abcdefghi ", 6)) + "\r\n " +
				strings.TrimSpace(strings.Repeat("abcdefghi ", 4)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := enc.ToMIME(tt.header, header.Plain(tt.value))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
			assertFolded(t, s)
		})
	}
}

// assertFolded checks that s cannot start a new header field: every line
// break is a CRLF and every line after the first starts with whitespace.
func assertFolded(t assert.TestingT, s string) {
	assert.Equal(t, strings.Count(s, "\r\n"), strings.Count(s, "\n"), s)
	assert.Equal(t, strings.Count(s, "\r\n"), strings.Count(s, "\r"), s)
	for _, line := range strings.Split(s, "\r\n")[1:] {
		assert.True(t, strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t"), line)
	}
}

func TestToMIME_LongUTF8(t *testing.T) {
	t.Parallel()

	v := strings.Repeat("Ünïcödé wörds ", 20)
	s, err := quietEncoder().ToMIME(header.Subject, header.Plain(v))
	require.NoError(t, err)

	// every line holds a single encoded word of at most 75 characters
	for _, line := range strings.Split(s, "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
		assert.NotContains(t, line, "é")
	}

	dec, err := field.Decode(strings.ReplaceAll(s, "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, v, dec)
}

func TestToMIME_LengthGuard(t *testing.T) {
	t.Parallel()

	p := &stubParser{}
	enc := quietEncoder(header.WithAddressParser(p))

	long := strings.Repeat("é", header.MaxHeaderLength+1)
	s, err := enc.ToMIME(header.Subject, header.Plain(long))
	require.NoError(t, err)
	assert.Equal(t, long, s)

	long = strings.Repeat("é", header.MaxHeaderLength) + "@x"
	s, err = enc.ToMIME(header.To, header.Plain(long))
	require.NoError(t, err)
	assert.Equal(t, long, s)
	assert.Zero(t, p.calls.Load())

	atLimit := strings.Repeat("é", header.MaxHeaderLength)
	s, err = enc.ToMIME(header.Subject, header.Plain(atLimit))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "=?utf-8?b?"))
}

func TestToMIME_Parametrized(t *testing.T) {
	t.Parallel()

	enc := quietEncoder()

	s, err := enc.ToMIME(header.ContentType, header.Parametrized{
		Value: "text/plain",
		Params: param.List{
			{Name: param.Charset, Value: "utf-8"},
			{Name: param.Name, Value: "résumé.txt"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `text/plain; charset=utf-8; name="=?utf-8?b?csOpc3Vtw6kudHh0?="`, s)

	s, err = enc.ToMIME(header.ContentDisposition, header.Parametrized{
		Value: "attachment",
		Params: param.List{
			{Name: param.Filename, Value: "my file.txt"},
			{Name: "size", Value: "12"},
			{Name: "size", Value: "13"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `attachment; filename="my file.txt"; size=12; size=13`, s)

	// line breaks in the base value become folds
	s, err = enc.ToMIME(header.ContentType, header.Parametrized{
		Value:  "text/plain\r\nBcc: evil@x.com",
		Params: param.List{{Name: param.Charset, Value: "utf-8"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain\r\n Bcc: evil@x.com; charset=utf-8", s)
	assertFolded(t, s)

	s, err = enc.ToMIME(header.ContentType, header.Parametrized{
		Value:  "text/plain",
		Params: param.List{{Name: param.Name, Value: "a\nBcc: evil@x.com"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, s, "\n")

	// no parameters leaves the value alone, whatever it holds
	s, err = enc.ToMIME(header.ContentType, header.Parametrized{Value: "tëxt/plain"})
	require.NoError(t, err)
	assert.Equal(t, "tëxt/plain", s)
}

func TestToMIME_Multi(t *testing.T) {
	t.Parallel()

	enc := quietEncoder()

	v1 := header.Plain("from a.example by b.example")
	v2 := header.Parametrized{
		Value:  "text/plain",
		Params: param.List{{Name: param.Charset, Value: "utf-8"}},
	}

	e1, err := enc.Encode(header.Received, v1)
	require.NoError(t, err)
	e2, err := enc.Encode(header.Received, v2)
	require.NoError(t, err)

	s, err := enc.ToMIME(header.Received, header.Multi{v1, v2})
	require.NoError(t, err)
	assert.Equal(t, e1+"; "+e2, s)
	assert.Equal(t, "from a.example by b.example; text/plain; charset=utf-8", s)

	s, err = enc.ToMIME(header.Received, header.Multi{header.Plain("one")})
	require.NoError(t, err)
	assert.Equal(t, "one", s)
}

func TestToMIME_AddressHeader(t *testing.T) {
	t.Parallel()

	p := &stubParser{
		as: []address.Address{
			address.NewMailbox("Jöhn", "john", "example.com"),
			address.NewMailbox("", "jane", "bücher.example"),
			address.NewMailbox("Zoë", "zoë", "example.com"),
		},
	}
	enc := quietEncoder(header.WithAddressParser(p))

	for _, name := range []string{
		header.From, header.To, header.DeliveredTo,
		header.Cc, header.Bcc, header.ReplyTo,
	} {
		s, err := enc.ToMIME(name, header.Plain("Jöhn <john@example.com>, ..."))
		require.NoError(t, err)
		assert.Equal(t,
			"=?utf-8?b?SsO2aG4=?= <john@example.com>; jane@xn--bcher-kva.example; Zoë <zoë@example.com>",
			s)
	}
	assert.Equal(t, int32(6), p.calls.Load())
}

func TestToMIME_AddressHeaderDefaultParser(t *testing.T) {
	t.Parallel()

	s, err := quietEncoder().ToMIME(header.To, header.Plain("Jöhn <jöhn@example.com>, jane@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Jöhn <jöhn@example.com>; jane@example.com", s)
}

func TestToMIME_NotAnAddressHeader(t *testing.T) {
	t.Parallel()

	p := &stubParser{}
	enc := quietEncoder(header.WithAddressParser(p))

	for _, name := range []string{header.Subject, "to", "X-To", header.Sender} {
		s, err := enc.ToMIME(name, header.Plain("café@x"))
		require.NoError(t, err)

		dec, err := field.Decode(s)
		require.NoError(t, err)
		assert.Equal(t, "café@x", dec)
	}

	assert.Zero(t, p.calls.Load())
}

func TestToMIME_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		value   header.Value
		parser  address.Parser
		wantErr error
	}{
		{
			name:    "nested multi",
			header:  header.Received,
			value:   header.Multi{header.Plain("a"), header.Multi{header.Plain("b")}},
			wantErr: header.ErrNestedMulti,
		},
		{
			name:    "nil in multi",
			header:  header.Received,
			value:   header.Multi{nil},
			wantErr: header.ErrUnsupportedValue,
		},
		{
			name:    "address parse failure",
			header:  header.To,
			value:   header.Plain("Jöhn <john@example.com"),
			parser:  &stubParser{err: fmt.Errorf("%w: unterminated", address.ErrParse)},
			wantErr: address.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			enc := header.New(
				header.WithLogger(slog.New(slog.NewJSONHandler(buf, nil))),
				header.WithAddressParser(tt.parser),
			)

			s, err := enc.ToMIME(tt.header, tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, s)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 1)

			var rec map[string]any
			require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
			assert.Equal(t, "ERROR", rec["level"])
			assert.Equal(t, tt.header, rec["header"])
			assert.Contains(t, rec, "value")
			assert.Contains(t, rec, "error")
		})
	}
}

func TestEncode_LogsValue(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	enc := header.New(
		header.WithLogger(slog.New(slog.NewJSONHandler(buf, nil))),
		header.WithAddressParser(&stubParser{err: address.ErrParse}),
	)

	_, err := enc.Encode(header.Cc, header.Plain("Zoë <zoe@example.com>"))
	require.ErrorIs(t, err, address.ErrParse)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Cc", rec["header"])
	assert.Equal(t, "Zoë <zoe@example.com>", rec["value"])
}

func TestEncoder_WithBreak(t *testing.T) {
	t.Parallel()

	enc := quietEncoder(header.WithBreak(field.LF))
	s, err := enc.ToMIME(header.Subject, header.Plain(strings.TrimSpace(strings.Repeat("abcdefghi ", 10))))
	require.NoError(t, err)
	assert.Equal(t,
		strings.TrimSpace(strings.Repeat("abcdefghi ", 6))+"\n "+
			strings.TrimSpace(strings.Repeat("abcdefghi ", 4)),
		s)
}

func TestEncoder_WithFoldEncoding(t *testing.T) {
	t.Parallel()

	s, err := quietEncoder(header.WithFoldEncoding(field.DoNotFoldEncoding)).
		ToMIME(header.Subject, header.Plain(strings.Repeat("abcdefghi ", 20)))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("abcdefghi ", 20), s)
}

func TestEncodeString(t *testing.T) {
	t.Parallel()

	s, err := header.EncodeString(header.Subject, "café", 0)
	require.NoError(t, err)
	assert.Equal(t, "=?utf-8?b?Y2Fmw6k=?=", s)

	// no length guard and no address handling
	p := &stubParser{}
	long := strings.Repeat("é", header.MaxHeaderLength+1) + "@x"
	s, err = quietEncoder(header.WithAddressParser(p)).EncodeString(header.To, long, 0)
	require.NoError(t, err)
	assert.NotEqual(t, long, s)
	assert.Zero(t, p.calls.Load())

	v := strings.TrimSpace(strings.Repeat("word ", 30))
	s, err = header.EncodeString(header.Subject, v, 40)
	require.NoError(t, err)
	lines := strings.Split(s, "\r\n")
	assert.Greater(t, len(lines), 3)
	for i, line := range lines {
		if i == 0 {
			line = header.Subject + ": " + line
		}
		assert.LessOrEqual(t, len(line), 40)
	}
	assert.Equal(t, v, strings.ReplaceAll(s, "\r\n", ""))

	s, err = header.EncodeString(header.Subject, "one\ntwo", 0)
	require.NoError(t, err)
	assert.Equal(t, "one\r\n two", s)

	s, err = header.EncodeString(header.Subject, v, field.DoNotFold)
	require.NoError(t, err)
	assert.Equal(t, v, s)

	_, err = header.EncodeString(header.Subject, v, 1)
	assert.ErrorIs(t, err, field.ErrFoldIndentTooLong)
}

func TestEncoder_Concurrent(t *testing.T) {
	t.Parallel()

	enc := quietEncoder()
	values := []struct {
		name  string
		value header.Value
	}{
		{header.Subject, header.Plain("café")},
		{header.To, header.Plain("Jöhn <jöhn@example.com>")},
		{header.ContentType, header.Parametrized{
			Value:  "text/plain",
			Params: param.List{{Name: param.Name, Value: "résumé.txt"}},
		}},
		{header.Received, header.Multi{header.Plain("a"), header.Plain("b")}},
	}

	want := make([]string, len(values))
	for i, v := range values {
		s, err := enc.ToMIME(v.name, v.value)
		require.NoError(t, err)
		want[i] = s
	}

	var g errgroup.Group
	for n := 0; n < 64; n++ {
		g.Go(func() error {
			i := n % len(values)
			s, err := enc.ToMIME(values[i].name, values[i].value)
			if err != nil {
				return err
			}
			if s != want[i] {
				return fmt.Errorf("got %q, want %q", s, want[i])
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}
