// Package log provides logging utilities.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"

	"github.com/zostay/go-hdrenc/header/field"
	"github.com/zostay/go-hdrenc/header/param"
)

// Formats accepted by New.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatDev     = "dev"
	FormatTint    = "tint"
	FormatJSON    = "json"
)

// ErrUnknownFormat is returned by New when the format name is not one of the
// Format constants.
var ErrUnknownFormat = errors.New("unknown log format")

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(ps param.List) slog.Value {
		attrs := make([]slog.Attr, len(ps))
		for i, p := range ps {
			attrs[i] = slog.String(p.Name, p.Value)
		}
		return slog.GroupValue(attrs...)
	}),
	slogformatter.FormatByType(func(lb field.Break) slog.Value {
		return slog.StringValue(fmt.Sprintf("%q", lb.String()))
	}),
)

// Def is a default logger.
var Def = slog.New(newHandler(
	console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource:  true,
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339Nano,
	}),
))

// Dev is a developer logger.
var Dev = slog.New(newHandler(
	devslog.NewHandler(os.Stderr, &devslog.Options{
		HandlerOptions: &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		},
		SortKeys:   true,
		TimeFormat: time.RFC3339Nano,
	}),
))

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

// isTerminal returns true if w is a file attached to a terminal.
func isTerminal(w io.Writer) (*os.File, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return nil, false
	}
	return f, isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New builds a logger writing to w in the named format at the given level.
// The auto format picks tint when w is a terminal and JSON otherwise.
func New(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	var h slog.Handler
	switch strings.ToLower(format) {
	case FormatAuto, "":
		if f, ok := isTerminal(w); ok {
			h = tint.NewHandler(colorable.NewColorable(f), &tint.Options{Level: level})
		} else {
			h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
		}
	case FormatConsole:
		h = console.NewHandler(w, &console.HandlerOptions{
			Level:      level,
			TimeFormat: time.RFC3339Nano,
		})
	case FormatDev:
		h = devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{Level: level},
			SortKeys:       true,
			TimeFormat:     time.RFC3339Nano,
		})
	case FormatTint:
		if f, ok := isTerminal(w); ok {
			w = colorable.NewColorable(f)
		}
		h = tint.NewHandler(w, &tint.Options{Level: level})
	case FormatJSON:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}

	return slog.New(newHandler(h)), nil
}

type fmtValue struct {
	v        any
	goSyntax bool
}

func (v fmtValue) LogValue() slog.Value {
	if v.goSyntax {
		return slog.StringValue(fmt.Sprintf("%#v", v.v))
	}
	return slog.StringValue(fmt.Sprintf("%+v", v.v))
}

// FmtValue returns a value logger that formats values using '%+v' or '%#v' syntax.
func FmtValue(v any, goSyntax bool) slog.LogValuer { return fmtValue{v, goSyntax} }
