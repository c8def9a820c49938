package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zostay/go-hdrenc/header"
	"github.com/zostay/go-hdrenc/header/field"
	"github.com/zostay/go-hdrenc/header/param"
	"github.com/zostay/go-hdrenc/internal/scanner"
)

func newBlockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "block [file]",
		Short: "re-encode every field of a raw header block",
		Long: `Reads a raw header block from the file, or from standard input, and writes
each field back out encoded for transmission. Reading stops at the first
blank line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) > 0 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			return a.encodeBlock(cmd.OutOrStdout(), in)
		},
	}
}

// encodeBlock re-encodes every header field read from in.
func (a *app) encodeBlock(out io.Writer, in io.Reader) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read header block: %w", err)
	}

	inLB := field.LF
	if bytes.Contains(data, field.CRLF.Bytes()) {
		inLB = field.CRLF
	}

	s := bufio.NewScanner(bytes.NewReader(data))
	s.Buffer(make([]byte, 0, 4096), max(len(data)+1, bufio.MaxScanTokenSize))
	s.Split(scanner.ScanFields(inLB))

	for s.Scan() {
		f := field.Parse(field.Line(s.Bytes()), inLB)
		a.logger.Debug("re-encoding field", slog.String("header", f.Name()))

		enc, err := a.encoder.ToMIME(f.Name(), a.fieldValue(f))
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", f.Name(), err)
		}

		if _, err := fmt.Fprint(out, f.Name()+": "+enc+a.lb.String()); err != nil {
			return err
		}
	}

	return s.Err()
}

// fieldValue picks the Value for a parsed field. Parameterized headers and
// dates that fail to parse are kept as plain text.
func (a *app) fieldValue(f *field.Field) header.Value {
	switch {
	case strings.EqualFold(f.Name(), header.ContentType),
		strings.EqualFold(f.Name(), header.ContentDisposition):
		pv, err := param.Parse(f.Body())
		if err == nil {
			return header.FromParamValue(pv)
		}
		a.logger.Warn("unable to parse parameters",
			slog.String("header", f.Name()),
			slog.Any("error", err))

	case strings.EqualFold(f.Name(), header.Date):
		t, err := header.ParseTime(f.Body())
		if err == nil {
			return header.Plain(t.Format(time.RFC1123Z))
		}
		a.logger.Warn("unable to parse date",
			slog.String("header", f.Name()),
			slog.Any("error", err))
	}

	return header.Plain(f.Body())
}
