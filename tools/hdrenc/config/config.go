// Package config loads the hdrenc configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zostay/go-hdrenc/header/field"
	"github.com/zostay/go-hdrenc/internal/log"
)

// ErrUnknownBreak is returned when line_break names no known line break.
var ErrUnknownBreak = errors.New("unknown line break")

// Config is the hdrenc configuration. Zero fields are filled in from Default.
type Config struct {
	// FoldLength is the preferred maximum line length. 0 means the default
	// and -1 turns folding off.
	FoldLength int `yaml:"fold_length"`

	// LineBreak is one of crlf, lf, cr or lfcr.
	LineBreak string `yaml:"line_break"`

	// LogLevel is a slog level name, such as debug or warn.
	LogLevel string `yaml:"log_level"`

	// LogFormat is one of auto, console, dev, tint or json.
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LineBreak: "crlf",
		LogLevel:  "warn",
		LogFormat: log.FormatAuto,
	}
}

// Load reads the YAML file at path on top of Default. Unknown keys are an
// error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Read decodes YAML configuration from r on top of Default. Unknown keys are
// an error.
func Read(r io.Reader) (*Config, error) {
	c := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return c, nil
}

// Break returns the configured line break.
func (c *Config) Break() (field.Break, error) {
	switch strings.ToLower(c.LineBreak) {
	case "crlf", "":
		return field.CRLF, nil
	case "lf":
		return field.LF, nil
	case "cr":
		return field.CR, nil
	case "lfcr":
		return field.LFCR, nil
	}
	return field.Meh, fmt.Errorf("%w %q", ErrUnknownBreak, c.LineBreak)
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}

// FoldEncoding returns the fold encoding for FoldLength.
func (c *Config) FoldEncoding() (*field.FoldEncoding, error) {
	switch c.FoldLength {
	case 0:
		return field.DefaultFoldEncoding, nil
	case field.DoNotFold:
		return field.DoNotFoldEncoding, nil
	}

	return field.NewFoldEncoding(
		field.DefaultFoldIndent,
		c.FoldLength,
		max(c.FoldLength, field.DefaultForcedFoldLength),
	)
}
