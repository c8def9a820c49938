package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-hdrenc/header"
	"github.com/zostay/go-hdrenc/header/field"
	"github.com/zostay/go-hdrenc/internal/log"
	"github.com/zostay/go-hdrenc/tools/hdrenc/config"
)

// app is the state shared by the subcommands once the root command has read
// its configuration.
type app struct {
	configFile string
	logLevel   string
	logFormat  string
	foldLength int

	logger  *slog.Logger
	lb      field.Break
	encoder *header.Encoder
}

// setup loads the configuration, applies flag overrides and builds the
// logger and encoder.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	c := config.Default()
	if a.configFile != "" {
		var err error
		c, err = config.Load(a.configFile)
		if err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		c.LogFormat = a.logFormat
	}
	if flags.Changed("fold-length") {
		c.FoldLength = a.foldLength
	}

	level, err := c.Level()
	if err != nil {
		return err
	}

	a.logger, err = log.New(cmd.ErrOrStderr(), c.LogFormat, level)
	if err != nil {
		return err
	}

	a.lb, err = c.Break()
	if err != nil {
		return err
	}

	vf, err := c.FoldEncoding()
	if err != nil {
		return err
	}

	a.logger.Debug("configured",
		slog.Int("fold_length", vf.PreferredFoldLength()),
		slog.Any("line_break", a.lb),
		slog.String("log_format", c.LogFormat),
	)

	a.encoder = header.New(
		header.WithLogger(a.logger),
		header.WithFoldEncoding(vf),
		header.WithBreak(a.lb),
	)

	return nil
}

// NewRootCmd builds the hdrenc command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "hdrenc",
		Short:             "encode mail header values for transmission",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&a.logFormat, "log-format", log.FormatAuto, "log format (auto, console, dev, tint, json)")
	pf.IntVar(&a.foldLength, "fold-length", 0, "preferred line length, 0 for the default, -1 to not fold")

	rootCmd.AddCommand(newEncodeCmd(a))
	rootCmd.AddCommand(newBlockCmd(a))

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
