package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/term"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/bazelrc/project"
)

const version = "0.1.0"

var log = commonlog.GetLogger("bazelrc.cli")

// rootOptions are the persistent flags shared by every subcommand. config
// is filled in before any subcommand runs.
type rootOptions struct {
	verbose    int
	logFile    string
	configPath string
	color      string

	config *project.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "bazelrc: %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "bazelrc",
		Short:         "Parse and check bazelrc files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVar(&opts.configPath, "config", "", "path to a bazelrc.toml (default: ./bazelrc.toml if present)")
	flags.StringVar(&opts.color, "color", "", "colorize output: auto, always or never")

	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))

	return rootCmd
}

// setup loads the config file, applies flag overrides and configures
// logging.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	var cfg *project.Config
	var err error
	if o.configPath != "" {
		cfg, err = project.LoadConfigFile(o.configPath)
	} else {
		cfg, err = project.LoadConfig(".")
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("color") {
		cfg.Color = o.color
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	cfg.Log.Verbosity += o.verbose
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	var path *string
	if cfg.Log.File != "" {
		path = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, path)

	o.config = cfg
	log.Debugf("config: %+v", *cfg)
	return nil
}

// useColor decides whether output written to w gets ANSI colors.
func (o *rootOptions) useColor(w io.Writer) bool {
	switch o.config.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
