// Command skosvocab inspects and converts SKOS subject vocabularies.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/skos-go/internal/config"
	"github.com/geoknoesis/skos-go/skos"
)

// Build-time variables injected via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// app carries state shared by all subcommands once the root command has
// loaded configuration.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
}

func (a *app) vocabularyOptions() []skos.Option {
	return []skos.Option{
		skos.WithLogger(a.logger),
		skos.WithDecodeOptions(a.cfg.DecodeOptions()),
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "skosvocab",
		Short: "Inspect and convert SKOS subject vocabularies",
		Long: `skosvocab loads a SKOS vocabulary from Turtle, N-Triples, RDF/XML,
JSON-LD or a .dump.gz cache artifact, lists its languages and subjects,
and writes vocabularies back as Turtle with a refreshed cache artifact.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = a.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = a.logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = setupLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file path")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(
		languagesCmd(a),
		subjectsCmd(a),
		saveCmd(a),
		importCmd(a),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "skosvocab %s\n", Version)
			if GitCommit != "unknown" {
				fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
			}
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code := skos.Code(err); code != skos.ErrCodeUnknown {
			fmt.Fprintf(os.Stderr, "Code: %s\n", code)
		}
		os.Exit(1)
	}
}
