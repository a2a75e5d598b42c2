package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alexiusacademia/gotruss/internal/version"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

// newLogger builds the CLI logger, at debug level when verbose
var newLogger = func(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

var rootCmd = &cobra.Command{
	Use:   "gotruss",
	Short: "Plane Truss Analysis Tool",
	Long: `gotruss - Go Plane Truss Analyzer

A CLI tool for the static analysis of pin-jointed plane trusses
using the direct stiffness method.

This tool helps structural engineers and students:
  - Number joint degrees of freedom and assemble the stiffness matrix
  - Solve for joint displacements under a joint load
  - Compute support reactions and member axial forces
  - Build force envelopes from NSCP 2015 load combinations

Members have unit axial rigidity (EA = 1).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintf(out, "  ║   gotruss v%-47s║\n", version.Version)
		fmt.Fprintln(out, "  ║   Go Plane Truss Analyzer                                 ║")
		fmt.Fprintf(out, "  ║   %s ©  %-37s║\n", version.Author, version.Year)
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintln(out, "  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  A CLI tool for the static analysis of pin-jointed plane trusses")
		fmt.Fprintln(out, "  using the direct stiffness method.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Features:")
		fmt.Fprintln(out, "    • Automatic DOF numbering from joint coordinates")
		fmt.Fprintln(out, "    • Displacements, support reactions and member forces")
		fmt.Fprintln(out, "    • Load-combination force envelopes (NSCP 2015)")
		fmt.Fprintln(out, "    • ASCII force charts and PNG/SVG/PDF truss diagrams")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Use 'gotruss --help' to see available commands.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ─────────────────────────────────────────────────────────────")
		fmt.Fprintf(out, "  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Fprintln(out)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := executeRoot(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// executeRoot runs the root command and flushes the logger, also when the
// command failed.
func executeRoot() error {
	err := rootCmd.Execute()
	_ = logger.Sync()
	return err
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}
