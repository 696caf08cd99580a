package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/graphite-graph/graphite-graph/internal/cli/config"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "graphite-graph",
		Short: "Compile graph definitions into Graphite render targets",
		Long: color.CyanString(`graphite-graph - Graphite target compiler

Describe graphs as YAML or TOML metric definitions and compile them into
Graphite render target expressions.

Features:
  • Function names in any spelling (sum, sum_series, sumSeries)
  • Functions applied in a fixed priority order
  • Metric inheritance with :extends and shared :prefix chains
  • {{NAME}} variable substitution`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default from config)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewCompileCommand())
	rootCmd.AddCommand(NewFunctionsCommand())
	rootCmd.AddCommand(NewInitCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the graphite-graph version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			kv := func(key, value string) {
				color.New(color.FgCyan, color.Bold).Fprint(out, key+": ")
				fmt.Fprintln(out, value)
			}

			kv("graphite-graph version", Version)
			kv("Git commit", GitCommit)
			kv("Build date", BuildDate)
			kv("Go version", goVer)
		},
	}
}

// loadConfig reads the configuration and builds the logger, honoring the
// --log-level flag when given
func loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
