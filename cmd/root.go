package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/agentic-research/jsxz/api"
	"github.com/agentic-research/jsxz/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	baseDir      string
	permissive   bool
	allowContent bool
	verbose      bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to options file (.yaml, .json, package.json, .hcl)")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Directory relative document paths resolve against")
	rootCmd.PersistentFlags().BoolVar(&permissive, "permissive", false, "Warn instead of failing when a <Z> selector matches nothing")
	rootCmd.PersistentFlags().BoolVar(&allowContent, "allow-content", false, "Accept plain children inside <JSXZ> as the root template")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

var rootCmd = &cobra.Command{
	Use:          "jsxz",
	Short:        "jsxz: expand JSXZ directives into JSX from HTML templates",
	SilenceUsage: true,
}

// loadOptions merges the config file (if any) with command line flags.
func loadOptions(cmd *cobra.Command) (api.Options, error) {
	opts := api.DefaultOptions()
	if configPath != "" {
		var err error
		if opts, err = config.Load(configPath); err != nil {
			return opts, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("base-dir") {
		opts.BaseDir = baseDir
	}
	if flags.Changed("permissive") {
		opts.Permissive = permissive
	}
	if flags.Changed("allow-content") {
		opts.AllowContent = allowContent
	}
	return opts, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
