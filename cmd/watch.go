package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/agentic-research/jsxz/internal/build"
	"github.com/agentic-research/jsxz/internal/watch"
	"github.com/spf13/cobra"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [files or dirs...]",
	Short: "Build, then rebuild units when they or their documents change",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		units, err := build.CollectUnits(args)
		if err != nil {
			return err
		}
		b, closeStore, err := newBuilder(cmd, srcRootOf(args))
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w := &watch.Watcher{Builder: b, Units: units, Debounce: debounce, Logger: b.Logger}
		return w.Run(ctx)
	},
}

func init() {
	addBuildFlags(watchCmd)
	watchCmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "Quiet period before rebuilding")
	rootCmd.AddCommand(watchCmd)
}
