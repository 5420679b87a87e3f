package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentic-research/jsxz/internal/build"
	"github.com/agentic-research/jsxz/internal/depstore"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

var (
	outDir string
	outExt string
	jobs   int
	depsDB string
)

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Write outputs under this directory instead of next to inputs")
	cmd.Flags().StringVar(&outExt, "ext", ".js", "Output file extension")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Units compiled in parallel")
	cmd.Flags().StringVar(&depsDB, "deps-db", "", "SQLite file tracking consumed documents; enables incremental builds")
}

// newBuilder assembles a Builder from flags. The returned close func
// releases the dependency store.
func newBuilder(cmd *cobra.Command, srcRoot string) (*build.Builder, func(), error) {
	opts, err := loadOptions(cmd)
	if err != nil {
		return nil, nil, err
	}
	b := &build.Builder{
		Options: opts,
		FS:      osfs.New("/"),
		SrcRoot: srcRoot,
		OutDir:  outDir,
		OutExt:  outExt,
		Jobs:    jobs,
		Logger:  newLogger(),
	}
	closer := func() {}
	if depsDB != "" {
		store, err := depstore.Open(depsDB)
		if err != nil {
			return nil, nil, err
		}
		b.Store = store
		closer = func() { _ = store.Close() }
	}
	return b, closer, nil
}

func srcRootOf(args []string) string {
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(args[0])
			return abs
		}
	}
	wd, _ := os.Getwd()
	return wd
}

var buildCmd = &cobra.Command{
	Use:   "build [files or dirs...]",
	Short: "Expand directives in .jsxz units and write the generated JSX",
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

		start := time.Now()
		outcomes, err := b.Build(cmd.Context(), units)
		built, skipped := 0, 0
		for _, o := range outcomes {
			switch {
			case o.Skipped:
				skipped++
			case o.Err == nil:
				built++
			}
		}
		fmt.Printf("Built %d, up to date %d, in %v.\n", built, skipped, time.Since(start))
		return err
	},
}

func init() {
	addBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}
