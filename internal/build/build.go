// Package build compiles many units concurrently, one engine per unit.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentic-research/jsxz/api"
	"github.com/agentic-research/jsxz/internal/depstore"
	"github.com/agentic-research/jsxz/internal/engine"
	"github.com/agentic-research/jsxz/internal/writeback"
	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"
)

// SourceExt is the extension of compilation units found by directory scans.
const SourceExt = ".jsxz"

// Builder turns unit files into output files.
type Builder struct {
	Options api.Options
	FS      billy.Filesystem
	// SrcRoot and OutDir place outputs; see writeback.OutputPath.
	SrcRoot string
	OutDir  string
	OutExt  string
	Jobs    int
	// Store enables incremental builds when set.
	Store  *depstore.Store
	Logger *slog.Logger
}

// Outcome reports what happened to one unit.
type Outcome struct {
	Unit    string
	Output  string
	Deps    []string
	Skipped bool
	Err     error
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.Logger
}

// Build compiles units with at most Jobs in flight. Every unit is attempted;
// the returned error joins the per-unit failures.
func (b *Builder) Build(ctx context.Context, units []string) ([]Outcome, error) {
	outcomes := make([]Outcome, len(units))
	g, ctx := errgroup.WithContext(ctx)
	if b.Jobs > 0 {
		g.SetLimit(b.Jobs)
	}
	for i, unit := range units {
		g.Go(func() error {
			outcomes[i] = b.buildOne(ctx, unit)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return outcomes, errors.Join(errs...)
}

func (b *Builder) buildOne(ctx context.Context, unit string) Outcome {
	log := b.logger()
	out := Outcome{Unit: unit, Output: writeback.OutputPath(unit, b.SrcRoot, b.OutDir, b.outExt())}

	if b.Store != nil {
		fresh, err := b.Store.Fresh(unit)
		if err != nil {
			log.Warn("dependency store lookup failed", "unit", unit, "err", err)
		}
		if fresh {
			out.Skipped = true
			log.Debug("unit up to date", "unit", unit)
			return out
		}
	}

	src, err := os.ReadFile(unit)
	if err != nil {
		out.Err = fmt.Errorf("read unit %s: %w", unit, err)
		return out
	}
	res, err := engine.New(b.Options, b.FS, log).Transform(ctx, unit, src)
	if res != nil {
		out.Deps = res.Deps
	}
	if err != nil {
		out.Err = err
		if b.Store != nil {
			_ = b.Store.Forget(unit)
		}
		return out
	}

	if verr := writeback.Validate(res.Code, out.Output); verr != nil {
		log.Warn("generated code does not parse", "unit", unit, "err", verr)
	}
	if err := writeback.WriteFile(out.Output, res.Code); err != nil {
		out.Err = err
		return out
	}
	if b.Store != nil {
		if err := b.Store.Record(unit, res.Deps); err != nil {
			log.Warn("dependency store update failed", "unit", unit, "err", err)
		}
	}
	log.Info("built", "unit", unit, "output", out.Output, "documents", len(res.Deps))
	return out
}

func (b *Builder) outExt() string {
	if b.OutExt == "" {
		return ".js"
	}
	return b.OutExt
}

// CollectUnits expands directories into the SourceExt files they contain and
// returns absolute, sorted, de-duplicated paths. Plain file arguments are
// kept whatever their extension.
func CollectUnits(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var units []string
	add := func(p string) error {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if !seen[abs] {
			seen[abs] = true
			units = append(units, abs)
		}
		return nil
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := add(arg); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == SourceExt {
				return add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(units)
	return units, nil
}
