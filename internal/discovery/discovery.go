// Package discovery finds C# sources under a root directory, parses them in
// parallel and folds the results in a deterministic order.
package discovery

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/cstsgen/internal/logger"
	"github.com/cmmoran/cstsgen/internal/model"
)

// SourceExt is the extension of the files that are parsed.
const SourceExt = ".cs"

// skipDirs are build output and tooling directories never worth scanning.
var skipDirs = map[string]bool{
	"bin":          true,
	"obj":          true,
	".git":         true,
	".vs":          true,
	"node_modules": true,
}

// FileParser parses one source file.
type FileParser interface {
	ParseFile(ctx context.Context, path string, src []byte) (model.FileResult, error)
}

// Find returns the source files under root in lexical walk order.
func Find(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}
	return files, nil
}

// Run parses every source file under root with up to workers goroutines
// (GOMAXPROCS when workers <= 0). A file that cannot be read or parsed is
// logged and recorded in Result.Skipped; only cancellation or a failed walk
// aborts the run. Results are folded in discovery order, never completion
// order.
func Run(ctx context.Context, root string, parser FileParser, workers int) (model.Result, error) {
	files, err := Find(root)
	if err != nil {
		return model.Result{}, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := logger.Named("discovery")
	log.Debugw("discovered sources", "root", root, "files", len(files), "workers", workers)

	outcomes := make([]model.Outcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = parseOne(gctx, parser, root, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Result{}, errors.Wrap(err, "discovery cancelled")
	}

	for _, o := range outcomes {
		if o.Err != nil {
			log.Warnw("skipping file", "file", o.Path, "error", o.Err)
		}
	}
	return model.Result{}.Merge(outcomes...), nil
}

func parseOne(ctx context.Context, parser FileParser, root, path string) (o model.Outcome) {
	rel := relative(root, path)
	defer func() {
		if r := recover(); r != nil {
			o = model.Outcome{Path: rel, Err: errors.Newf("panic while parsing: %v", r)}
		}
	}()
	src, err := os.ReadFile(path)
	if err != nil {
		return model.Outcome{Path: rel, Err: errors.Wrap(err, "read source")}
	}
	fr, err := parser.ParseFile(ctx, rel, src)
	if err != nil {
		return model.Outcome{Path: rel, Err: err}
	}
	return model.Outcome{Path: rel, File: fr}
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
