// Package generate runs a full scan of a C# tree and writes the TypeScript
// declaration file.
package generate

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/cstsgen/pkg/parser"
)

// ErrInputNotFound is returned when the input directory does not exist.
var ErrInputNotFound = errors.New("input directory not found")

// Report summarizes a run.
type Report struct {
	OutFile      string
	Files        int
	Skipped      []string
	Declarations int
	Enums        int
	Bytes        int
}

// Render parses opts.InDir and returns the generated text without writing it.
func Render(ctx context.Context, opts *parser.Options) (string, *Report, error) {
	par, err := parser.NewWithOpts(opts)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(par.Opts.InDir)
	if err != nil || !info.IsDir() {
		return "", nil, errors.WithHint(
			errors.Wrapf(ErrInputNotFound, "%s", par.Opts.InDir),
			"pass the C# source root as the first argument or set CSTSGEN_SOURCE_DIRECTORY",
		)
	}
	if err = par.Parse(ctx); err != nil {
		return "", nil, err
	}
	out := par.Generate()

	decls, enums := par.Result.Counts()
	r := &Report{
		OutFile:      par.Opts.OutFile,
		Files:        len(par.Result.Files),
		Declarations: decls,
		Enums:        enums,
		Bytes:        len(out),
	}
	for _, s := range par.Result.Skipped {
		r.Skipped = append(r.Skipped, s.Path)
	}
	return out, r, nil
}

// Run renders and writes the output file, creating its directory.
func Run(ctx context.Context, opts *parser.Options) (*Report, error) {
	out, r, err := Render(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(filepath.Dir(r.OutFile), 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	if err = os.WriteFile(r.OutFile, []byte(out), 0o644); err != nil {
		return nil, errors.Wrapf(err, "write %s", r.OutFile)
	}
	return r, nil
}
