// Package parser is the library entry point: it scans a C# source tree and
// renders the TypeScript declarations for it.
package parser

import (
	"context"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/cstsgen/internal/csharp"
	"github.com/cmmoran/cstsgen/internal/discovery"
	"github.com/cmmoran/cstsgen/internal/emitter"
	"github.com/cmmoran/cstsgen/internal/logger"
	"github.com/cmmoran/cstsgen/internal/model"
)

// ErrInvalidOptions is returned by New and NewWithOpts for unusable options.
var ErrInvalidOptions = errors.New("invalid options")

// Parser holds state/results of a parse run.
type Parser struct {
	Opts Options

	// Result is the filtered discovery output of the last Parse.
	Result model.Result

	source *csharp.Parser
}

// New builds a parser from the defaults plus opts.
func New(opts ...Option) (*Parser, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}

	return NewWithOpts(o)
}

func NewWithOpts(opts *Options) (*Parser, error) {
	opts.Normalize()
	for _, r := range opts.EnumSuffix {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return nil, errors.Wrapf(ErrInvalidOptions, "enum suffix %q is not an identifier", opts.EnumSuffix)
		}
	}

	p := &Parser{
		Opts:   *opts,
		source: csharp.NewParser(csharp.WithStrict(opts.Strict)),
	}

	return p, nil
}

// Parse discovers and parses every source file under Opts.InDir. Files that
// fail are recorded in Result.Skipped; only a failed walk or cancellation is
// an error.
func (p *Parser) Parse(ctx context.Context) error {
	res, err := discovery.Run(ctx, p.Opts.InDir, p.source, p.Opts.Workers)
	if err != nil {
		return errors.Wrapf(err, "parse %s", p.Opts.InDir)
	}
	p.Result = omit(res, &p.Opts)

	decls, enums := p.Result.Counts()
	logger.Named("parser").Infow("parsed sources",
		"dir", p.Opts.InDir,
		"files", len(p.Result.Files),
		"skipped", len(p.Result.Skipped),
		"declarations", decls,
		"enums", enums,
	)
	return nil
}

// Generate renders the declaration file for the last Parse.
func (p *Parser) Generate() string {
	return emitter.New(emitter.Options{EnumSuffix: p.Opts.EnumSuffix}).Emit(p.Result)
}
