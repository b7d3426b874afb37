package parser

import (
	"path/filepath"
	"strings"

	"github.com/cmmoran/cstsgen/internal/emitter"
	"github.com/cmmoran/cstsgen/internal/model"
)

const (
	DefaultOutFile = "typedefs.d.ts"
	DefaultInDir   = ".."
)

// Options control parsing and post‑processing.
//
// InDir               – root directory scanned for *.cs files
// OutFile             – path of the generated declaration file
// EnumSuffix          – appended to the numeric form of every enum (default "Enum")
// ExcludeDeprecated   – skip declarations and members marked [Obsolete]
// ExcludeTypes        – names of types to skip (case‑insensitive, simple or qualified)
// ExcludeByAttributes – skip declarations and members carrying any of these attributes
// Workers             – parallel parse workers; 0 means GOMAXPROCS
// Strict              – a file with syntax errors is skipped instead of partially read
type Options struct {
	InDir               string   `json:"in_dir,omitempty" yaml:"in_dir,omitempty" toml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	OutFile             string   `json:"out_file,omitempty" yaml:"out_file,omitempty" toml:"out_file,omitempty" mapstructure:"out_file,omitempty"`
	EnumSuffix          string   `json:"enum_suffix,omitempty" yaml:"enum_suffix,omitempty" toml:"enum_suffix,omitempty" mapstructure:"enum_suffix,omitempty"`
	ExcludeDeprecated   bool     `json:"exclude_deprecated,omitempty" yaml:"exclude_deprecated,omitempty" toml:"exclude_deprecated,omitempty" mapstructure:"exclude_deprecated,omitempty"`
	ExcludeTypes        []string `json:"exclude_types,omitempty" yaml:"exclude_types,omitempty" toml:"exclude_types,omitempty" mapstructure:"exclude_types,omitempty"`
	ExcludeByAttributes []string `json:"exclude_by_attributes,omitempty" yaml:"exclude_by_attributes,omitempty" toml:"exclude_by_attributes,omitempty" mapstructure:"exclude_by_attributes,omitempty"`
	Workers             int      `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty" mapstructure:"workers,omitempty"`
	Strict              bool     `json:"strict,omitempty" yaml:"strict,omitempty" toml:"strict,omitempty" mapstructure:"strict,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		InDir:      DefaultInDir,
		OutFile:    DefaultOutFile,
		EnumSuffix: emitter.DefaultEnumSuffix,
	}
}

// Normalize fills defaults, makes paths absolute and canonicalizes the
// exclusion lists. Extra attribute names may be passed comma separated, the
// way they arrive from flags and environment variables.
func (o *Options) Normalize(excludeByAttributes ...string) {
	for _, s := range excludeByAttributes {
		for _, name := range strings.Split(s, ",") {
			if name = strings.TrimSpace(name); name != "" {
				o.ExcludeByAttributes = append(o.ExcludeByAttributes, name)
			}
		}
	}
	for i, name := range o.ExcludeByAttributes {
		o.ExcludeByAttributes[i] = model.NormalizeAttributeName(name)
	}
	types := o.ExcludeTypes[:0]
	for _, t := range o.ExcludeTypes {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			types = append(types, t)
		}
	}
	o.ExcludeTypes = types

	if len(o.InDir) == 0 {
		o.InDir = DefaultInDir
	}
	if abs, err := filepath.Abs(o.InDir); err == nil {
		o.InDir = abs
	}
	if len(o.OutFile) == 0 {
		o.OutFile = DefaultOutFile
	}
	if abs, err := filepath.Abs(o.OutFile); err == nil {
		o.OutFile = abs
	}
	if o.EnumSuffix == "" {
		o.EnumSuffix = emitter.DefaultEnumSuffix
	}
	if o.Workers < 0 {
		o.Workers = 0
	}
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInDir(d string) Option      { return func(o *Options) { o.InDir = d } }
func WithOutFile(f string) Option    { return func(o *Options) { o.OutFile = f } }
func WithEnumSuffix(s string) Option { return func(o *Options) { o.EnumSuffix = s } }
func WithWorkers(n int) Option       { return func(o *Options) { o.Workers = n } }
func WithStrict() Option             { return func(o *Options) { o.Strict = true } }
func WithExcludeDeprecated() Option  { return func(o *Options) { o.ExcludeDeprecated = true } }
func WithExcludeTypes(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.ExcludeTypes = append(o.ExcludeTypes, strings.TrimSpace(n))
		}
	}
}
func WithExcludeByAttribute(names ...string) Option {
	return func(o *Options) { o.ExcludeByAttributes = append(o.ExcludeByAttributes, names...) }
}
