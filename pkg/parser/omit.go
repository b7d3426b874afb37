package parser

import (
	"strings"

	"github.com/cmmoran/cstsgen/internal/model"
)

// omit applies the exclusion options to res and returns the filtered result.
// res itself is left untouched; declarations whose members change are copied.
func omit(res model.Result, opts *Options) model.Result {
	if !opts.ExcludeDeprecated && len(opts.ExcludeTypes) == 0 && len(opts.ExcludeByAttributes) == 0 {
		return res
	}
	out := model.Result{Files: res.Files, Skipped: res.Skipped}
	for _, g := range res.Groups {
		ng := &model.NamespaceGroup{
			Path:         g.Path,
			Enums:        omitEnums(g.Enums, g.Path, opts),
			Declarations: omitDeclarations(g.Declarations, g.Path, opts),
		}
		if len(ng.Enums) == 0 && len(ng.Declarations) == 0 {
			continue
		}
		out.Groups = append(out.Groups, ng)
	}
	return out
}

func omitEnums(es []*model.EnumDeclaration, namespace string, opts *Options) []*model.EnumDeclaration {
	out := make([]*model.EnumDeclaration, 0, len(es))
	for _, e := range es {
		if isTypeExcluded(namespace, e.Name, opts) || shouldOmitAttributed(e.Attributes, opts) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func omitDeclarations(ds []*model.Declaration, namespace string, opts *Options) []*model.Declaration {
	out := make([]*model.Declaration, 0, len(ds))
	for _, d := range ds {
		if isTypeExcluded(namespace, d.Name, opts) || shouldOmitAttributed(d.Attributes, opts) {
			continue
		}
		nd := *d
		nd.Members = omitMembers(d.Members, opts)
		nd.NestedEnums = omitEnums(d.NestedEnums, namespace, opts)
		nd.Nested = omitDeclarations(d.Nested, namespace, opts)
		out = append(out, &nd)
	}
	return out
}

func omitMembers(ms []*model.Member, opts *Options) []*model.Member {
	out := make([]*model.Member, 0, len(ms))
	for _, m := range ms {
		if m == nil || shouldOmitAttributed(m.Attributes, opts) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// shouldOmitAttributed reports whether a declaration or member carrying as
// is excluded, either as deprecated or through ExcludeByAttributes.
func shouldOmitAttributed(as model.Attributes, opts *Options) bool {
	if opts.ExcludeDeprecated {
		if _, deprecated := as.Obsolete(); deprecated {
			return true
		}
	}
	return len(opts.ExcludeByAttributes) > 0 && as.Has(opts.ExcludeByAttributes...)
}

// isTypeExcluded matches ExcludeTypes, stored lowercase, against the simple
// and the namespace-qualified name.
func isTypeExcluded(namespace, name string, opts *Options) bool {
	if len(opts.ExcludeTypes) == 0 || name == "" {
		return false
	}
	simple := strings.ToLower(name)
	qualified := strings.ToLower(namespace + "." + name)
	for _, t := range opts.ExcludeTypes {
		if t == simple || t == qualified {
			return true
		}
	}
	return false
}
