package typemap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/cstsgen/internal/model"
)

func testRegistry() *Registry {
	var r model.Result
	r = r.Fold(model.FileResult{
		Path:  "Enums/Status.cs",
		Enums: []*model.EnumDeclaration{{Name: "Status", Namespace: "MyApp.Enums"}},
	})
	r = r.Fold(model.FileResult{
		Path: "Models/AdvancedTypes.cs",
		Declarations: []*model.Declaration{{
			Name:      "AdvancedTypes",
			Namespace: "MyApp.Models",
			Nested:    []*model.Declaration{{Name: "NestedType", Namespace: "MyApp.Models"}},
			NestedEnums: []*model.EnumDeclaration{
				{Name: "Mode", Namespace: "MyApp.Models"},
			},
		}, {
			Name:      "Other",
			Namespace: "MyApp.Models",
			Nested:    []*model.Declaration{{Name: "NestedType", Namespace: "MyApp.Models"}},
		}},
	})
	return NewRegistry(r.Groups)
}

func TestMap(t *testing.T) {
	m := NewMapper(testRegistry())
	models := Context{DeclaringType: "User", Namespace: "MyApp.Models"}

	tests := []struct {
		name string
		in   string
		ctx  Context
		want string
	}{
		{name: "optional marker", in: "int?", want: "number?"},
		{name: "optional reference", in: "string?", want: "string?"},
		{name: "nullable wrapper", in: "Nullable<int>", want: "number?"},
		{name: "nullable guid", in: "System.Nullable<System.Guid>", want: "string?"},
		{name: "jagged array", in: "int[][]", want: "number[][]"},
		{name: "single array", in: "double[]", want: "number[]"},
		{name: "rectangular array", in: "int[,]", want: "number[][]"},
		{name: "rank three", in: "string[,,]", want: "string[][][]"},
		{name: "array of optional", in: "int?[]", want: "(number | null)[]"},
		{name: "list", in: "List<string>", want: "string[]"},
		{name: "list of lists", in: "List<List<string>>", want: "string[][]"},
		{name: "enumerable", in: "IEnumerable<int>", want: "number[]"},
		{name: "hash set", in: "HashSet<int>", want: "number[]"},
		{name: "qualified list", in: "System.Collections.Generic.List<User>", want: "User[]"},
		{name: "dictionary", in: "Dictionary<string, int>", want: "Record<string, number>"},
		{name: "dictionary nested commas", in: "Dictionary<string, List<int>>", want: "Record<string, number[]>"},
		{name: "dictionary of dictionaries", in: "IDictionary<string, Dictionary<int, bool>>", want: "Record<string, Record<number, boolean>>"},
		{name: "concurrent dictionary", in: "ConcurrentDictionary<int, string>", want: "Record<number, string>"},
		{name: "dictionary optional value", in: "Dictionary<string, int?>", want: "Record<string, number | null>"},
		{name: "dbset", in: "DbSet<Product>", want: "DbSet<Product>"},
		{name: "qualified dbset", in: "Microsoft.EntityFrameworkCore.DbSet<Product>", want: "DbSet<Product>"},
		{name: "tuple", in: "Tuple<int, string, bool>", want: "[number, string, boolean]"},
		{name: "value tuple", in: "ValueTuple<int, string>", want: "[number, string]"},
		{name: "named tuple", in: "(string Name, int Age)", want: "[string, number]"},
		{name: "tuple of collections", in: "(List<int> a, Dictionary<string, int> b)", want: "[number[], Record<string, number>]"},
		{name: "task", in: "Task", want: "Promise<void>"},
		{name: "value task", in: "ValueTask", want: "Promise<void>"},
		{name: "task of int", in: "Task<int>", want: "Promise<number>"},
		{name: "value task of bool", in: "ValueTask<bool>", want: "Promise<boolean>"},
		{name: "func", in: "Func<int, string>", want: "(p0: number) => string"},
		{name: "func no args", in: "Func<bool>", want: "() => boolean"},
		{name: "action", in: "Action<string>", want: "(p0: string) => void"},
		{name: "action two", in: "Action<string, List<int>>", want: "(p0: string, p1: number[]) => void"},
		{name: "bare action", in: "Action", want: "() => void"},
		{name: "predicate", in: "Predicate<int>", want: "(value: number) => boolean"},
		{name: "list of funcs", in: "List<Func<int>>", want: "(() => number)[]"},
		{name: "char", in: "char", want: "string"},
		{name: "clr name", in: "Int32", want: "number"},
		{name: "system qualified", in: "System.DateTime", want: "string"},
		{name: "global system qualified", in: "global::System.Guid", want: "string"},
		{name: "dynamic", in: "dynamic", want: "any"},
		{name: "object", in: "object", want: "any"},
		{name: "enum from another namespace", in: "MyApp.Enums.Status", ctx: models, want: "Status"},
		{name: "cross namespace", in: "MetricsShared.Service", ctx: Context{Namespace: "Global"}, want: "MetricsShared.Service"},
		{name: "cross namespace list", in: "List<MetricsShared.Service>", ctx: Context{Namespace: "Global"}, want: "MetricsShared.Service[]"},
		{name: "same namespace", in: "MyApp.Models.User", ctx: models, want: "User"},
		{name: "no context namespace", in: "MyApp.Models.User", want: "User"},
		{name: "nested unqualified", in: "NestedType", ctx: Context{DeclaringType: "AdvancedTypes", Namespace: "MyApp.Models"}, want: "AdvancedTypes.NestedType"},
		{name: "nested qualified by owner", in: "AdvancedTypes.NestedType", ctx: models, want: "AdvancedTypes.NestedType"},
		{name: "nested requalified by context", in: "AdvancedTypes.NestedType", ctx: Context{DeclaringType: "Other", Namespace: "MyApp.Models"}, want: "Other.NestedType"},
		{name: "nested enum", in: "Mode", ctx: Context{DeclaringType: "AdvancedTypes"}, want: "AdvancedTypes.Mode"},
		{name: "nested enum qualified", in: "MyApp.Models.AdvancedTypes.Mode", ctx: models, want: "AdvancedTypes.Mode"},
		{name: "unknown identity", in: "Widget", want: "Widget"},
		{name: "unknown generic", in: "Page<int>", want: "Page<number>"},
		{name: "malformed identity", in: "List<int", want: "List<int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Map(tt.in, tt.ctx)
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestMapScalarsAreDeterministicPrimitives(t *testing.T) {
	m := NewMapper(nil)
	primitives := map[string]bool{tsString: true, tsNumber: true, tsBoolean: true, tsAny: true}
	for name := range scalars {
		first := m.Map(name, Context{})
		second := m.Map(name, Context{})
		require.Equal(t, first, second, name)
		require.False(t, first.Optional, name)
		require.True(t, primitives[first.Type], "%s mapped to %s", name, first.Type)
	}
}

func TestMapOptionalMarkerIdempotent(t *testing.T) {
	m := NewMapper(testRegistry())
	ctx := Context{DeclaringType: "AdvancedTypes", Namespace: "MyApp.Models"}
	for _, in := range []string{
		"int", "string", "DateTime", "List<int>", "int[][]", "int[,]",
		"Dictionary<string, List<int>>", "(string a, int b)", "Func<int, string>",
		"Task<int>", "NestedType", "MyApp.Enums.Status", "Widget", "DbSet<User>",
	} {
		t.Run(in, func(t *testing.T) {
			plain := m.Map(in, ctx)
			require.False(t, plain.Optional)
			require.Equal(t, plain.String()+"?", m.Map(in+"?", ctx).String())
		})
	}
}

func TestMapJaggedIsNotTuple(t *testing.T) {
	m := NewMapper(nil)
	require.Equal(t, "string[][]", m.Map("string[][]", Context{}).Type)
	require.NotEqual(t, m.Map("string[][]", Context{}).Type, m.Map("(string, string)[]", Context{}).Type)
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	require.False(t, r.IsEnum("A", "B"))
	require.False(t, r.IsNested("A", "B"))
}
