package csharp

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/cstsgen/internal/model"
)

func parse(t *testing.T, src string, opts ...Option) model.FileResult {
	t.Helper()
	res, err := NewParser(opts...).ParseFile(context.Background(), "test.cs", []byte(src))
	require.NoError(t, err)
	return res
}

func memberTypes(d *model.Declaration) map[string]string {
	out := map[string]string{}
	for _, m := range d.Members {
		out[m.Name] = m.TypeExpr
	}
	return out
}

func TestParseFileNamespacesAndMembers(t *testing.T) {
	res := parse(t, `
using System;
using System.Collections.Generic;

namespace MyApp.Models
{
    /// <summary>
    /// Represents a user
    /// </summary>
    public class User
    {
        public string Name { get; set; }
        public int Age { get; set; } // trailing note
        public Dictionary<string, List<int>> Scores { get; set; }
        public MyApp.Enums.Status Status { get; set; }

        [Obsolete("use Name")]
        public string LegacyField { get; set; }

        [AllowNull, JsonIgnore]
        public string Nick { get; set; }

        public static int Count { get; set; }
        private int hidden;
        public void Touch() { }
    }
}
`)
	require.Empty(t, res.Enums)
	require.Len(t, res.Declarations, 1)

	user := res.Declarations[0]
	require.Equal(t, "User", user.Name)
	require.Equal(t, "MyApp.Models", user.Namespace)
	require.Equal(t, model.DeclClass, user.Kind)
	require.Equal(t, model.Trivia{"/// <summary>", "/// Represents a user", "/// </summary>"}, user.Trivia)

	want := map[string]string{
		"Name":        "string",
		"Age":         "int",
		"Scores":      "Dictionary<string, List<int>>",
		"Status":      "MyApp.Enums.Status",
		"LegacyField": "string",
		"Nick":        "string",
		"Count":       "int",
	}
	if diff := cmp.Diff(want, memberTypes(user)); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}

	byName := map[string]*model.Member{}
	for _, m := range user.Members {
		byName[m.Name] = m
	}
	msg, ok := byName["LegacyField"].Attributes.Obsolete()
	require.True(t, ok)
	require.Equal(t, "use Name", msg)
	require.True(t, byName["Nick"].Attributes.Has("AllowNull"))
	require.True(t, byName["Nick"].Attributes.Has("JsonIgnore"))
	require.True(t, byName["Count"].Static)
	require.False(t, byName["Name"].Static)
	require.Empty(t, byName["Scores"].Trivia, "a trailing comment belongs to the line it ends")
}

func TestParseFileEnums(t *testing.T) {
	res := parse(t, `
namespace MyApp.Enums
{
    // Account state
    public enum Status
    {
        Active,
        Inactive = 5,
        Banned
    }

    [Flags]
    public enum Permissions : byte
    {
        None = 0,
        Read = 1,
        Write = 2,
        Execute = 4,
        All = Read | Write | Execute
    }
}
`)
	require.Len(t, res.Enums, 2)
	status, perms := res.Enums[0], res.Enums[1]
	require.Equal(t, "Status", status.Name)
	require.Equal(t, "MyApp.Enums", status.Namespace)
	require.Equal(t, []string{"Active", "Inactive", "Banned"}, status.Members)
	require.Equal(t, model.Trivia{"// Account state"}, status.Trivia)
	require.Equal(t, []string{"None", "Read", "Write", "Execute", "All"}, perms.Members)
	require.Equal(t, map[string]string{"Inactive": "5"}, status.Values)
	require.Equal(t, map[string]string{
		"None":    "0",
		"Read":    "1",
		"Write":   "2",
		"Execute": "4",
		"All":     "Read|Write|Execute",
	}, perms.Values)
	require.True(t, perms.Attributes.Has("Flags"))
}

func TestParseFileNestedDeclarations(t *testing.T) {
	res := parse(t, `
namespace MyApp.Models
{
    public class AdvancedTypes
    {
        public NestedType Inner { get; set; }

        /// <summary>
        /// A nested class for testing
        /// </summary>
        public class NestedType
        {
            public string Description { get; set; }
        }

        public enum Mode { Fast, Safe }
    }
}
`)
	require.Len(t, res.Declarations, 1)
	outer := res.Declarations[0]
	require.Equal(t, map[string]string{"Inner": "NestedType"}, memberTypes(outer))
	require.Len(t, outer.Nested, 1)
	require.Equal(t, "NestedType", outer.Nested[0].Name)
	require.Equal(t, "MyApp.Models", outer.Nested[0].Namespace)
	require.Len(t, outer.Nested[0].Trivia, 3)
	require.Equal(t, map[string]string{"Description": "string"}, memberTypes(outer.Nested[0]))
	require.Len(t, outer.NestedEnums, 1)
	require.Equal(t, []string{"Fast", "Safe"}, outer.NestedEnums[0].Members)
	require.Empty(t, res.Enums, "nested enums stay with their owner")
}

func TestParseFileNamespaceForms(t *testing.T) {
	t.Run("file scoped", func(t *testing.T) {
		res := parse(t, `
namespace MetricsShared;

public class Service
{
    public string Name { get; set; }
}

public enum Kind { A, B }
`)
		require.Len(t, res.Declarations, 1)
		require.Equal(t, "MetricsShared", res.Declarations[0].Namespace)
		require.Len(t, res.Enums, 1)
		require.Equal(t, "MetricsShared", res.Enums[0].Namespace)
	})

	t.Run("nested blocks", func(t *testing.T) {
		res := parse(t, `
namespace Outer
{
    namespace Inner.Deep
    {
        public struct Point { public int X { get; set; } }
    }
}
`)
		require.Len(t, res.Declarations, 1)
		require.Equal(t, "Outer.Inner.Deep", res.Declarations[0].Namespace)
		require.Equal(t, model.DeclStruct, res.Declarations[0].Kind)
	})

	t.Run("global", func(t *testing.T) {
		res := parse(t, `
public class Holder
{
    public List<MetricsShared.Service> Services { get; set; }
}
`)
		require.Len(t, res.Declarations, 1)
		require.Equal(t, model.GlobalNamespace, res.Declarations[0].Namespace)
		require.Equal(t, map[string]string{"Services": "List<MetricsShared.Service>"}, memberTypes(res.Declarations[0]))
	})
}

func TestParseFileGenericsRecordsAndInterfaces(t *testing.T) {
	res := parse(t, `
namespace Paging
{
    public class Page<TItem, TCursor>
    {
        public List<TItem> Items { get; set; }
        public TCursor? Next { get; set; }
    }

    public record Money(decimal Amount, string Currency);

    public interface IHasId
    {
        Guid Id { get; }
    }
}
`)
	require.Len(t, res.Declarations, 3)
	page, money, iface := res.Declarations[0], res.Declarations[1], res.Declarations[2]

	require.Equal(t, []string{"TItem", "TCursor"}, page.TypeParams)
	require.Equal(t, map[string]string{"Items": "List<TItem>", "Next": "TCursor?"}, memberTypes(page))

	require.Equal(t, model.DeclRecord, money.Kind)
	require.Equal(t, map[string]string{"Amount": "decimal", "Currency": "string"}, memberTypes(money))

	require.Equal(t, model.DeclInterface, iface.Kind)
	require.Equal(t, map[string]string{"Id": "Guid"}, memberTypes(iface))
}

func TestParseFileCommentAssociation(t *testing.T) {
	res := parse(t, `
// license header

namespace Docs
{
    // stale note

    // Simple comment on property
    public class Documented
    {
        // Simple comment on property
        public int CommentedProperty { get; set; }

        [Obsolete]
        /// <summary>after attribute</summary>
        public int Odd { get; set; }
    }
}
`)
	require.Len(t, res.Declarations, 1)
	d := res.Declarations[0]
	require.Equal(t, model.Trivia{"// Simple comment on property"}, d.Trivia, "a blank line separates unrelated comments")
	require.Equal(t, model.Trivia{"// Simple comment on property"}, d.Members[0].Trivia)
	require.True(t, d.Members[1].Attributes.Has("Obsolete"))
	require.Equal(t, model.Trivia{"/// <summary>after attribute</summary>"}, d.Members[1].Trivia)
}

func TestParseFileSyntaxErrors(t *testing.T) {
	src := `
namespace Broken
{
    public class Fine
    {
        public string Name { get; set; }
    }

    public class Bad
    {
        public int X { get; set; } ) ) )
    }
}
`
	res := parse(t, src)
	require.NotEmpty(t, res.Declarations, "lenient parsing keeps recoverable declarations")
	require.Equal(t, "Fine", res.Declarations[0].Name)

	_, err := NewParser(WithStrict(true)).ParseFile(context.Background(), "broken.cs", []byte(src))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSyntax))
}

func TestParseFileEmpty(t *testing.T) {
	res := parse(t, "")
	require.True(t, res.Empty())
	require.Equal(t, "test.cs", res.Path)
}
