package typemap

// TypeScript primitive targets.
const (
	tsString  = "string"
	tsNumber  = "number"
	tsBoolean = "boolean"
	tsAny     = "any"
	tsVoid    = "void"
	tsNull    = "null"
)

// scalars maps C# keywords and CLR type names to a TypeScript primitive.
var scalars = map[string]string{
	"string": tsString,
	"String": tsString,
	"char":   tsString,
	"Char":   tsString,

	"byte":       tsNumber,
	"sbyte":      tsNumber,
	"short":      tsNumber,
	"ushort":     tsNumber,
	"int":        tsNumber,
	"uint":       tsNumber,
	"long":       tsNumber,
	"ulong":      tsNumber,
	"nint":       tsNumber,
	"nuint":      tsNumber,
	"float":      tsNumber,
	"double":     tsNumber,
	"decimal":    tsNumber,
	"Byte":       tsNumber,
	"SByte":      tsNumber,
	"Int16":      tsNumber,
	"UInt16":     tsNumber,
	"Int32":      tsNumber,
	"UInt32":     tsNumber,
	"Int64":      tsNumber,
	"UInt64":     tsNumber,
	"Int128":     tsNumber,
	"UInt128":    tsNumber,
	"IntPtr":     tsNumber,
	"UIntPtr":    tsNumber,
	"Half":       tsNumber,
	"Single":     tsNumber,
	"Double":     tsNumber,
	"Decimal":    tsNumber,
	"BigInteger": tsNumber,

	"bool":    tsBoolean,
	"Boolean": tsBoolean,

	"DateTime":       tsString,
	"DateTimeOffset": tsString,
	"DateOnly":       tsString,
	"TimeOnly":       tsString,
	"TimeSpan":       tsString,
	"Guid":           tsString,
	"Uri":            tsString,
	"Version":        tsString,

	"object":  tsAny,
	"Object":  tsAny,
	"dynamic": tsAny,
}

// orderedCollections become T[].
var orderedCollections = map[string]bool{
	"List":                 true,
	"IList":                true,
	"ICollection":          true,
	"IEnumerable":          true,
	"IReadOnlyList":        true,
	"IReadOnlyCollection":  true,
	"HashSet":              true,
	"ISet":                 true,
	"IReadOnlySet":         true,
	"SortedSet":            true,
	"Stack":                true,
	"Queue":                true,
	"LinkedList":           true,
	"ConcurrentBag":        true,
	"ConcurrentQueue":      true,
	"ConcurrentStack":      true,
	"ReadOnlyCollection":   true,
	"Collection":           true,
	"ObservableCollection": true,
	"ImmutableArray":       true,
	"ImmutableList":        true,
	"IAsyncEnumerable":     true,
}

// keyedCollections become Record<K, V>.
var keyedCollections = map[string]bool{
	"Dictionary":           true,
	"IDictionary":          true,
	"IReadOnlyDictionary":  true,
	"ConcurrentDictionary": true,
	"ReadOnlyDictionary":   true,
	"SortedDictionary":     true,
	"SortedList":           true,
	"ImmutableDictionary":  true,
}

// passThroughGenerics keep their name; only the argument is mapped. The
// emitter declares each of them once.
var passThroughGenerics = map[string]bool{
	"DbSet": true,
}

// baseLibraryRoots are namespace roots whose qualified names reduce to the
// simple name before mapping.
var baseLibraryRoots = map[string]bool{
	"System":    true,
	"Microsoft": true,
}
