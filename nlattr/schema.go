package nlattr

import (
	"strings"

	"github.com/bluwireless/genl/internal/codecmetrics"
)

// IDTable maps every symbolic attribute name used in a schema to its
// 16-bit numeric identifier. One table is shared by every scope in a
// schema: identifiers need only be unique within a given attribute-set
// scope, not globally, but symbolic names are the table's keys and so must
// be unique across the whole schema.
type IDTable map[string]uint16

// Field describes one attribute expected in an attribute set. Type is
// either a string naming a leaf kind ("u8", "u16", "s16", "u32", "u64",
// "str", "bytes", "flag") or a collection kind ("array", "list", which
// require SubElem), or a []Field directly nesting another attribute-set
// description. SubElem, used only when Type is "array" or "list", may be a
// bare string (shorthand for a leaf/collection kind with no further
// structure), a Field, or a []Field (a nested attribute set as the element
// type).
type Field struct {
	Name      string
	ShortName string // overrides the derived short name when non-empty
	Type      any
	SubElem   any
	Required  bool
}

// globalIndex supports the unknown-attribute diagnostic in attrset.go:
// a reverse lookup from numeric id to every symbolic name in the whole
// compiled schema that happens to share it, not just the name's own scope,
// so a log line about an unrecognized id can still suggest candidates.
type globalIndex struct {
	byID map[uint16][]string
}

func buildGlobalIndex(ids IDTable) *globalIndex {
	idx := &globalIndex{byID: make(map[uint16][]string)}
	for name, id := range ids {
		idx.byID[id] = append(idx.byID[id], name)
	}
	return idx
}

// Codec is a compiled, immutable codec tree produced by Compile. It is safe
// for concurrent Build/Parse calls from multiple goroutines.
type Codec struct {
	root *setCodec
}

// Compile compiles a root attribute-set description (an ordered sequence of
// field descriptions) and a name->id table into an immutable codec tree.
// Every symbolic name the schema references must appear in ids, or Compile
// fails with a *SchemaError.
func Compile(fields []Field, ids IDTable) (*Codec, error) {
	idx := buildGlobalIndex(ids)
	root, err := compileSet("root", fields, ids, idx)
	if err != nil {
		return nil, err
	}
	return &Codec{root: root}, nil
}

// Build serializes values into the attribute payload bytes this codec
// describes. values is normally an *AttrValues, but a *Set returned from a
// prior Parse call is also accepted directly, so that parse-then-build
// round-trips without the caller having to re-wrap the result.
func (c *Codec) Build(values any) ([]byte, error) {
	b, err := c.root.build(values)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Parse deserializes an attribute payload into a value tree.
func (c *Codec) Parse(b []byte) (*Set, error) {
	return c.root.parseSet(b)
}

// compileField compiles a single field description into a codec, within
// the given scope's id table and shared global index.
func compileField(f Field, ids IDTable, idx *globalIndex) (codec, error) {
	if _, ok := ids[f.Name]; f.Name != "" && !ok {
		codecmetrics.CompileErrors.WithLabelValues("unknown_name").Inc()
		return nil, &SchemaError{Name: f.Name, Msg: "symbolic name not found in id table"}
	}

	switch t := f.Type.(type) {
	case []Field:
		return compileSet(f.Name, t, ids, idx)
	case string:
		switch t {
		case "array":
			child, err := compileSubElem(f.SubElem, ids, idx)
			if err != nil {
				return nil, err
			}
			ac, err := newArrayCodec(child)
			if err != nil {
				codecmetrics.CompileErrors.WithLabelValues("no_fixed_size").Inc()
				return nil, err
			}
			return ac, nil
		case "list":
			child, err := compileSubElem(f.SubElem, ids, idx)
			if err != nil {
				return nil, err
			}
			return newListCodec(child), nil
		default:
			return compileLeaf(t)
		}
	default:
		codecmetrics.CompileErrors.WithLabelValues("malformed").Inc()
		return nil, &SchemaError{Name: f.Name, Msg: "field has no recognizable type"}
	}
}

// compileSubElem normalizes a collection's subelem_type — a bare string, a
// Field, or a []Field describing a directly-nested attribute set — into a
// compiled codec. A bare string is shorthand for {Type: <string>}.
func compileSubElem(se any, ids IDTable, idx *globalIndex) (codec, error) {
	switch v := se.(type) {
	case string:
		return compileField(Field{Type: v}, ids, idx)
	case Field:
		return compileField(v, ids, idx)
	case []Field:
		return compileSet("<element>", v, ids, idx)
	case nil:
		codecmetrics.CompileErrors.WithLabelValues("malformed").Inc()
		return nil, &SchemaError{Msg: "collection field is missing subelem_type"}
	default:
		codecmetrics.CompileErrors.WithLabelValues("malformed").Inc()
		return nil, &SchemaError{Msg: "subelem_type has unrecognized shape"}
	}
}

// compileLeaf looks up a leaf codec class by its type string.
func compileLeaf(t string) (codec, error) {
	switch t {
	case "u8":
		return &intCodec{name: "u8", width: 1, signed: false}, nil
	case "u16":
		return &intCodec{name: "u16", width: 2, signed: false}, nil
	case "s16":
		return &intCodec{name: "s16", width: 2, signed: true}, nil
	case "u32":
		return &intCodec{name: "u32", width: 4, signed: false}, nil
	case "u64":
		return &intCodec{name: "u64", width: 8, signed: false}, nil
	case "str":
		return stringCodec{}, nil
	case "bytes":
		return bytesCodec{}, nil
	case "flag":
		return flagCodec{}, nil
	default:
		codecmetrics.CompileErrors.WithLabelValues("malformed").Inc()
		return nil, &SchemaError{Msg: "unknown type " + t}
	}
}

// compileSet compiles an ordered sequence of field descriptions into an
// attribute-set codec: deriving the scope's short-name map (see
// commonShortNamePrefix), recursively compiling each child, and recording
// which children are required.
func compileSet(scopeName string, fields []Field, ids IDTable, idx *globalIndex) (*setCodec, error) {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	prefix := commonShortNamePrefix(names)

	sc := &setCodec{
		scopeName:     scopeName,
		children:      make(map[string]codec, len(fields)),
		ids:           ids,
		required:      make(map[string]bool),
		shortToSymbol: make(map[string]string, len(fields)),
		symbolToShort: make(map[string]string, len(fields)),
		index:         idx,
	}

	for _, f := range fields {
		child, err := compileField(f, ids, idx)
		if err != nil {
			return nil, err
		}
		sc.childOrder = append(sc.childOrder, f.Name)
		sc.children[f.Name] = child

		short := f.ShortName
		if short == "" {
			short = strings.ToLower(strings.TrimPrefix(f.Name, prefix))
			if short == "" {
				short = strings.ToLower(f.Name)
			}
		}
		sc.shortToSymbol[short] = f.Name
		sc.symbolToShort[f.Name] = short

		if f.Required {
			sc.required[f.Name] = true
		}
	}

	return sc, nil
}

// commonShortNamePrefix computes the longest common prefix of names,
// extended up to and including the next underscore if it doesn't already
// end in one. If the extended prefix would swallow some sibling name whole
// — most commonly a single-field scope, where the "common" prefix is
// trivially the entire name — it backs off to the last underscore inside
// the prefix itself, so every sibling keeps a non-empty unique suffix. If
// names share no common prefix at all, the empty string is returned and
// short names fall back to the full lowercase symbolic name; this is
// acceptable and deterministic, just verbose.
func commonShortNamePrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	prefix := names[0]
	for _, n := range names[1:] {
		prefix = commonStringPrefix(prefix, n)
		if prefix == "" {
			return ""
		}
	}

	if !strings.HasSuffix(prefix, "_") {
		for _, n := range names {
			if len(n) > len(prefix) && n[len(prefix)] == '_' {
				prefix = n[:len(prefix)+1]
				break
			}
		}
	}

	for _, n := range names {
		if len(prefix) >= len(n) {
			return backOffToLastUnderscore(prefix)
		}
	}
	return prefix
}

// backOffToLastUnderscore truncates prefix to end just after its last
// underscore, not counting a trailing one, or returns "" if it has no other
// underscore (so "ATTR_FOO_" becomes "ATTR_" and "ATTR_" becomes "").
func backOffToLastUnderscore(prefix string) string {
	trimmed := strings.TrimSuffix(prefix, "_")
	idx := strings.LastIndex(trimmed, "_")
	if idx < 0 {
		return ""
	}
	return prefix[:idx+1]
}

func commonStringPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
