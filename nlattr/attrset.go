package nlattr

import (
	"fmt"
	"strings"
	"time"

	"github.com/m-lab/go/logx"

	"github.com/bluwireless/genl/internal/codecmetrics"
)

// unknownAttrLog rate-limits the soft-anomaly log line below so that a busy
// socket consumer streaming malformed or newer-than-schema attribute sets
// doesn't get logged to death.
var unknownAttrLog = logx.NewLogEvery(nil, time.Second)

// setCodec is the attribute-set codec: an ordered map from child symbolic
// name to child codec, the shared name->id table, the set of required child
// names, and the scope's short-name map.
type setCodec struct {
	scopeName     string // for diagnostics only, e.g. "root" or a field's symbolic name
	childOrder    []string
	children      map[string]codec
	ids           IDTable
	required      map[string]bool
	shortToSymbol map[string]string
	symbolToShort map[string]string
	index         *globalIndex
}

func (c *setCodec) kind() string { return "attrset" }

// build implements codec.build against either an *AttrValues (the normal
// caller-supplied build input) or a *Set (a previously parsed value fed
// straight back in, which round-trip properties require this codec to
// accept: parse followed by build must reproduce the original bytes).
func (c *setCodec) build(v any) ([]byte, error) {
	switch val := v.(type) {
	case *AttrValues:
		return c.buildValues(val)
	case *Set:
		ov := NewOrderedValues()
		for _, name := range val.Names() {
			cv, _ := val.Get(name)
			ov.Set(name, cv)
		}
		return c.buildValues(BySymbol(ov))
	default:
		return nil, &InputError{Name: c.scopeName, Msg: "value is not *nlattr.AttrValues or *nlattr.Set"}
	}
}

func (c *setCodec) buildValues(av *AttrValues) ([]byte, error) {
	if (av.bySymbol == nil) == (av.byShort == nil) {
		return nil, &InputError{Name: c.scopeName, Msg: "exactly one of the symbolic or short-name forms must be provided"}
	}

	var keys []string
	values := make(map[string]any)
	if av.bySymbol != nil {
		keys = av.bySymbol.Keys()
		for _, k := range keys {
			v, _ := av.bySymbol.Get(k)
			if _, ok := c.children[k]; !ok {
				return nil, &InputError{Name: k, Msg: "unknown attribute"}
			}
			values[k] = v
		}
	} else {
		for _, short := range av.byShort.Keys() {
			name, ok := c.shortToSymbol[short]
			if !ok {
				return nil, &InputError{Name: short, Msg: "unknown short name"}
			}
			v, _ := av.byShort.Get(short)
			keys = append(keys, name)
			values[name] = v
		}
	}

	present := make(map[string]bool, len(keys))
	var out []byte
	for _, name := range keys {
		present[name] = true
		child := c.children[name]
		val := values[name]

		if _, isFlag := child.(flagCodec); isFlag {
			b, ok := val.(bool)
			if !ok {
				return nil, &InputError{Name: name, Msg: "value is not a bool"}
			}
			if !b {
				continue
			}
			out = append(out, wrapTLV(c.ids[name], nil)...)
			continue
		}

		payload, err := child.build(val)
		if err != nil {
			codecmetrics.BuildErrors.WithLabelValues(child.kind()).Inc()
			return nil, wrapChildError(name, child.kind(), err)
		}
		out = append(out, wrapTLV(c.ids[name], payload)...)
	}

	for name := range c.required {
		if !present[name] {
			return nil, &InputError{Name: name, Msg: "missing required attribute"}
		}
	}

	return out, nil
}

func (c *setCodec) parse(b []byte) (any, error) {
	return c.parseSet(b)
}

func (c *setCodec) parseSet(b []byte) (*Set, error) {
	attrs, err := splitAttrs(b)
	if err != nil {
		return nil, err
	}

	result := newSet(c.shortToSymbol)
	for _, a := range attrs {
		name, child, ok := c.lookupByID(a.typeID)
		if !ok {
			codecmetrics.SkippedAttributes.WithLabelValues(c.scopeName).Inc()
			unknownAttrLog.Println(c.unknownAttrWarning(a.typeID))
			continue
		}

		v, err := child.parse(a.payload)
		if err != nil {
			codecmetrics.ParseErrors.WithLabelValues(child.kind()).Inc()
			return nil, wrapChildError(name, child.kind(), err)
		}
		result.set(name, v)
	}

	for name := range c.required {
		if _, ok := result.Get(name); !ok {
			return nil, &WireError{Msg: "missing required attribute " + name}
		}
	}

	return result, nil
}

// lookupByID finds the unique child whose declared id equals typeID.
func (c *setCodec) lookupByID(typeID uint16) (string, codec, bool) {
	for _, name := range c.childOrder {
		if c.ids[name] == typeID {
			return name, c.children[name], true
		}
	}
	return "", nil, false
}

// unknownAttrWarning builds the warning text for an unrecognized type id,
// including candidate symbolic names from any scope in the compiled tree
// that happens to share that numeric id, not just this scope's own ids —
// the id alone is rarely enough to guess which attribute went missing from
// the schema.
func (c *setCodec) unknownAttrWarning(typeID uint16) string {
	msg := fmt.Sprintf("nlattr: ignoring unknown attribute id %d in %s", typeID, c.scopeName)
	candidates := c.index.byID[typeID]
	if len(candidates) > 0 {
		msg += " (could be " + strings.Join(candidates, ", ") + ")"
	}
	return msg
}
