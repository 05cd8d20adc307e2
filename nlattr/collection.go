package nlattr

// Array is a parsed array value: an ordered sequence of leaf values, one
// per fixed-size element.
type Array []any

// List is a parsed list value: zero-indexed, possibly sparse. A nil element
// means no TLV was observed at that position. It's unclear whether any real
// kernel path actually produces gaps like this, but nothing rules it out,
// so parse preserves them rather than compacting the list.
type List []any

// arrayCodec handles homogeneous fixed-stride collections: a single TLV
// whose payload is the plain concatenation of fixed-size elements, with no
// inner headers. Compilation requires the element codec to expose a fixed
// size (see fixedSizer), so a schema that can't satisfy that fails at
// compile time rather than on the first build or parse call.
type arrayCodec struct {
	child    codec
	elemSize int
}

func newArrayCodec(child codec) (*arrayCodec, error) {
	fs, ok := child.(fixedSizer)
	if !ok {
		return nil, &SchemaError{Msg: "array element type " + child.kind() + " has no fixed size"}
	}
	return &arrayCodec{child: child, elemSize: fs.elemSize()}, nil
}

func (c *arrayCodec) kind() string { return "array" }

func (c *arrayCodec) build(v any) ([]byte, error) {
	elems, ok := v.(Array)
	if !ok {
		s, ok2 := v.([]any)
		if !ok2 {
			return nil, &InputError{Msg: "value is not an array"}
		}
		elems = Array(s)
	}
	var out []byte
	for _, e := range elems {
		b, err := c.child.build(e)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func (c *arrayCodec) parse(b []byte) (any, error) {
	if c.elemSize == 0 || len(b)%c.elemSize != 0 {
		return nil, &WireError{Msg: "array payload length is not a multiple of element size"}
	}
	n := len(b) / c.elemSize
	out := make(Array, 0, n)
	for i := 0; i < n; i++ {
		chunk := b[i*c.elemSize : (i+1)*c.elemSize]
		v, err := c.child.parse(chunk)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// listCodec handles a positionally-indexed list of sub-records. On the wire
// each element is its own TLV, using a synthetic 1-based type id as its
// position; elements appear in strictly ascending order when built.
type listCodec struct {
	child codec
}

func newListCodec(child codec) *listCodec {
	return &listCodec{child: child}
}

func (c *listCodec) kind() string { return "list" }

func (c *listCodec) build(v any) ([]byte, error) {
	elems, ok := v.(List)
	if !ok {
		s, ok2 := v.([]any)
		if !ok2 {
			return nil, &InputError{Msg: "value is not a list"}
		}
		elems = List(s)
	}
	var out []byte
	pos := uint16(0)
	for _, e := range elems {
		pos++
		if e == nil {
			continue
		}
		payload, err := c.child.build(e)
		if err != nil {
			return nil, err
		}
		out = append(out, wrapTLV(pos, payload)...)
	}
	return out, nil
}

func (c *listCodec) parse(b []byte) (any, error) {
	attrs, err := splitAttrs(b)
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return List{}, nil
	}
	max := uint16(0)
	for _, a := range attrs {
		if a.typeID > max {
			max = a.typeID
		}
	}
	out := make(List, max)
	for _, a := range attrs {
		if a.typeID == 0 {
			return nil, &WireError{Msg: "list element has type id 0"}
		}
		v, err := c.child.parse(a.payload)
		if err != nil {
			return nil, err
		}
		out[a.typeID-1] = v
	}
	return out, nil
}
