package nlattr

// codec is the common interface implemented by every compiled node in the
// tree the schema compiler produces: leaf codecs (integer, string, bytes,
// flag), collection codecs (array, list), and the attribute-set codec.
type codec interface {
	// kind names the codec for diagnostics (e.g. "u32", "string", "array",
	// "list", "attrset").
	kind() string

	// build serializes v into the attribute's unaligned wire payload (no
	// TLV header, no padding — the caller, typically an attribute-set
	// codec, adds those).
	build(v any) ([]byte, error)

	// parse deserializes an unaligned wire payload into a value.
	parse(b []byte) (any, error)
}

// fixedSizer is implemented by codecs that expose a constant per-element
// size, which the array codec requires of its child.
type fixedSizer interface {
	elemSize() int
}
