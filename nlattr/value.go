package nlattr

// Set is a parsed attribute-set value: a name-keyed mapping that preserves
// insertion (= on-wire) order, with a parallel short-name view for
// convenience lookups. Lookup is through two explicit accessors rather than
// attribute-style interception, since Go has no equivalent of __getattr__.
type Set struct {
	order      []string
	values     map[string]any
	shortNames map[string]string // short name -> symbolic name
}

func newSet(shortNames map[string]string) *Set {
	return &Set{
		values:     make(map[string]any),
		shortNames: shortNames,
	}
}

func (s *Set) set(name string, v any) {
	if _, exists := s.values[name]; !exists {
		s.order = append(s.order, name)
	}
	s.values[name] = v
}

// Get looks up a child value by its symbolic name.
func (s *Set) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// GetShort looks up a child value by its short name, delegating to the
// scope's short-name map.
func (s *Set) GetShort(short string) (any, bool) {
	name, ok := s.shortNames[short]
	if !ok {
		return nil, false
	}
	return s.Get(name)
}

// Names returns the symbolic names present, in insertion (wire) order.
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of attributes present.
func (s *Set) Len() int {
	return len(s.order)
}

// OrderedValues is an ordered name-to-value mapping accepted at the build
// boundary. Plain Go maps have unspecified iteration order, but the order
// attributes are emitted on the wire is part of build's observable
// contract, so an explicit ordered type is needed here.
type OrderedValues struct {
	order []string
	m     map[string]any
}

// NewOrderedValues returns an empty OrderedValues ready for Set calls.
func NewOrderedValues() *OrderedValues {
	return &OrderedValues{m: make(map[string]any)}
}

// Set assigns key to v, appending key to the iteration order the first time
// it's used and overwriting the value (without moving its position) on
// repeat calls.
func (o *OrderedValues) Set(key string, v any) *OrderedValues {
	if _, exists := o.m[key]; !exists {
		o.order = append(o.order, key)
	}
	o.m[key] = v
	return o
}

// Keys returns the keys in the order they were first set.
func (o *OrderedValues) Keys() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Get returns the value for key, if present.
func (o *OrderedValues) Get(key string) (any, bool) {
	v, ok := o.m[key]
	return v, ok
}

// Len returns the number of keys set.
func (o *OrderedValues) Len() int {
	return len(o.order)
}

// AttrValues is the mutually-exclusive build input: either a positional
// (symbolic-name-keyed) mapping, or a short-name mapping, never both,
// never neither.
type AttrValues struct {
	bySymbol *OrderedValues
	byShort  *OrderedValues
}

// BySymbol builds an AttrValues from a symbolic-name-keyed mapping.
func BySymbol(values *OrderedValues) *AttrValues {
	return &AttrValues{bySymbol: values}
}

// ByShort builds an AttrValues from a short-name-keyed mapping.
func ByShort(values *OrderedValues) *AttrValues {
	return &AttrValues{byShort: values}
}
