package evaluator

import (
	"sort"
	"strings"
)

// List is a mutable ordered sequence.
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = inspectQuoted(el)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Tuple is a fixed-arity immutable sequence.
type Tuple struct {
	Elements []Object
}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) Inspect() string {
	parts := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		parts[i] = inspectQuoted(el)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Record is a name→value object. TypeName is empty for anonymous
// records and carries the struct name for struct literals. Keys keeps
// insertion order for deterministic iteration and printing.
type Record struct {
	TypeName string
	Keys     []string
	Fields   map[string]Object
}

func NewRecord(typeName string) *Record {
	return &Record{TypeName: typeName, Fields: make(map[string]Object)}
}

func (r *Record) Set(key string, val Object) {
	if _, ok := r.Fields[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Fields[key] = val
}

func (r *Record) Get(key string) (Object, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

func (r *Record) Remove(key string) bool {
	if _, ok := r.Fields[key]; !ok {
		return false
	}
	delete(r.Fields, key)
	for i, k := range r.Keys {
		if k == key {
			r.Keys = append(r.Keys[:i], r.Keys[i+1:]...)
			break
		}
	}
	return true
}

// Clone copies the record one level deep, for copy-on-write updates.
func (r *Record) Clone() *Record {
	out := &Record{TypeName: r.TypeName, Keys: append([]string(nil), r.Keys...), Fields: make(map[string]Object, len(r.Fields))}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return out
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }
func (r *Record) Inspect() string {
	parts := make([]string, 0, len(r.Keys))
	for _, k := range r.Keys {
		parts = append(parts, k+": "+inspectQuoted(r.Fields[k]))
	}
	body := "{" + strings.Join(parts, ", ") + "}"
	if r.TypeName != "" {
		return r.TypeName + " " + body
	}
	return body
}

// Map is a hash map keyed by hashable objects. Pairs chains resolve
// collisions by exact equality.
type Map struct {
	Pairs map[uint32][]MapPair
	Size  int
}

type MapPair struct {
	Key   Object
	Value Object
}

func NewMap() *Map { return &Map{Pairs: make(map[uint32][]MapPair)} }

func (m *Map) Set(key Hashable, val Object) {
	h := key.HashKey()
	for i, p := range m.Pairs[h] {
		if objectsEqual(p.Key, key) {
			m.Pairs[h][i].Value = val
			return
		}
	}
	m.Pairs[h] = append(m.Pairs[h], MapPair{Key: key, Value: val})
	m.Size++
}

func (m *Map) Get(key Hashable) (Object, bool) {
	for _, p := range m.Pairs[key.HashKey()] {
		if objectsEqual(p.Key, key) {
			return p.Value, true
		}
	}
	return nil, false
}

func (m *Map) Delete(key Hashable) bool {
	h := key.HashKey()
	for i, p := range m.Pairs[h] {
		if objectsEqual(p.Key, key) {
			m.Pairs[h] = append(m.Pairs[h][:i], m.Pairs[h][i+1:]...)
			m.Size--
			return true
		}
	}
	return false
}

// SortedPairs returns the entries ordered by key rendering, so map
// printing and iteration are deterministic.
func (m *Map) SortedPairs() []MapPair {
	var out []MapPair
	for _, chain := range m.Pairs {
		out = append(out, chain...)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.Inspect() < out[j].Key.Inspect()
	})
	return out
}

func (m *Map) Type() ObjectType { return MAP_OBJ }
func (m *Map) Inspect() string {
	pairs := m.SortedPairs()
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = inspectQuoted(p.Key) + ": " + inspectQuoted(p.Value)
	}
	return "#{" + strings.Join(parts, ", ") + "}"
}

// Set is a hash set of hashable objects.
type Set struct {
	entries map[uint32][]Object
	Size    int
}

func NewSet() *Set { return &Set{entries: make(map[uint32][]Object)} }

func (s *Set) Add(val Hashable) bool {
	h := val.HashKey()
	for _, e := range s.entries[h] {
		if objectsEqual(e, val) {
			return false
		}
	}
	s.entries[h] = append(s.entries[h], val)
	s.Size++
	return true
}

func (s *Set) Contains(val Hashable) bool {
	for _, e := range s.entries[val.HashKey()] {
		if objectsEqual(e, val) {
			return true
		}
	}
	return false
}

func (s *Set) Remove(val Hashable) bool {
	h := val.HashKey()
	for i, e := range s.entries[h] {
		if objectsEqual(e, val) {
			s.entries[h] = append(s.entries[h][:i], s.entries[h][i+1:]...)
			s.Size--
			return true
		}
	}
	return false
}

// Sorted returns the members ordered by rendering.
func (s *Set) Sorted() []Object {
	var out []Object
	for _, chain := range s.entries {
		out = append(out, chain...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Inspect() < out[j].Inspect() })
	return out
}

func (s *Set) Type() ObjectType { return SET_OBJ }
func (s *Set) Inspect() string {
	members := s.Sorted()
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = inspectQuoted(m)
	}
	return "#[" + strings.Join(parts, ", ") + "]"
}

// Range is a lazy integer interval.
type Range struct {
	Start     int64
	End       int64
	Inclusive bool
}

func (r *Range) Type() ObjectType { return RANGE_OBJ }
func (r *Range) Inspect() string {
	op := ".."
	if r.Inclusive {
		op = "..="
	}
	return (&Integer{Value: r.Start}).Inspect() + op + (&Integer{Value: r.End}).Inspect()
}

// Len returns the number of elements the range yields.
func (r *Range) Len() int64 {
	n := r.End - r.Start
	if r.Inclusive {
		n++
	}
	if n < 0 {
		return 0
	}
	return n
}

// EnumVariant is a constructed enum value, e.g. Shape::Circle(2.5).
type EnumVariant struct {
	EnumName string
	Variant  string
	Values   []Object
}

func (ev *EnumVariant) Type() ObjectType { return ENUM_VARIANT_OBJ }
func (ev *EnumVariant) Inspect() string {
	name := ev.Variant
	if ev.EnumName != "" {
		name = ev.EnumName + "::" + ev.Variant
	}
	if len(ev.Values) == 0 {
		return name
	}
	parts := make([]string, len(ev.Values))
	for i, v := range ev.Values {
		parts[i] = inspectQuoted(v)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
func (ev *EnumVariant) HashKey() uint32 {
	h := hashString(ev.EnumName + "::" + ev.Variant)
	for _, v := range ev.Values {
		if hv, ok := v.(Hashable); ok {
			h = h*31 + hv.HashKey()
		}
	}
	return h
}

// inspectQuoted renders a value as it appears inside a container:
// strings and chars keep their quotes.
func inspectQuoted(obj Object) string {
	switch o := obj.(type) {
	case *Str:
		return `"` + o.Value + `"`
	default:
		if obj == nil {
			return "nil"
		}
		return obj.Inspect()
	}
}
