package parquet

import (
	"reflect"
	"sort"
	"sync"
)

// LinkedHashMap is a map that remembers key insertion order, one of the
// concrete map containers the Record Materializer can target (spec §3.1,
// §4.4; SPEC_FULL §12). Zero value is usable.
type LinkedHashMap struct {
	keys   []interface{}
	values map[interface{}]interface{}
}

func NewLinkedHashMap() *LinkedHashMap {
	return &LinkedHashMap{values: map[interface{}]interface{}{}}
}

func (m *LinkedHashMap) Set(key, value interface{}) {
	if m.values == nil {
		m.values = map[interface{}]interface{}{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *LinkedHashMap) Get(key interface{}) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *LinkedHashMap) Len() int { return len(m.keys) }

// Keys returns keys in insertion order.
func (m *LinkedHashMap) Keys() []interface{} { return m.keys }

// TreeMap is a map that iterates keys in sorted order, another concrete
// map container (spec §3.1, §4.4). Keys must be mutually ordered by
// compareInterface (integers, floats, strings, bools).
type TreeMap struct {
	keys   []interface{}
	values map[interface{}]interface{}
}

func NewTreeMap() *TreeMap {
	return &TreeMap{values: map[interface{}]interface{}{}}
}

func (m *TreeMap) Set(key, value interface{}) {
	if _, ok := m.values[key]; !ok {
		i := sort.Search(len(m.keys), func(i int) bool { return compareInterface(m.keys[i], key) >= 0 })
		m.keys = append(m.keys, nil)
		copy(m.keys[i+1:], m.keys[i:])
		m.keys[i] = key
	}
	m.values[key] = value
}

func (m *TreeMap) Get(key interface{}) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *TreeMap) Len() int { return len(m.keys) }

func (m *TreeMap) Keys() []interface{} { return m.keys }

// ConcurrentMap wraps sync.Map for the "concurrent" target map container.
type ConcurrentMap struct {
	m sync.Map
}

func NewConcurrentMap() *ConcurrentMap { return &ConcurrentMap{} }

func (m *ConcurrentMap) Set(key, value interface{}) { m.m.Store(key, value) }

func (m *ConcurrentMap) Get(key interface{}) (interface{}, bool) { return m.m.Load(key) }

func compareInterface(a, b interface{}) int {
	switch x := a.(type) {
	case int:
		return compareInterface(int64(x), int64(b.(int)))
	case int8:
		return compareInterface(int64(x), int64(b.(int8)))
	case int16:
		return compareInterface(int64(x), int64(b.(int16)))
	case int32:
		return compareInterface(int64(x), int64(b.(int32)))
	case float32:
		return compareInterface(float64(x), float64(b.(float32)))
	case int64:
		y := b.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case string:
		y := b.(string)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case bool:
		y := b.(bool)
		if x == y {
			return 0
		}
		if !x {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// listBuilder accumulates elements read off a LIST column and yields the
// concrete container the target descriptor asks for (spec §3.1, §4.4).
type listBuilder struct {
	container ListContainer
	goType    reflect.Type
	elems     []interface{}
}

func newListBuilder(l *List) *listBuilder {
	return &listBuilder{container: l.Container, goType: l.GoType}
}

func (b *listBuilder) append(v interface{}) { b.elems = append(b.elems, v) }

func (b *listBuilder) build() interface{} {
	switch b.container {
	case UnorderedSet:
		set := map[interface{}]struct{}{}
		for _, e := range b.elems {
			set[e] = struct{}{}
		}
		return set
	case SpecificListType:
		if b.goType != nil && b.goType.Kind() == reflect.Slice {
			sv := reflect.MakeSlice(b.goType, 0, len(b.elems))
			for _, e := range b.elems {
				sv = reflect.Append(sv, reflect.ValueOf(e))
			}
			return sv.Interface()
		}
		fallthrough
	default: // OrderedSequence
		out := make([]interface{}, len(b.elems))
		copy(out, b.elems)
		return out
	}
}

// mapBuilder accumulates (key, value) pairs read off a MAP column and
// yields the concrete container the target descriptor asks for.
type mapBuilder struct {
	container MapContainer
	goType    reflect.Type
	keys      []interface{}
	values    []interface{}
}

func newMapBuilder(m *Map) *mapBuilder {
	return &mapBuilder{container: m.Container, goType: m.GoType}
}

func (b *mapBuilder) put(k, v interface{}) {
	b.keys = append(b.keys, k)
	b.values = append(b.values, v)
}

func (b *mapBuilder) build() interface{} {
	switch b.container {
	case MapLinkedHash:
		m := NewLinkedHashMap()
		for i := range b.keys {
			m.Set(b.keys[i], b.values[i])
		}
		return m
	case MapTree:
		m := NewTreeMap()
		for i := range b.keys {
			m.Set(b.keys[i], b.values[i])
		}
		return m
	case MapConcurrent:
		m := NewConcurrentMap()
		for i := range b.keys {
			m.Set(b.keys[i], b.values[i])
		}
		return m
	case MapSpecific:
		if b.goType != nil && b.goType.Kind() == reflect.Map {
			mv := reflect.MakeMapWithSize(b.goType, len(b.keys))
			for i := range b.keys {
				mv.SetMapIndex(reflect.ValueOf(b.keys[i]), reflect.ValueOf(b.values[i]))
			}
			return mv.Interface()
		}
		fallthrough
	default: // MapHash
		m := make(map[interface{}]interface{}, len(b.keys))
		for i := range b.keys {
			m[b.keys[i]] = b.values[i]
		}
		return m
	}
}
