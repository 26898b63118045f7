package metadata

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"reflect"
)

var (
	// ErrKeyExists is returned by Insert when the key is already present.
	ErrKeyExists = errors.New("metadata key exists")

	// ErrKeyNotFound is returned when a key is not present in the store.
	ErrKeyNotFound = errors.New("metadata key not found")

	// ErrTypeMismatch is returned when the requested type differs from the
	// type recorded at insertion.
	ErrTypeMismatch = errors.New("metadata type mismatch")
)

// entry boxes a stored value behind a pointer so Upd can hand out a mutable
// reference, together with the type recorded at insertion.
type entry struct {
	value any // always a *T for the T used at insertion
	typ   reflect.Type
}

// Store is a string-keyed store of type-erased values. The zero value is not
// usable; create instances with NewStore.
type Store struct {
	entries map[string]entry
}

// NewStore creates an empty metadata store.
func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Insert stores value under key. The dynamic type T is recorded with the
// entry and is required for later retrieval.
func Insert[T any](s *Store, key string, value T) error {
	if _, ok := s.entries[key]; ok {
		return fmt.Errorf("key %q: %w", key, ErrKeyExists)
	}
	s.entries[key] = entry{value: &value, typ: reflect.TypeFor[T]()}

	return nil
}

// Get returns the value stored under key. T must be exactly the type used at
// insertion.
func Get[T any](s *Store, key string) (T, error) {
	p, err := Upd[T](s, key)
	if err != nil {
		var zero T
		return zero, err
	}

	return *p, nil
}

// Upd returns a pointer to the value stored under key, allowing in-place
// mutation. T must be exactly the type used at insertion.
func Upd[T any](s *Store, key string) (*T, error) {
	e, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, ErrKeyNotFound)
	}
	p, ok := e.value.(*T)
	if !ok {
		return nil, fmt.Errorf("key %q holds %s, requested %s: %w",
			key, e.typ, reflect.TypeFor[T](), ErrTypeMismatch)
	}

	return p, nil
}

// Pop removes the entry under key and returns its value. T must be exactly
// the type used at insertion; on mismatch the entry is left in place.
func Pop[T any](s *Store, key string) (T, error) {
	v, err := Get[T](s, key)
	if err != nil {
		var zero T
		return zero, err
	}
	delete(s.entries, key)

	return v, nil
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Remove deletes the entry under key and reports whether a removal occurred.
func (s *Store) Remove(key string) bool {
	_, ok := s.entries[key]
	delete(s.entries, key)

	return ok
}

// Clear removes all entries.
func (s *Store) Clear() {
	clear(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Keys returns an iterator over the stored keys, in no particular order.
func (s *Store) Keys() iter.Seq[string] {
	return maps.Keys(s.entries)
}

// Clone returns an independent copy of the store. Stored values are copied by
// value; pointers previously handed out by Upd keep referring to the source
// store's values.
func (s *Store) Clone() *Store {
	cp := NewStore()
	for key, e := range s.entries {
		ne := entry{typ: e.typ}
		// Re-box the value so the clone owns its own cell.
		src := reflect.ValueOf(e.value).Elem()
		dst := reflect.New(e.typ)
		dst.Elem().Set(src)
		ne.value = dst.Interface()
		cp.entries[key] = ne
	}

	return cp
}
