package core

import "encoding/json"

// Item is a single-slot cell at a fixed key, holding a canonical-JSON
// encoded T (spec §4.4).
type Item[T any] struct {
	key []byte
}

// NewItem declares an Item at the given canonical key.
func NewItem[T any](key string) Item[T] {
	return Item[T]{key: []byte(key)}
}

func (i Item[T]) Save(s Storage, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return InvalidInput("marshal item: " + err.Error())
	}
	return s.Write(i.key, data)
}

// Load returns NotFound if the slot is empty.
func (i Item[T]) Load(s Storage) (T, error) {
	var out T
	data, ok, err := s.Read(i.key)
	if err != nil {
		return out, err
	}
	if !ok {
		return out, NotFound("item", string(i.key))
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, InvalidInput("unmarshal item: " + err.Error())
	}
	return out, nil
}

// MayLoad returns (nil, nil) if the slot is empty instead of NotFound.
func (i Item[T]) MayLoad(s Storage) (*T, error) {
	data, ok, err := s.Read(i.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, InvalidInput("unmarshal item: " + err.Error())
	}
	return &out, nil
}

func (i Item[T]) Remove(s Storage) error {
	return s.Remove(i.key)
}

// Keyer produces the canonical key-space encoding for a Map key type. For
// composite keys, implementations should use EncodeCompositeKey so that
// "ab"||"c" and "a"||"bc" can never collide (spec §4.4).
type Keyer interface {
	MapKey() []byte
}

// EncodeCompositeKey length-prefixes each part so concatenation is
// unambiguous: each part is preceded by a 2-byte big-endian length, except
// the last part (which needs no terminator since nothing follows it).
func EncodeCompositeKey(parts ...[]byte) []byte {
	var out []byte
	for i, p := range parts {
		if i == len(parts)-1 {
			out = append(out, p...)
			continue
		}
		l := len(p)
		out = append(out, byte(l>>8), byte(l))
		out = append(out, p...)
	}
	return out
}

// Bound describes one end of a Map.Range query.
type Bound struct {
	Value     []byte
	Exclusive bool
}

// BoundInclusive returns a Bound that includes Value.
func BoundInclusive(value []byte) *Bound { return &Bound{Value: value} }

// BoundExclusive returns a Bound that excludes Value.
func BoundExclusive(value []byte) *Bound { return &Bound{Value: value, Exclusive: true} }

// successor returns the lexicographically smallest byte string strictly
// greater than b: appending a single zero byte. No string sorts between b
// and b+[0x00], since any continuation of b is >= b+[0x00].
func successor(b []byte) []byte {
	out := make([]byte, len(b)+1)
	copy(out, b)
	return out
}

// prefixUpperBound returns the smallest key that does not share prefix, by
// incrementing the last byte that isn't 0xFF and dropping everything after
// it. Unlike successor, this does not merely extend prefix by one byte: any
// key of the form prefix+<suffix> sorts below the result regardless of
// suffix length, which is what an unbounded-above range scan over a prefix
// needs. If prefix is empty or entirely 0xFF bytes, there is no such bound,
// so the result is nil (scan to the end of the keyspace).
func prefixUpperBound(prefix []byte) []byte {
	out := append([]byte(nil), prefix...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 0xFF {
			out[i]++
			return out[:i+1]
		}
	}
	return nil
}

func scanMin(prefix []byte, b *Bound) []byte {
	if b == nil {
		return prefix
	}
	key := append(append([]byte(nil), prefix...), b.Value...)
	if b.Exclusive {
		return successor(key)
	}
	return key
}

func scanMax(prefix []byte, b *Bound) []byte {
	if b == nil {
		return prefixUpperBound(prefix)
	}
	key := append(append([]byte(nil), prefix...), b.Value...)
	if b.Exclusive {
		return key
	}
	return successor(key)
}

// Map is a keyed collection of canonical-JSON-encoded records under a
// storage prefix (spec §4.4).
type Map[K Keyer, V any] struct {
	prefix []byte
}

// NewMap declares a Map at the given storage prefix.
func NewMap[K Keyer, V any](prefix string) Map[K, V] {
	return Map[K, V]{prefix: []byte(prefix)}
}

func (m Map[K, V]) fullKey(k K) []byte {
	return append(append([]byte(nil), m.prefix...), k.MapKey()...)
}

func (m Map[K, V]) Save(s Storage, k K, v V) error {
	data, err := json.Marshal(v)
	if err != nil {
		return InvalidInput("marshal map value: " + err.Error())
	}
	return s.Write(m.fullKey(k), data)
}

func (m Map[K, V]) Load(s Storage, k K) (V, error) {
	var out V
	data, ok, err := s.Read(m.fullKey(k))
	if err != nil {
		return out, err
	}
	if !ok {
		return out, NotFound("map entry", string(k.MapKey()))
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, InvalidInput("unmarshal map value: " + err.Error())
	}
	return out, nil
}

func (m Map[K, V]) Has(s Storage, k K) (bool, error) {
	_, ok, err := s.Read(m.fullKey(k))
	return ok, err
}

func (m Map[K, V]) Remove(s Storage, k K) error {
	return s.Remove(m.fullKey(k))
}

// RawEntry is one (full storage key, decoded value) pair from Range. The key
// includes the map's prefix; callers typically only need Value, or strip the
// prefix themselves when the suffix encodes a caller-meaningful ID.
type RawEntry[V any] struct {
	Key   []byte
	Value V
}

// Range scans entries in [min,max) order (after prefixing), honoring
// Bound.Exclusive on either end. A nil bound is unbounded on that side.
func (m Map[K, V]) Range(s Storage, min, max *Bound, order Order) ([]RawEntry[V], error) {
	it, err := s.Scan(scanMin(m.prefix, min), scanMax(m.prefix, max), order)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []RawEntry[V]
	for it.Next() {
		var v V
		if err := json.Unmarshal(it.Value(), &v); err != nil {
			return nil, InvalidInput("unmarshal map value: " + err.Error())
		}
		out = append(out, RawEntry[V]{Key: append([]byte(nil), it.Key()...), Value: v})
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return out, nil
}
