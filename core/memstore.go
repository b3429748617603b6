package core

import "sort"

// MemStorage is a pure in-memory Storage backed by a sorted slice. It is
// used by the tests; CheckTx's throwaway state is a CacheStore over the
// App's own storage, not a MemStorage.
type MemStorage struct {
	keys   [][]byte
	values [][]byte
}

// NewMemStorage returns an empty in-memory store.
func NewMemStorage() *MemStorage {
	return &MemStorage{}
}

func (m *MemStorage) find(key []byte) (int, bool) {
	i := sort.Search(len(m.keys), func(i int) bool {
		return compareBytes(m.keys[i], key) >= 0
	})
	if i < len(m.keys) && compareBytes(m.keys[i], key) == 0 {
		return i, true
	}
	return i, false
}

func (m *MemStorage) Read(key []byte) ([]byte, bool, error) {
	i, ok := m.find(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), m.values[i]...), true, nil
}

func (m *MemStorage) Write(key, value []byte) error {
	i, ok := m.find(key)
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	if ok {
		m.values[i] = v
		return nil
	}
	m.keys = append(m.keys, nil)
	copy(m.keys[i+1:], m.keys[i:])
	m.keys[i] = k
	m.values = append(m.values, nil)
	copy(m.values[i+1:], m.values[i:])
	m.values[i] = v
	return nil
}

func (m *MemStorage) Remove(key []byte) error {
	i, ok := m.find(key)
	if !ok {
		return nil
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.values = append(m.values[:i], m.values[i+1:]...)
	return nil
}

func (m *MemStorage) Scan(min, max []byte, order Order) (Iterator, error) {
	lo := 0
	if min != nil {
		lo = sort.Search(len(m.keys), func(i int) bool { return compareBytes(m.keys[i], min) >= 0 })
	}
	hi := len(m.keys)
	if max != nil {
		hi = sort.Search(len(m.keys), func(i int) bool { return compareBytes(m.keys[i], max) >= 0 })
	}
	pairs := make([]kvPair, 0, hi-lo)
	for i := lo; i < hi; i++ {
		pairs = append(pairs, kvPair{key: m.keys[i], value: m.values[i]})
	}
	if order == Descending {
		for l, r := 0, len(pairs)-1; l < r; l, r = l+1, r-1 {
			pairs[l], pairs[r] = pairs[r], pairs[l]
		}
	}
	return newSliceIterator(pairs), nil
}

func (m *MemStorage) FlushBatch(b Batch) error {
	for k, op := range b {
		key := []byte(k)
		switch op.Kind {
		case OpPut:
			if err := m.Write(key, op.Value); err != nil {
				return err
			}
		case OpDelete:
			if err := m.Remove(key); err != nil {
				return err
			}
		}
	}
	return nil
}

var (
	_ Storage = (*MemStorage)(nil)
	_ Flush   = (*MemStorage)(nil)
)
