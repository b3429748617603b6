package core

import "sort"

// CacheStore wraps an inner Storage with an in-memory Batch overlay (spec
// §4.2). Reads consult the overlay first; writes only ever touch the
// overlay. A cache may itself wrap another cache, so nesting depth is
// unbounded (bounded in practice by the call-stack depth guard in
// wasmhost.go, which limits sub-message recursion).
type CacheStore struct {
	inner Storage
	batch Batch
}

// NewCacheStore wraps inner with a fresh, empty overlay.
func NewCacheStore(inner Storage) *CacheStore {
	return &CacheStore{inner: inner, batch: make(Batch)}
}

func (c *CacheStore) Read(key []byte) ([]byte, bool, error) {
	if op, ok := c.batch[string(key)]; ok {
		if op.Kind == OpDelete {
			return nil, false, nil
		}
		return append([]byte(nil), op.Value...), true, nil
	}
	return c.inner.Read(key)
}

func (c *CacheStore) Write(key, value []byte) error {
	c.batch[string(key)] = Op{Kind: OpPut, Value: append([]byte(nil), value...)}
	return nil
}

func (c *CacheStore) Remove(key []byte) error {
	c.batch[string(key)] = Op{Kind: OpDelete}
	return nil
}

// Scan merges the overlay with the inner store's ordered iteration: pending
// deletes suppress the inner value, pending puts shadow it, and keys are
// emitted in strict lexicographic order (reversed for Descending) per spec
// §4.2/§8 property 3.
func (c *CacheStore) Scan(min, max []byte, order Order) (Iterator, error) {
	innerIt, err := c.inner.Scan(min, max, Ascending)
	if err != nil {
		return nil, err
	}
	defer innerIt.Close()

	merged := make(map[string][]byte)
	for innerIt.Next() {
		merged[string(innerIt.Key())] = append([]byte(nil), innerIt.Value()...)
	}
	if err := innerIt.Error(); err != nil {
		return nil, err
	}
	for k, op := range c.batch {
		key := []byte(k)
		if min != nil && compareBytes(key, min) < 0 {
			continue
		}
		if max != nil && compareBytes(key, max) >= 0 {
			continue
		}
		if op.Kind == OpDelete {
			delete(merged, k)
			continue
		}
		merged[k] = op.Value
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]kvPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, kvPair{key: []byte(k), value: merged[k]})
	}
	if order == Descending {
		for l, r := 0, len(pairs)-1; l < r; l, r = l+1, r-1 {
			pairs[l], pairs[r] = pairs[r], pairs[l]
		}
	}
	return newSliceIterator(pairs), nil
}

// Commit returns the accumulated Batch (to be merged into the parent) and
// resets the overlay to empty.
func (c *CacheStore) Commit() Batch {
	b := c.batch
	c.batch = make(Batch)
	return b
}

// Disassemble yields (Inner, Batch) without applying the overlay.
func (c *CacheStore) Disassemble() (Storage, Batch) {
	return c.inner, c.batch
}

// Discard drops the overlay, leaving the inner store untouched.
func (c *CacheStore) Discard() {
	c.batch = make(Batch)
}

// MergeBatch applies Batch b into a parent CacheStore's overlay, as if
// each pending op had been written directly to the parent. This is how a
// successful inner commit is promoted to its outer cache (spec §4.2
// nesting).
func MergeBatch(parent *CacheStore, b Batch) {
	for k, op := range b {
		parent.batch[k] = op
	}
}

var _ Storage = (*CacheStore)(nil)
