package core

// PrefixStore is a Storage view that transparently namespaces every key
// under a fixed prefix, so a contract's host-function calls can never read
// or write outside its own partition of the tree (spec §4.5, "each
// contract's storage is private... all housekeeping is done by prefixing
// keys with w/<contract address>/").
type PrefixStore struct {
	inner  Storage
	prefix []byte
}

// NewPrefixStore returns a view of inner restricted to keys under prefix.
func NewPrefixStore(inner Storage, prefix []byte) *PrefixStore {
	return &PrefixStore{inner: inner, prefix: prefix}
}

func (p *PrefixStore) namespaced(key []byte) []byte {
	return append(append([]byte(nil), p.prefix...), key...)
}

func (p *PrefixStore) Read(key []byte) ([]byte, bool, error) {
	return p.inner.Read(p.namespaced(key))
}

func (p *PrefixStore) Write(key, value []byte) error {
	return p.inner.Write(p.namespaced(key), value)
}

func (p *PrefixStore) Remove(key []byte) error {
	return p.inner.Remove(p.namespaced(key))
}

// Scan translates a sub-range within the namespace to the underlying
// key-space and strips the prefix back off before returning pairs, so
// contract code never observes its own address prefix.
func (p *PrefixStore) Scan(min, max []byte, order Order) (Iterator, error) {
	// Storage.Scan's own convention is min-inclusive/max-exclusive, so the
	// raw max must map to an exclusive Bound (no further successor
	// adjustment) while the raw min maps to an inclusive one.
	innerMin := scanMin(p.prefix, boundOrNil(min, false))
	innerMax := scanMax(p.prefix, boundOrNil(max, true))
	it, err := p.inner.Scan(innerMin, innerMax, order)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var pairs []kvPair
	for it.Next() {
		key := it.Key()
		if len(key) < len(p.prefix) {
			continue
		}
		pairs = append(pairs, kvPair{
			key:   append([]byte(nil), key[len(p.prefix):]...),
			value: append([]byte(nil), it.Value()...),
		})
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return newSliceIterator(pairs), nil
}

// boundOrNil turns a raw, possibly-nil scan bound into the *Bound shape
// scanMin/scanMax expect, tagging it exclusive or inclusive as the caller
// directs.
func boundOrNil(b []byte, exclusive bool) *Bound {
	if b == nil {
		return nil
	}
	return &Bound{Value: b, Exclusive: exclusive}
}

var _ Storage = (*PrefixStore)(nil)
