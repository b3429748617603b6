package core

import (
	"errors"
	"testing"
)

func TestItemSaveLoad(t *testing.T) {
	s := NewMemStorage()
	item := NewItem[string]("greeting")

	if _, err := item.Load(s); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}

	if err := item.Save(s, "hello"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := item.Load(s)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want hello", got)
	}

	if err := item.Remove(s); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if v, err := item.MayLoad(s); err != nil || v != nil {
		t.Fatalf("expected nil, nil after remove, got %v, %v", v, err)
	}
}

type testKey [4]byte

func (k testKey) MapKey() []byte { return k[:] }

func TestMapSaveLoadHas(t *testing.T) {
	s := NewMemStorage()
	m := NewMap[testKey, int]("counters/")

	k := testKey{1, 2, 3, 4}
	if has, err := m.Has(s, k); err != nil || has {
		t.Fatalf("expected absent, got has=%v err=%v", has, err)
	}
	if err := m.Save(s, k, 42); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := m.Load(s, k)
	if err != nil || got != 42 {
		t.Fatalf("got %d, err %v, want 42", got, err)
	}
	if has, err := m.Has(s, k); err != nil || !has {
		t.Fatalf("expected present, got has=%v err=%v", has, err)
	}
}

func TestMapRangeOrderingAndBounds(t *testing.T) {
	s := NewMemStorage()
	m := NewMap[Addr, int]("accts/")

	addrs := make([]Addr, 5)
	for i := range addrs {
		addrs[i][AddrLength-1] = byte(i)
		if err := m.Save(s, addrs[i], i); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	all, err := m.Range(s, nil, nil, Ascending)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(all))
	}
	for i, e := range all {
		if e.Value != i {
			t.Fatalf("entry %d: got value %d, want %d (ordering broken)", i, e.Value, i)
		}
	}

	// Exclusive lower bound at addrs[1] should skip addrs[0] and addrs[1].
	from, err := m.Range(s, BoundExclusive(addrs[1].MapKey()), nil, Ascending)
	if err != nil {
		t.Fatalf("range exclusive min: %v", err)
	}
	if len(from) != 3 || from[0].Value != 2 {
		t.Fatalf("expected entries [2,3,4], got %+v", from)
	}

	// Inclusive upper bound at addrs[2] should include addrs[0..2].
	upto, err := m.Range(s, nil, BoundInclusive(addrs[2].MapKey()), Ascending)
	if err != nil {
		t.Fatalf("range inclusive max: %v", err)
	}
	if len(upto) != 3 || upto[2].Value != 2 {
		t.Fatalf("expected entries [0,1,2], got %+v", upto)
	}

	// Exclusive upper bound at addrs[2] should include only addrs[0..1].
	before, err := m.Range(s, nil, BoundExclusive(addrs[2].MapKey()), Ascending)
	if err != nil {
		t.Fatalf("range exclusive max: %v", err)
	}
	if len(before) != 2 {
		t.Fatalf("expected 2 entries, got %+v", before)
	}

	desc, err := m.Range(s, nil, nil, Descending)
	if err != nil {
		t.Fatalf("range desc: %v", err)
	}
	if len(desc) != 5 || desc[0].Value != 4 {
		t.Fatalf("expected descending order starting at 4, got %+v", desc)
	}
}

func TestPrefixUpperBoundExcludesAllPrefixedKeys(t *testing.T) {
	prefix := []byte("a/")
	upper := prefixUpperBound(prefix)

	longest := append(append([]byte(nil), prefix...), 0xFF, 0xFF, 0xFF, 0xFF)
	if compareBytes(longest, upper) >= 0 {
		t.Fatalf("expected even the longest possible key under %q (%x) to sort below the upper bound %x", prefix, longest, upper)
	}
	if compareBytes(prefix, upper) >= 0 {
		t.Fatalf("expected the bare prefix itself to sort below the upper bound")
	}
}

func TestPrefixUpperBoundAllFFReturnsNil(t *testing.T) {
	if got := prefixUpperBound([]byte{0xFF, 0xFF}); got != nil {
		t.Fatalf("expected nil upper bound for an all-0xFF prefix, got %x", got)
	}
	if got := prefixUpperBound(nil); got != nil {
		t.Fatalf("expected nil upper bound for an empty prefix, got %x", got)
	}
}

func TestEncodeCompositeKeyNoCollision(t *testing.T) {
	a := EncodeCompositeKey([]byte("ab"), []byte("c"))
	b := EncodeCompositeKey([]byte("a"), []byte("bc"))
	if string(a) == string(b) {
		t.Fatalf("expected distinct encodings for (ab,c) and (a,bc), both gave %x", a)
	}
}
