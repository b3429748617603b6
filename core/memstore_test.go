package core

import "testing"

func TestMemStorageScanOrdering(t *testing.T) {
	m := NewMemStorage()
	for _, k := range []string{"c", "a", "b"} {
		if err := m.Write([]byte(k), []byte(k)); err != nil {
			t.Fatalf("write %s: %v", k, err)
		}
	}

	it, err := m.Scan(nil, nil, Ascending)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	if want := []string{"a", "b", "c"}; !equalStrings(got, want) {
		t.Fatalf("ascending scan: got %v, want %v", got, want)
	}

	it, err = m.Scan(nil, nil, Descending)
	if err != nil {
		t.Fatalf("scan desc: %v", err)
	}
	got = nil
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	if want := []string{"c", "b", "a"}; !equalStrings(got, want) {
		t.Fatalf("descending scan: got %v, want %v", got, want)
	}
}

func TestMemStorageScanBounds(t *testing.T) {
	m := NewMemStorage()
	for _, k := range []string{"a", "b", "c", "d"} {
		_ = m.Write([]byte(k), []byte(k))
	}
	it, err := m.Scan([]byte("b"), []byte("d"), Ascending)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	if want := []string{"b", "c"}; !equalStrings(got, want) {
		t.Fatalf("bounded scan [b,d): got %v, want %v", got, want)
	}
}

func TestMemStorageRemove(t *testing.T) {
	m := NewMemStorage()
	_ = m.Write([]byte("a"), []byte("1"))
	if err := m.Remove([]byte("a")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := m.Read([]byte("a")); ok {
		t.Fatalf("expected key removed")
	}
	if err := m.Remove([]byte("missing")); err != nil {
		t.Fatalf("remove of absent key must not error: %v", err)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
