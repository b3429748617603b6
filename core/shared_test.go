package core

import (
	"errors"
	"testing"
)

func TestSharedStoreReadWriteThrough(t *testing.T) {
	inner := NewMemStorage()
	shared := NewSharedStore(inner)

	if err := shared.Write([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, ok, err := shared.Read([]byte("k"))
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("got %q ok=%v err=%v", v, ok, err)
	}
}

func TestSharedStorePoisonsAfterPanic(t *testing.T) {
	shared := NewSharedStore(&panickingStorage{})

	func() {
		defer func() { _ = recover() }()
		_, _, _ = shared.Read([]byte("k"))
	}()

	if _, _, err := shared.Read([]byte("k")); !errors.Is(err, ErrPoisoned) {
		t.Fatalf("expected ErrPoisoned after a panicking access, got %v", err)
	}
	if err := shared.Write([]byte("k"), []byte("v")); !errors.Is(err, ErrPoisoned) {
		t.Fatalf("expected every subsequent access to fail fast, got %v", err)
	}
}

type panickingStorage struct{}

func (p *panickingStorage) Read([]byte) ([]byte, bool, error) { panic("boom") }
func (p *panickingStorage) Write([]byte, []byte) error        { return nil }
func (p *panickingStorage) Remove([]byte) error                { return nil }
func (p *panickingStorage) Scan([]byte, []byte, Order) (Iterator, error) {
	return nil, nil
}
