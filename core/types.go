package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Binary is an opaque byte sequence. It JSON-encodes the way Go's stdlib
// already encodes []byte (base64), which is the canonical wire form the
// rest of the ecosystem (and the contracts talking to this host) expect.
type Binary []byte

// AddrLength is the width of an Addr in bytes. The spec allows 20 or 32; we
// pick 20 to match the pack's own Address convention (teacher's
// core/address_zero.go defines a 20-byte Address).
const AddrLength = 20

// HashLength is the width of a Hash in bytes: a SHA-256 digest.
const HashLength = 32

// Hash is a fixed-width content digest produced by SHA-256.
type Hash [HashLength]byte

// HashBytes computes the SHA-256 digest of data.
func HashBytes(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// ZeroHash is the all-zero placeholder digest used where state
// merklization has not been implemented (spec §1 Non-goals).
var ZeroHash = Hash{}

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// MapKey implements Keyer so Hash can key a Map directly (e.g. CODES).
func (h Hash) MapKey() []byte { return h[:] }

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("decode hash hex: %w", err)
	}
	if len(b) != HashLength {
		return fmt.Errorf("hash must be %d bytes, got %d", HashLength, len(b))
	}
	copy(h[:], b)
	return nil
}

// Addr is an account identifier: either a signer's address or a contract's
// deterministically-derived address.
type Addr [AddrLength]byte

// AddrZero is the sentinel used as the genesis message sender (spec §6) and
// as the sender of smart queries made through the Querier.
var AddrZero = Addr{}

func (a Addr) String() string { return hex.EncodeToString(a[:]) }

// MapKey implements Keyer so Addr can key a Map directly (e.g. ACCOUNTS).
func (a Addr) MapKey() []byte { return a[:] }

func (a Addr) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Addr) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("decode addr hex: %w", err)
	}
	if len(b) != AddrLength {
		return fmt.Errorf("addr must be %d bytes, got %d", AddrLength, len(b))
	}
	copy(a[:], b)
	return nil
}

// ParseAddr decodes a hex string into an Addr.
func ParseAddr(s string) (Addr, error) {
	var a Addr
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, InvalidInput(fmt.Sprintf("bad address hex %q", s))
	}
	if len(b) != AddrLength {
		return a, InvalidInput(fmt.Sprintf("address must be %d bytes, got %d", AddrLength, len(b)))
	}
	copy(a[:], b)
	return a, nil
}

// DeriveContractAddr computes Addr = H(creator || code_hash || salt) truncated
// to AddrLength, per spec §3.
func DeriveContractAddr(creator Addr, codeHash Hash, salt []byte) Addr {
	buf := make([]byte, 0, len(creator)+len(codeHash)+len(salt))
	buf = append(buf, creator[:]...)
	buf = append(buf, codeHash[:]...)
	buf = append(buf, salt...)
	digest := HashBytes(buf)
	var out Addr
	copy(out[:], digest[:AddrLength])
	return out
}
