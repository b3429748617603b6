package core

import (
	"strconv"
	"time"
)

// BlockInfo describes the block currently being executed (or, for queries,
// the last finalized block).
type BlockInfo struct {
	Height    uint64        `json:"height"`
	Timestamp time.Duration `json:"timestamp"`
	Hash      Hash          `json:"hash"`
}

// ValidateSuccessor checks the invariant from spec §3: successive finalized
// blocks have strictly increasing height (by +1) and strictly increasing
// timestamps.
func (b BlockInfo) ValidateSuccessor(next BlockInfo) error {
	if next.Height != b.Height+1 {
		return InvalidInput(
			"block height must increase by exactly one: expected " +
				strconv.FormatUint(b.Height+1, 10) + ", got " + strconv.FormatUint(next.Height, 10))
	}
	if next.Timestamp <= b.Timestamp {
		return InvalidInput("block timestamp must strictly increase")
	}
	return nil
}
