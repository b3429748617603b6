package core

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// bucketState is the single bbolt bucket backing the chain's flat key space.
// Unlike a typical CRUD app (one bucket per entity, as in the storage engine
// this is grounded on), the state machine's keys are already namespaced by
// convention (chain_id, config, c/<hash>, a/<addr>, w/<addr>/<key>, ...), so
// one bucket with the raw key as-is suffices and preserves bbolt's native
// lexicographic byte ordering across the whole key space.
var bucketState = []byte("state")

// BoltStorage is the committed, on-disk Storage implementation. It is a
// single-file ordered B+tree (go.etcd.io/bbolt) offering native cursor-based
// range scans and transactional batched writes, satisfying spec §4.1 without
// a bespoke storage engine.
type BoltStorage struct {
	db *bolt.DB
}

// OpenBoltStorage opens (creating if necessary) a bbolt-backed store at path.
func OpenBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt storage: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create state bucket: %w", err)
	}
	return &BoltStorage{db: db}, nil
}

// Close releases the underlying file handle.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}

func (s *BoltStorage) Read(key []byte) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketState).Get(key)
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("bolt read: %w", err)
	}
	return value, value != nil, nil
}

func (s *BoltStorage) Write(key, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put(key, value)
	})
	if err != nil {
		return fmt.Errorf("bolt write: %w", err)
	}
	return nil
}

func (s *BoltStorage) Remove(key []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Delete(key)
	})
	if err != nil {
		return fmt.Errorf("bolt remove: %w", err)
	}
	return nil
}

func (s *BoltStorage) Scan(min, max []byte, order Order) (Iterator, error) {
	var pairs []kvPair
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketState).Cursor()
		for k, v := seekStart(c, min); k != nil && withinMax(k, max); k, v = c.Next() {
			pairs = append(pairs, kvPair{key: append([]byte(nil), k...), value: append([]byte(nil), v...)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt scan: %w", err)
	}
	if order == Descending {
		for l, r := 0, len(pairs)-1; l < r; l, r = l+1, r-1 {
			pairs[l], pairs[r] = pairs[r], pairs[l]
		}
	}
	return newSliceIterator(pairs), nil
}

func seekStart(c *bolt.Cursor, min []byte) ([]byte, []byte) {
	if min == nil {
		return c.First()
	}
	return c.Seek(min)
}

func withinMax(key, max []byte) bool {
	if max == nil {
		return true
	}
	return compareBytes(key, max) < 0
}

// FlushBatch applies a Batch atomically in a single bbolt transaction: this
// is the only write path the block/commit lifecycle actually uses (see
// executor_block.go Commit), matching spec §4.1's "Flush extension consumes
// an ordered Batch... atomically".
func (s *BoltStorage) FlushBatch(b Batch) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		for k, op := range b {
			key := []byte(k)
			switch op.Kind {
			case OpPut:
				if err := bucket.Put(key, op.Value); err != nil {
					return err
				}
			case OpDelete:
				if err := bucket.Delete(key); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return Fatalf("flush batch to storage: %v", err)
	}
	return nil
}

var (
	_ Storage = (*BoltStorage)(nil)
	_ Flush   = (*BoltStorage)(nil)
)
