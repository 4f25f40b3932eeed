package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const bucketEntries = "entries"

// BoltStore persists cache entries in a bbolt database, one JSON-encoded
// Entry per key.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the cache database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketEntries))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Load returns all persisted entries. Malformed records are skipped.
func (s *BoltStore) Load() (map[string]Entry, error) {
	entries := make(map[string]Entry)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketEntries))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return nil
			}
			entries[string(k)] = e
			return nil
		})
	})

	return entries, err
}

// Put saves one entry.
func (s *BoltStore) Put(key string, e Entry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketEntries))
		if bucket == nil {
			return fmt.Errorf("cache bucket not found")
		}

		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		return bucket.Put([]byte(key), data)
	})
}

// Delete removes one entry. Deleting a missing key is not an error.
func (s *BoltStore) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketEntries))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

// Clear drops every entry.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketEntries)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketEntries))
		return err
	})
}

// Close closes the database.
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
