// Package manifest persists the round-trip metadata contract: for every
// uploaded file it records the (StorageID, FileSize, FileHash) triple that
// is later required to retrieve and verify the file.
package manifest

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/privatecloudorg/libprivatecloud-go/provider"
)

var bucketRecords = []byte("records")

// Record is one uploaded file's retrieval metadata.
type Record struct {
	StorageID  provider.StorageID
	Size       provider.FileSize
	Hash       provider.FileHash
	UploadedAt time.Time
}

// Store wraps a bbolt database of upload records keyed by a caller-chosen
// name (typically the file's base name).
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the manifest database at dbPath. The parent
// directory is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("manifest: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("manifest: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("manifest: create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Put stores or replaces the record under name.
func (s *Store) Put(name string, rec Record) error {
	if name == "" {
		return ErrEmptyName
	}
	if rec.StorageID == "" {
		return ErrEmptyStorageID
	}

	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("manifest: encode record: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).Put([]byte(name), data)
	})
}

// Get returns the record stored under name, or ErrNotFound.
func (s *Store) Get(name string) (Record, error) {
	var rec Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRecords).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return decodeGob(data, &rec)
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Delete removes the record under name. Deleting an absent name is not an
// error.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).Delete([]byte(name))
	})
}

// List returns all record names in key order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
