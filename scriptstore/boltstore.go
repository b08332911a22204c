package scriptstore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/JamOnBread/contract-lib/ledger"
)

var bucketScripts = []byte("scripts")

// BoltStore persists resolved validators in a bbolt database so repeated
// runs skip refetching them.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens or creates the bbolt database at dbPath. The parent
// directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("scriptstore: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("scriptstore: open bolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketScripts)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("scriptstore: create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Get returns the persisted script for hash.
func (s *BoltStore) Get(hash string) (ledger.Script, bool, error) {
	var script ledger.Script
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketScripts).Get([]byte(hash))
		if raw == nil {
			return nil
		}
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&script); err != nil {
			return fmt.Errorf("scriptstore: decode script %s: %w", hash, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return ledger.Script{}, false, err
	}
	return script, found, nil
}

// Put persists the script under its hash.
func (s *BoltStore) Put(script ledger.Script) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(script); err != nil {
		return fmt.Errorf("scriptstore: encode script %s: %w", script.Hash, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketScripts).Put([]byte(script.Hash), buf.Bytes())
	})
}
