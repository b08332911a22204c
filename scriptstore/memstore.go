package scriptstore

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/JamOnBread/contract-lib/ledger"
)

// MemStore is an in-memory script cache with per-entry expiration,
// bounding how long a process keeps validators it no longer touches.
type MemStore struct {
	cache *gocache.Cache
}

// NewMemStore creates a cache whose entries expire after ttl. A ttl of
// zero keeps entries forever.
func NewMemStore(ttl time.Duration) *MemStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &MemStore{cache: gocache.New(ttl, 10*time.Minute)}
}

// Get returns the cached script for hash.
func (s *MemStore) Get(hash string) (ledger.Script, bool, error) {
	v, ok := s.cache.Get(hash)
	if !ok {
		return ledger.Script{}, false, nil
	}
	return v.(ledger.Script), true, nil
}

// Put caches the script under its hash.
func (s *MemStore) Put(script ledger.Script) error {
	s.cache.SetDefault(script.Hash, script)
	return nil
}
