// Package scriptstore caches resolved validators. Scripts are immutable
// once deployed, keyed by hash, so cached entries never invalidate; the
// stores only bound memory or persist across runs.
package scriptstore

import (
	"context"

	"go.uber.org/zap"

	"github.com/JamOnBread/contract-lib/ledger"
)

// Store is a script cache keyed by script hash.
type Store interface {
	// Get returns the cached script and whether it was present.
	Get(hash string) (ledger.Script, bool, error)
	// Put caches a script under its hash.
	Put(script ledger.Script) error
}

// FetchFunc retrieves a validator from an upstream source, typically the
// marketplace API.
type FetchFunc func(ctx context.Context, hash string) (ledger.Script, error)

// Resolver answers script lookups from a cache, falling back to an
// upstream fetch and caching the result.
type Resolver struct {
	store Store
	fetch FetchFunc
	log   *zap.Logger
}

// NewResolver builds a resolver over the given cache and fetch source.
// A nil logger disables logging.
func NewResolver(store Store, fetch FetchFunc, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, fetch: fetch, log: log}
}

// ScriptFor resolves a validator by its hash.
func (r *Resolver) ScriptFor(ctx context.Context, hash string) (ledger.Script, error) {
	if script, ok, err := r.store.Get(hash); err == nil && ok {
		return script, nil
	} else if err != nil {
		r.log.Warn("script cache read failed", zap.String("hash", hash), zap.Error(err))
	}

	script, err := r.fetch(ctx, hash)
	if err != nil {
		return ledger.Script{}, err
	}
	if err := r.store.Put(script); err != nil {
		r.log.Warn("script cache write failed", zap.String("hash", hash), zap.Error(err))
	}
	return script, nil
}
