package contract

import (
	"fmt"

	"github.com/JamOnBread/contract-lib/ledger"
)

// Registry is the immutable catalog of contracts deployed on one network.
// It is built once at startup from configuration data and passed by
// reference into every operation.
type Registry struct {
	contracts []*Contract
	byHash    map[string]*Contract
}

// NewRegistry builds a registry over the given contracts. Later entries
// with a duplicate hash are ignored; hashes uniquely identify contracts
// within a network.
func NewRegistry(contracts ...*Contract) *Registry {
	r := &Registry{
		contracts: contracts,
		byHash:    make(map[string]*Contract, len(contracts)),
	}
	for _, c := range contracts {
		if _, ok := r.byHash[c.Hash]; !ok {
			r.byHash[c.Hash] = c
		}
	}
	return r
}

// Contracts returns the catalog in registration order.
func (r *Registry) Contracts() []*Contract {
	out := make([]*Contract, len(r.contracts))
	copy(out, r.contracts)
	return out
}

// ByHash finds the contract with the given script hash.
func (r *Registry) ByHash(hash string) (*Contract, error) {
	if c, ok := r.byHash[hash]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: hash %s", ErrContractNotFound, hash)
}

// ByAddress resolves the contract owning an address via its payment
// credential alone; the stake part never affects ownership. Plain wallet
// addresses yield ErrContractNotFound.
func (r *Registry) ByAddress(addr ledger.Address) (*Contract, error) {
	return r.ByHash(addr.Payment.Hash)
}

// Active returns the single active contract of the given kind. Zero or
// multiple active entries for one kind is a configuration defect; the
// first match wins here and callers must treat a miss as fatal.
func (r *Registry) Active(kind Kind) (*Contract, error) {
	for _, c := range r.contracts {
		if c.Active && c.Kind == kind {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: no active %s contract", ErrContractNotFound, kind)
}
