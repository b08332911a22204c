package contract

import "errors"

// ErrContractNotFound indicates no registered contract matches the given
// hash, address or kind.
var ErrContractNotFound = errors.New("contract: contract not found")
