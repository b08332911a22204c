package market

import "errors"

var (
	// ErrWrongContract indicates the operation does not apply to the
	// contract owning the targeted output.
	ErrWrongContract = errors.New("market: operation not supported by contract")

	// ErrNoDatum indicates the targeted output carries no datum.
	ErrNoDatum = errors.New("market: output carries no datum")

	// ErrEscrowTooSmall indicates an offer escrow does not cover the
	// offered amount.
	ErrEscrowTooSmall = errors.New("market: escrow does not cover amount")
)
