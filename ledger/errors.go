package ledger

import "errors"

var (
	// ErrUtxoNotFound indicates a referenced output does not exist or is
	// already spent.
	ErrUtxoNotFound = errors.New("ledger: utxo not found")

	// ErrInsufficientFunds indicates the wallet cannot cover the draft's
	// outputs and fees. Surfaced by adapters during SignAndSubmit.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrSubmit indicates the network rejected a submitted transaction.
	ErrSubmit = errors.New("ledger: submission failed")
)
