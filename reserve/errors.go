package reserve

import "errors"

var (
	// ErrTreasuriesUnavailable indicates the service could not reserve
	// every requested treasury datum and force was not set. This is the
	// backpressure signal: the caller retries with backoff or resubmits
	// with force.
	ErrTreasuriesUnavailable = errors.New("reserve: treasuries unavailable")

	// ErrConnection indicates the HTTP request itself failed.
	ErrConnection = errors.New("reserve: connection failed")

	// ErrInvalidResponse indicates the service answered with something
	// that could not be decoded.
	ErrInvalidResponse = errors.New("reserve: invalid response")

	// ErrNotFound indicates the requested datum, script or utxo is
	// unknown to the service.
	ErrNotFound = errors.New("reserve: not found")

	// ErrSubmit indicates the service rejected a submitted transaction.
	ErrSubmit = errors.New("reserve: submission rejected")
)
