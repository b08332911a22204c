package config

import "errors"

var (
	// ErrUnknownNetwork indicates the network name has no built-in catalog.
	ErrUnknownNetwork = errors.New("config: unknown network")

	// ErrInvalid indicates a malformed contract entry in a config file.
	ErrInvalid = errors.New("config: invalid contract entry")
)
