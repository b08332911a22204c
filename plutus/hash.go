package plutus

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// DatumHash computes the blake2b-256 hash of the datum's CBOR encoding,
// returned as lowercase hex.
func DatumHash(d Data) (string, error) {
	raw, err := Encode(d)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// DatumHashHex computes the hash of an already hex-encoded datum.
func DatumHashHex(s string) (string, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: not hex: %w", ErrFormat, err)
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
