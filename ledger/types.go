package ledger

// Lovelace is the asset unit of the ledger's native coin.
const Lovelace = "lovelace"

// OutRef identifies a transaction output by its producing transaction
// hash and output index.
type OutRef struct {
	TxHash string `json:"txHash"`
	Index  uint32 `json:"outputIndex"`
}

// Value maps asset units to amounts. The native coin uses the Lovelace key;
// every other key is policy id + asset name in hex.
type Value map[string]uint64

// Clone returns an independent copy of v.
func (v Value) Clone() Value {
	out := make(Value, len(v))
	for unit, amount := range v {
		out[unit] = amount
	}
	return out
}

// Add returns a new Value holding the unit-wise sum of v and other.
// Neither argument is modified.
func (v Value) Add(other Value) Value {
	out := v.Clone()
	for unit, amount := range other {
		out[unit] += amount
	}
	return out
}

// Lovelace returns the native coin amount in v.
func (v Value) Lovelace() uint64 { return v[Lovelace] }

// CredentialKind distinguishes key hashes from script hashes.
type CredentialKind int

const (
	// KeyCredential is the hash of a payment or stake verification key.
	KeyCredential CredentialKind = iota
	// ScriptCredential is the hash of a validator script.
	ScriptCredential
)

// Credential is one half of an address: a key or script hash in hex.
type Credential struct {
	Kind CredentialKind `json:"kind"`
	Hash string         `json:"hash"`
}

// Address is a ledger address split into its payment part and optional
// stake part. The payment credential alone determines script ownership;
// the stake part only routes rewards.
type Address struct {
	Payment Credential  `json:"payment"`
	Stake   *Credential `json:"stake,omitempty"`
}

// KeyAddress builds an address from payment and optional stake key hashes.
// An empty stake hash yields an address without a stake part.
func KeyAddress(paymentHash, stakeHash string) Address {
	addr := Address{Payment: Credential{Kind: KeyCredential, Hash: paymentHash}}
	if stakeHash != "" {
		addr.Stake = &Credential{Kind: KeyCredential, Hash: stakeHash}
	}
	return addr
}

// ScriptAddress builds an address whose payment and stake parts are both
// script hashes, the shape used by contract addresses.
func ScriptAddress(paymentHash, stakeHash string) Address {
	addr := Address{Payment: Credential{Kind: ScriptCredential, Hash: paymentHash}}
	if stakeHash != "" {
		addr.Stake = &Credential{Kind: ScriptCredential, Hash: stakeHash}
	}
	return addr
}

// Equal reports whether two addresses have identical payment and stake parts.
func (a Address) Equal(other Address) bool {
	if a.Payment != other.Payment {
		return false
	}
	if (a.Stake == nil) != (other.Stake == nil) {
		return false
	}
	return a.Stake == nil || *a.Stake == *other.Stake
}

// UTxO is an unspent transaction output together with its attached datum.
// The datum is the lowercase hex of its structured-data encoding, or empty
// when the output carries none.
type UTxO struct {
	OutRef
	Address Address `json:"address"`
	Value   Value   `json:"value"`
	Datum   string  `json:"datum,omitempty"`
}
