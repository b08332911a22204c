package ledger

import "context"

// Input is a resolved output queued for spending, with the redeemer that
// unlocks it. The redeemer is lowercase hex of its structured-data
// encoding; empty means the output is key-locked and needs none.
type Input struct {
	UTxO     UTxO   `json:"utxo"`
	Redeemer string `json:"redeemer,omitempty"`
}

// Output is a payment to create: an address, a value and an optional
// inline datum in lowercase hex.
type Output struct {
	Address Address `json:"address"`
	Value   Value   `json:"value"`
	Datum   string  `json:"datum,omitempty"`
}

// Script is a validator needed by a draft, either attached inline (Hex)
// or referenced from an on-chain output (Ref).
type Script struct {
	Hash string  `json:"hash"`
	Kind string  `json:"kind"` // "plutusV1" or "plutusV2"
	Hex  string  `json:"hex,omitempty"`
	Ref  *OutRef `json:"outRef,omitempty"`
}

// CertKind is the certificate action of a stake credential.
type CertKind int

const (
	// CertRegisterStake registers a stake credential with the ledger.
	CertRegisterStake CertKind = iota
	// CertDelegate delegates a registered stake credential to a pool.
	CertDelegate
)

// Certificate is a stake-credential action carried by a transaction.
// StakeHash is the script hash of the stake credential; Redeemer is set
// when the credential is script-locked.
type Certificate struct {
	Kind      CertKind `json:"kind"`
	StakeHash string   `json:"stakeHash"`
	PoolID    string   `json:"poolId,omitempty"`
	Redeemer  string   `json:"redeemer,omitempty"`
}

// Withdrawal moves accumulated rewards of a stake credential into the
// transaction.
type Withdrawal struct {
	StakeHash string `json:"stakeHash"`
	Amount    uint64 `json:"amount"`
	Redeemer  string `json:"redeemer,omitempty"`
}

// Draft is a fully lowered transaction description ready for balancing,
// signing and submission by the adapter. It carries no wallet state.
type Draft struct {
	References   []UTxO        `json:"references"`
	Inputs       []Input       `json:"inputs"`
	Outputs      []Output      `json:"outputs"`
	Certificates []Certificate `json:"certificates,omitempty"`
	Withdrawals  []Withdrawal  `json:"withdrawals,omitempty"`
	Signers      []Address     `json:"signers"`
	Scripts      []Script      `json:"scripts"`
}

// Adapter is the external wallet and chain collaborator. Implementations
// own key management, UTXO selection, fee balancing and submission; this
// library only describes transactions.
type Adapter interface {
	// UtxosByOutRef resolves the given references to full outputs.
	// References that no longer exist are omitted from the result.
	UtxosByOutRef(ctx context.Context, refs []OutRef) ([]UTxO, error)

	// UtxoByUnit finds the single output holding the given asset unit.
	UtxoByUnit(ctx context.Context, unit string) (UTxO, error)

	// UtxosAt returns all outputs sitting at the given address.
	UtxosAt(ctx context.Context, address Address) ([]UTxO, error)

	// WalletAddress returns the wallet's receive address.
	WalletAddress(ctx context.Context) (Address, error)

	// SignMessage signs an arbitrary payload with the wallet key of the
	// given address, returning the signature and public key in hex.
	SignMessage(ctx context.Context, address Address, payload string) (signature, key string, err error)

	// SignAndSubmit balances, signs and submits the draft, returning the
	// transaction hash.
	SignAndSubmit(ctx context.Context, draft Draft) (string, error)

	// AwaitConfirmation blocks until the transaction is confirmed or the
	// context is done.
	AwaitConfirmation(ctx context.Context, txHash string) (bool, error)
}
