package reserve

import "github.com/JamOnBread/contract-lib/ledger"

// SignParams is a signed timestamp challenge proving wallet ownership,
// required before the service releases withdrawal rights.
type SignParams struct {
	Address   ledger.Address `json:"address"`
	Secret    string         `json:"secret"`
	Signature string         `json:"signature"`
	Key       string         `json:"key"`
}

// Reservation is the service's answer to a reserve request. All reports
// whether every requested datum was satisfied; Blocked whether a
// conflicting in-flight reservation exists. Utxos maps each satisfied
// datum to the treasury output reserved for it, valid until Expiration.
type Reservation struct {
	All        bool                     `json:"all"`
	Blocked    bool                     `json:"blocked"`
	Expiration int64                    `json:"expiration"`
	Utxos      map[string]ledger.OutRef `json:"utxos"`
}

// WithdrawGrant lists the treasury outputs released for withdrawal and
// the deadline by which they must be spent.
type WithdrawGrant struct {
	Utxos      []ledger.OutRef `json:"utxos"`
	Expiration int64           `json:"expiration"`
}

// Script is a validator as served by the marketplace API.
type Script struct {
	Kind   string         `json:"kind"`
	Hash   string         `json:"hash"`
	Hex    string         `json:"hex"`
	OutRef *ledger.OutRef `json:"outRef,omitempty"`
}

type reserveRequest struct {
	Utxo       ledger.OutRef `json:"utxo"`
	Affiliates []string      `json:"affiliates"`
	Force      bool          `json:"force"`
}

type withdrawRequest struct {
	Plutus string     `json:"plutus"`
	Params SignParams `json:"params"`
}

type utxosResponse struct {
	Utxos []ledger.UTxO `json:"utxos"`
}

type outRefsResponse struct {
	Utxos []ledger.OutRef `json:"utxos"`
}

type outRefsRequest struct {
	OutRefs []ledger.OutRef `json:"outRefs"`
}

type addressesRequest struct {
	Addresses []string `json:"addresses"`
}

type unitsRequest struct {
	Units []string `json:"units"`
}

type submitRequest struct {
	Cbor string `json:"cbor"`
}

type submitResponse struct {
	Hash    string `json:"hash"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type datumResponse struct {
	Datum struct {
		Hex string `json:"hex"`
	} `json:"datum"`
}

type scriptResponse struct {
	Script *Script `json:"script"`
}
