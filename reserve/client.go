// Package reserve is the HTTP client for the treasury reservation and
// marketplace API. The service is the only serialization point for shared
// treasury outputs: this client treats it as an opaque mutual-exclusion
// oracle and never retries a denied reservation on its own.
package reserve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/JamOnBread/contract-lib/ledger"
)

// Client talks to one deployment of the marketplace API. Idempotent
// queries retry transparently; Submit never retries, because resubmitting
// a transaction is not safe to repeat blindly.
type Client struct {
	base   string
	http   *retryablehttp.Client
	submit *http.Client
	log    *zap.Logger
}

// New creates a client for the API rooted at baseURL. A nil logger
// disables logging.
func New(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = 30 * time.Second

	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   rc,
		submit: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("reserve: marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("reserve: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrConnection, resp.StatusCode, string(snippet))
	}
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: decode: %w", ErrInvalidResponse, err)
		}
	}
	return nil
}

// Reserve asks the service to atomically reserve one free treasury output
// per requested datum for the settlement spending utxo. With force unset
// a partial or blocked answer is terminal for this settlement; with force
// set the caller proceeds and accepts the submission race.
func (c *Client) Reserve(ctx context.Context, utxo ledger.OutRef, treasuries []string, force bool) (*Reservation, error) {
	var out Reservation
	err := c.do(ctx, http.MethodPost, "/treasury/reserve", reserveRequest{
		Utxo:       utxo,
		Affiliates: treasuries,
		Force:      force,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.log.Debug("treasury reservation",
		zap.Bool("all", out.All),
		zap.Bool("blocked", out.Blocked),
		zap.Int("granted", len(out.Utxos)),
		zap.Int("requested", len(treasuries)))
	return &out, nil
}

// TreasuryUtxos lists the treasury outputs currently known for a datum.
func (c *Client) TreasuryUtxos(ctx context.Context, datum string) ([]ledger.OutRef, error) {
	var out outRefsResponse
	if err := c.do(ctx, http.MethodGet, "/treasury/utxos/"+strings.ToLower(datum), nil, &out); err != nil {
		return nil, err
	}
	return out.Utxos, nil
}

// Withdraw requests withdrawal rights over the treasuries of one datum.
// The signed challenge proves the caller controls the recipient wallet.
func (c *Client) Withdraw(ctx context.Context, datum string, params SignParams) (*WithdrawGrant, error) {
	var out WithdrawGrant
	err := c.do(ctx, http.MethodPost, "/treasury/withdraw", withdrawRequest{
		Plutus: strings.ToLower(datum),
		Params: params,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UtxosByOutRef resolves references to full outputs via the service.
func (c *Client) UtxosByOutRef(ctx context.Context, refs []ledger.OutRef) ([]ledger.UTxO, error) {
	var out utxosResponse
	if err := c.do(ctx, http.MethodPost, "/utxos_by_outrefs", outRefsRequest{OutRefs: refs}, &out); err != nil {
		return nil, err
	}
	return out.Utxos, nil
}

// UtxosByCredential returns the outputs held under a payment credential.
func (c *Client) UtxosByCredential(ctx context.Context, credentialHash string) ([]ledger.UTxO, error) {
	var out utxosResponse
	err := c.do(ctx, http.MethodPost, "/utxos_by_addresses", addressesRequest{Addresses: []string{credentialHash}}, &out)
	if err != nil {
		return nil, err
	}
	return out.Utxos, nil
}

// UtxoByUnit finds the single output holding an asset unit.
func (c *Client) UtxoByUnit(ctx context.Context, unit string) (ledger.UTxO, error) {
	var out utxosResponse
	if err := c.do(ctx, http.MethodPost, "/utxos_by_units", unitsRequest{Units: []string{unit}}, &out); err != nil {
		return ledger.UTxO{}, err
	}
	if len(out.Utxos) == 0 {
		return ledger.UTxO{}, fmt.Errorf("%w: unit %s", ErrNotFound, unit)
	}
	if len(out.Utxos) > 1 {
		return ledger.UTxO{}, fmt.Errorf("%w: unit %s held by %d outputs", ErrInvalidResponse, unit, len(out.Utxos))
	}
	return out.Utxos[0], nil
}

// Script fetches a validator by hash.
func (c *Client) Script(ctx context.Context, hash string) (*Script, error) {
	var out scriptResponse
	if err := c.do(ctx, http.MethodGet, "/script/"+hash, nil, &out); err != nil {
		return nil, err
	}
	if out.Script == nil {
		return nil, fmt.Errorf("%w: script %s", ErrNotFound, hash)
	}
	return out.Script, nil
}

// Datum fetches an inline datum body by its hash.
func (c *Client) Datum(ctx context.Context, hash string) (string, error) {
	var out datumResponse
	if err := c.do(ctx, http.MethodGet, "/datum/"+hash, nil, &out); err != nil {
		return "", err
	}
	if out.Datum.Hex == "" {
		return "", fmt.Errorf("%w: datum %s", ErrNotFound, hash)
	}
	return strings.ToLower(out.Datum.Hex), nil
}

// Submit sends a signed transaction. It deliberately bypasses the
// retrying transport: on a transient failure the caller re-derives from
// the same UTXO state, and the ledger rejects a duplicate as spent.
func (c *Client) Submit(ctx context.Context, cborHex string) (string, error) {
	raw, err := json.Marshal(submitRequest{Cbor: cborHex})
	if err != nil {
		return "", fmt.Errorf("reserve: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/submit", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("reserve: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.submit.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode: %w", ErrInvalidResponse, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || out.Hash == "" {
		msg := out.Message
		if msg == "" {
			msg = out.Error
		}
		return "", fmt.Errorf("%w: %s", ErrSubmit, msg)
	}
	c.log.Debug("transaction submitted", zap.String("hash", out.Hash))
	return out.Hash, nil
}

// TransactionExists reports whether the service has seen the transaction.
func (c *Client) TransactionExists(ctx context.Context, hash string) (bool, error) {
	var out existsResponse
	if err := c.do(ctx, http.MethodGet, "/transaction_exists/"+hash, nil, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

// AwaitTx polls for confirmation on the given interval until the
// transaction appears or the context is done.
func (c *Client) AwaitTx(ctx context.Context, hash string, interval time.Duration) (bool, error) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			exists, err := c.TransactionExists(ctx, hash)
			if err != nil {
				c.log.Debug("confirmation poll failed", zap.String("hash", hash), zap.Error(err))
				continue
			}
			if exists {
				return true, nil
			}
		}
	}
}
