package plutus

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/JamOnBread/contract-lib/ledger"
)

// percentScale is the fixed-point scale for on-chain percentages.
// A Portion percent of 0.05 is stored as 500 basis points.
const percentScale = 10_000

// Portion is one recipient's share of a fee: a fraction in [0, 1] and the
// recipient's treasury datum in lowercase hex.
type Portion struct {
	Percent  float64
	Treasury string
}

// BasisPoints returns the percent scaled by 10,000, rounded up.
func (p Portion) BasisPoints() uint64 {
	return uint64(math.Ceil(p.Percent * percentScale))
}

// WantedAsset names what an offer targets: a specific token when AssetName
// is set, or a whole collection when it is empty.
type WantedAsset struct {
	PolicyID  string
	AssetName string
}

// Unit returns the policy+name asset unit, or just the policy for a
// collection-wide wanted asset.
func (w WantedAsset) Unit() string { return w.PolicyID + w.AssetName }

// InstantBuyDatum is the parsed listing datum of an instant-buy output.
type InstantBuyDatum struct {
	Beneficiary      ledger.Address
	ListingMarket    string
	ListingAffiliate string
	Amount           uint64
	Royalty          *Portion
}

// OfferDatum is the parsed datum of an offer escrow output.
type OfferDatum struct {
	Beneficiary      ledger.Address
	ListingMarket    string
	ListingAffiliate string
	Amount           uint64
	WantedAsset      WantedAsset
	Royalty          *Portion
}

// ExternalPayout is one row of an external marketplace's payout datum.
type ExternalPayout struct {
	Address ledger.Address
	Amount  uint64
}

// ExternalListingDatum is the parsed datum of an external marketplace
// listing handled through the adapter contract.
type ExternalListingDatum struct {
	Payouts []ExternalPayout
	Owner   string
}

func credentialData(c ledger.Credential) (Data, error) {
	raw, err := hex.DecodeString(c.Hash)
	if err != nil {
		return nil, fmt.Errorf("%w: credential hash: %w", ErrFormat, err)
	}
	return NewConstr(uint64(c.Kind), Bytes(raw)), nil
}

func parseCredential(d Data) (ledger.Credential, error) {
	c, ok := d.(Constr)
	if !ok || len(c.Fields) != 1 || c.Index > 1 {
		return ledger.Credential{}, fmt.Errorf("%w: credential", ErrFormat)
	}
	raw, ok := c.Fields[0].(Bytes)
	if !ok {
		return ledger.Credential{}, fmt.Errorf("%w: credential hash", ErrFormat)
	}
	return ledger.Credential{Kind: ledger.CredentialKind(c.Index), Hash: hex.EncodeToString(raw)}, nil
}

// EncodeAddress encodes an address as the two-shape constructor: payment
// credential plus either a present (index 0) or absent (index 1) stake part.
func EncodeAddress(addr ledger.Address) (Data, error) {
	payment, err := credentialData(addr.Payment)
	if err != nil {
		return nil, err
	}
	stake := Data(NewConstr(1))
	if addr.Stake != nil {
		cred, err := credentialData(*addr.Stake)
		if err != nil {
			return nil, err
		}
		stake = NewConstr(0, NewConstr(0, cred))
	}
	return NewConstr(0, payment, stake), nil
}

// ParseAddress decodes an address datum. Anything but the two known shapes
// (with or without stake part) is a fatal format error.
func ParseAddress(d Data) (ledger.Address, error) {
	c, ok := d.(Constr)
	if !ok || c.Index != 0 || len(c.Fields) != 2 {
		return ledger.Address{}, fmt.Errorf("%w: address", ErrFormat)
	}
	payment, err := parseCredential(c.Fields[0])
	if err != nil {
		return ledger.Address{}, err
	}
	addr := ledger.Address{Payment: payment}

	stake, ok := c.Fields[1].(Constr)
	if !ok {
		return ledger.Address{}, fmt.Errorf("%w: address stake part", ErrFormat)
	}
	switch stake.Index {
	case 1:
		if len(stake.Fields) != 0 {
			return ledger.Address{}, fmt.Errorf("%w: address stake part", ErrFormat)
		}
	case 0:
		if len(stake.Fields) != 1 {
			return ledger.Address{}, fmt.Errorf("%w: address stake part", ErrFormat)
		}
		inner, ok := stake.Fields[0].(Constr)
		if !ok || inner.Index != 0 || len(inner.Fields) != 1 {
			return ledger.Address{}, fmt.Errorf("%w: address stake part", ErrFormat)
		}
		cred, err := parseCredential(inner.Fields[0])
		if err != nil {
			return ledger.Address{}, err
		}
		addr.Stake = &cred
	default:
		return ledger.Address{}, fmt.Errorf("%w: address stake part", ErrFormat)
	}
	return addr, nil
}

// EncodeTreasuryAddress builds the address-commitment treasury datum used
// by marketplaces, affiliates and royalty holders.
func EncodeTreasuryAddress(addr ledger.Address) (Data, error) {
	inner, err := EncodeAddress(addr)
	if err != nil {
		return nil, err
	}
	return NewConstr(0, inner), nil
}

// EncodeTreasuryTokens builds the token-policy-commitment treasury datum
// used by the protocol's own treasury.
func EncodeTreasuryTokens(policyID string, minTokens uint64) (Data, error) {
	raw, err := hex.DecodeString(policyID)
	if err != nil {
		return nil, fmt.Errorf("%w: policy id: %w", ErrFormat, err)
	}
	return NewConstr(1, NewConstr(0, Bytes(raw), NewUint(minTokens))), nil
}

// EncodeRoyalty encodes an optional royalty portion; nil becomes the
// absent alternative.
func EncodeRoyalty(p *Portion) (Data, error) {
	if p == nil {
		return NewConstr(1), nil
	}
	treasury, err := DecodeHex(p.Treasury)
	if err != nil {
		return nil, fmt.Errorf("%w: royalty treasury: %w", ErrFormat, err)
	}
	return NewConstr(0, NewConstr(0, NewUint(p.BasisPoints()), treasury)), nil
}

// ParseRoyalty decodes an optional royalty; the absent alternative yields
// nil without error.
func ParseRoyalty(d Data) (*Portion, error) {
	c, ok := d.(Constr)
	if !ok {
		return nil, fmt.Errorf("%w: royalty", ErrFormat)
	}
	if c.Index == 1 && len(c.Fields) == 0 {
		return nil, nil
	}
	if c.Index != 0 || len(c.Fields) != 1 {
		return nil, fmt.Errorf("%w: royalty", ErrFormat)
	}
	inner, ok := c.Fields[0].(Constr)
	if !ok || inner.Index != 0 || len(inner.Fields) != 2 {
		return nil, fmt.Errorf("%w: royalty", ErrFormat)
	}
	bps, ok := inner.Fields[0].(Integer)
	if !ok || !bps.Value.IsUint64() {
		return nil, fmt.Errorf("%w: royalty percent", ErrRange)
	}
	treasury, err := EncodeHex(inner.Fields[1])
	if err != nil {
		return nil, err
	}
	return &Portion{
		Percent:  float64(bps.Value.Uint64()) / percentScale,
		Treasury: treasury,
	}, nil
}

// EncodeWantedAsset encodes an offer target: a concrete token as
// alternative 0, a whole collection as alternative 1.
func EncodeWantedAsset(w WantedAsset) (Data, error) {
	policy, err := hex.DecodeString(w.PolicyID)
	if err != nil {
		return nil, fmt.Errorf("%w: policy id: %w", ErrFormat, err)
	}
	if w.AssetName == "" {
		return NewConstr(1, Bytes(policy)), nil
	}
	name, err := hex.DecodeString(w.AssetName)
	if err != nil {
		return nil, fmt.Errorf("%w: asset name: %w", ErrFormat, err)
	}
	return NewConstr(0, NewConstr(0, Bytes(policy), Bytes(name))), nil
}

// ParseWantedAsset decodes an offer target.
func ParseWantedAsset(d Data) (WantedAsset, error) {
	c, ok := d.(Constr)
	if !ok {
		return WantedAsset{}, fmt.Errorf("%w: wanted asset", ErrFormat)
	}
	switch c.Index {
	case 0:
		if len(c.Fields) != 1 {
			return WantedAsset{}, fmt.Errorf("%w: wanted asset", ErrFormat)
		}
		inner, ok := c.Fields[0].(Constr)
		if !ok || inner.Index != 0 || len(inner.Fields) != 2 {
			return WantedAsset{}, fmt.Errorf("%w: wanted asset", ErrFormat)
		}
		policy, pok := inner.Fields[0].(Bytes)
		name, nok := inner.Fields[1].(Bytes)
		if !pok || !nok {
			return WantedAsset{}, fmt.Errorf("%w: wanted asset", ErrFormat)
		}
		return WantedAsset{PolicyID: hex.EncodeToString(policy), AssetName: hex.EncodeToString(name)}, nil
	case 1:
		if len(c.Fields) != 1 {
			return WantedAsset{}, fmt.Errorf("%w: wanted asset", ErrFormat)
		}
		policy, ok := c.Fields[0].(Bytes)
		if !ok {
			return WantedAsset{}, fmt.Errorf("%w: wanted asset", ErrFormat)
		}
		return WantedAsset{PolicyID: hex.EncodeToString(policy)}, nil
	default:
		return WantedAsset{}, fmt.Errorf("%w: wanted asset", ErrFormat)
	}
}

func amountField(d Data) (uint64, error) {
	n, ok := d.(Integer)
	if !ok {
		return 0, fmt.Errorf("%w: amount", ErrFormat)
	}
	if !n.Value.IsUint64() {
		return 0, fmt.Errorf("%w: amount", ErrRange)
	}
	return n.Value.Uint64(), nil
}

// optionalDatum unwraps the present/absent alternative holding an inline
// datum, returning fallback when absent.
func optionalDatum(d Data, fallback string) (string, error) {
	c, ok := d.(Constr)
	if !ok {
		return "", fmt.Errorf("%w: optional datum", ErrFormat)
	}
	if c.Index == 1 && len(c.Fields) == 0 {
		return fallback, nil
	}
	if c.Index != 0 || len(c.Fields) != 1 {
		return "", fmt.Errorf("%w: optional datum", ErrFormat)
	}
	return EncodeHex(c.Fields[0])
}

// EncodeInstantBuyDatum builds the on-chain listing datum.
// ListingAffiliate may be empty; it then defaults to the market on parse.
func EncodeInstantBuyDatum(d InstantBuyDatum) (Data, error) {
	seller, err := EncodeAddress(d.Beneficiary)
	if err != nil {
		return nil, err
	}
	market, err := DecodeHex(d.ListingMarket)
	if err != nil {
		return nil, fmt.Errorf("%w: listing market: %w", ErrFormat, err)
	}
	affiliate := Data(NewConstr(1))
	if d.ListingAffiliate != "" {
		inner, err := DecodeHex(d.ListingAffiliate)
		if err != nil {
			return nil, fmt.Errorf("%w: listing affiliate: %w", ErrFormat, err)
		}
		affiliate = NewConstr(0, inner)
	}
	royalty, err := EncodeRoyalty(d.Royalty)
	if err != nil {
		return nil, err
	}
	return NewConstr(0, seller, market, affiliate, NewUint(d.Amount), royalty), nil
}

// ParseInstantBuyDatum decodes a listing datum. A missing affiliate
// defaults to the listing market, so every parsed datum names both.
func ParseInstantBuyDatum(s string) (InstantBuyDatum, error) {
	d, err := DecodeHex(s)
	if err != nil {
		return InstantBuyDatum{}, err
	}
	c, ok := d.(Constr)
	if !ok || c.Index != 0 || len(c.Fields) != 5 {
		return InstantBuyDatum{}, fmt.Errorf("%w: instant-buy datum", ErrFormat)
	}
	beneficiary, err := ParseAddress(c.Fields[0])
	if err != nil {
		return InstantBuyDatum{}, err
	}
	market, err := EncodeHex(c.Fields[1])
	if err != nil {
		return InstantBuyDatum{}, err
	}
	affiliate, err := optionalDatum(c.Fields[2], market)
	if err != nil {
		return InstantBuyDatum{}, err
	}
	amount, err := amountField(c.Fields[3])
	if err != nil {
		return InstantBuyDatum{}, err
	}
	royalty, err := ParseRoyalty(c.Fields[4])
	if err != nil {
		return InstantBuyDatum{}, err
	}
	return InstantBuyDatum{
		Beneficiary:      beneficiary,
		ListingMarket:    market,
		ListingAffiliate: affiliate,
		Amount:           amount,
		Royalty:          royalty,
	}, nil
}

// EncodeOfferDatum builds the on-chain offer datum.
func EncodeOfferDatum(d OfferDatum) (Data, error) {
	offerer, err := EncodeAddress(d.Beneficiary)
	if err != nil {
		return nil, err
	}
	market, err := DecodeHex(d.ListingMarket)
	if err != nil {
		return nil, fmt.Errorf("%w: listing market: %w", ErrFormat, err)
	}
	affiliate := Data(NewConstr(1))
	if d.ListingAffiliate != "" {
		inner, err := DecodeHex(d.ListingAffiliate)
		if err != nil {
			return nil, fmt.Errorf("%w: listing affiliate: %w", ErrFormat, err)
		}
		affiliate = NewConstr(0, inner)
	}
	wanted, err := EncodeWantedAsset(d.WantedAsset)
	if err != nil {
		return nil, err
	}
	royalty, err := EncodeRoyalty(d.Royalty)
	if err != nil {
		return nil, err
	}
	return NewConstr(0, offerer, market, affiliate, NewUint(d.Amount), wanted, royalty), nil
}

// ParseOfferDatum decodes an offer datum.
func ParseOfferDatum(s string) (OfferDatum, error) {
	d, err := DecodeHex(s)
	if err != nil {
		return OfferDatum{}, err
	}
	c, ok := d.(Constr)
	if !ok || c.Index != 0 || len(c.Fields) != 6 {
		return OfferDatum{}, fmt.Errorf("%w: offer datum", ErrFormat)
	}
	beneficiary, err := ParseAddress(c.Fields[0])
	if err != nil {
		return OfferDatum{}, err
	}
	market, err := EncodeHex(c.Fields[1])
	if err != nil {
		return OfferDatum{}, err
	}
	affiliate, err := optionalDatum(c.Fields[2], market)
	if err != nil {
		return OfferDatum{}, err
	}
	amount, err := amountField(c.Fields[3])
	if err != nil {
		return OfferDatum{}, err
	}
	wanted, err := ParseWantedAsset(c.Fields[4])
	if err != nil {
		return OfferDatum{}, err
	}
	royalty, err := ParseRoyalty(c.Fields[5])
	if err != nil {
		return OfferDatum{}, err
	}
	return OfferDatum{
		Beneficiary:      beneficiary,
		ListingMarket:    market,
		ListingAffiliate: affiliate,
		Amount:           amount,
		WantedAsset:      wanted,
		Royalty:          royalty,
	}, nil
}

// ParseExternalListingDatum decodes an external marketplace payout datum:
// a list of (address, amount) rows plus the marketplace's own tag.
func ParseExternalListingDatum(s string) (ExternalListingDatum, error) {
	d, err := DecodeHex(s)
	if err != nil {
		return ExternalListingDatum{}, err
	}
	c, ok := d.(Constr)
	if !ok || c.Index != 0 || len(c.Fields) != 2 {
		return ExternalListingDatum{}, fmt.Errorf("%w: external listing datum", ErrFormat)
	}
	rows, ok := c.Fields[0].(List)
	if !ok {
		return ExternalListingDatum{}, fmt.Errorf("%w: external payouts", ErrFormat)
	}
	payouts := make([]ExternalPayout, 0, len(rows))
	for _, row := range rows {
		rc, ok := row.(Constr)
		if !ok || rc.Index != 0 || len(rc.Fields) != 2 {
			return ExternalListingDatum{}, fmt.Errorf("%w: external payout row", ErrFormat)
		}
		addr, err := ParseAddress(rc.Fields[0])
		if err != nil {
			return ExternalListingDatum{}, err
		}
		amount, err := amountField(rc.Fields[1])
		if err != nil {
			return ExternalListingDatum{}, err
		}
		payouts = append(payouts, ExternalPayout{Address: addr, Amount: amount})
	}
	owner, ok := c.Fields[1].(Bytes)
	if !ok {
		return ExternalListingDatum{}, fmt.Errorf("%w: external owner", ErrFormat)
	}
	return ExternalListingDatum{Payouts: payouts, Owner: hex.EncodeToString(owner)}, nil
}
