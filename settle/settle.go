// Package settle computes the fee split of a sale or accepted offer:
// a fixed provision taken from the trade amount, distributed across the
// protocol treasury, listing marketplace, listing affiliate, any
// caller-supplied selling-side portions and an optional royalty holder.
//
// All arithmetic is integer. Every per-recipient share is rounded up, so
// the sum of shares may exceed the nominal provision by at most one minor
// unit per distinct recipient. Under-funding a treasury is never possible.
package settle

import (
	"math/big"
	"strings"

	"github.com/JamOnBread/contract-lib/contract"
	"github.com/JamOnBread/contract-lib/plutus"
)

// Provision rates, expressed as numerator/denominator over the trade
// amount. The provision itself is 2.5%; its split is 10% protocol, 20%
// listing marketplace, 20% listing affiliate, 50% selling side.
const (
	provisionNum = 25
	provisionDen = 1000
)

// Input is the consumed listing's settlement-relevant fields. Treasury
// datums are hex strings; case differences are normalized away.
type Input struct {
	Amount           uint64
	ListingMarket    string
	ListingAffiliate string
	Royalty          *plutus.Portion
}

// Payout is one recipient's final, merged and floored amount.
type Payout struct {
	Treasury string
	Amount   uint64
}

// Settlement is the computed distribution for one sale. Payout order is
// deterministic: protocol treasury first, then recipients in the order
// they were first added.
type Settlement struct {
	amount    uint64
	provision uint64
	payouts   []Payout
	index     map[string]int
}

// ceilShare returns ceil(amount * num / den) without intermediate
// overflow. num and den must be positive.
func ceilShare(amount, num, den uint64) uint64 {
	n := new(big.Int).SetUint64(amount)
	n.Mul(n, new(big.Int).SetUint64(num))
	d := new(big.Int).SetUint64(den)
	r := new(big.Int)
	n.DivMod(n, d, r)
	if r.Sign() > 0 {
		n.Add(n, big.NewInt(1))
	}
	return n.Uint64()
}

// Compute runs the settlement for one consumed listing or offer.
// portions is the selling-side distribution; zero portions is valid, the
// unallocated selling share is simply not disbursed. Same-recipient
// contributions merge into a single payout before the minimum-fee floors
// apply, once per final bucket.
func Compute(in Input, portions []plutus.Portion, params contract.Params) *Settlement {
	s := &Settlement{
		amount:    in.Amount,
		provision: ceilShare(in.Amount, provisionNum, provisionDen),
		index:     make(map[string]int),
	}
	protocol := strings.ToLower(params.ProtocolTreasury)

	// 10% of the provision: amount * 25/1000 * 1/10.
	s.add(protocol, ceilShare(in.Amount, provisionNum, provisionDen*10))

	// 20% each for listing market and affiliate. Equal datums merge into
	// one bucket rather than double-paying.
	listingShare := ceilShare(in.Amount, provisionNum, provisionDen*5)
	s.add(strings.ToLower(in.ListingMarket), listingShare)
	affiliate := in.ListingAffiliate
	if affiliate == "" {
		affiliate = in.ListingMarket
	}
	s.add(strings.ToLower(affiliate), listingShare)

	// Selling side: each portion gets its percent of half the provision.
	for _, p := range portions {
		share := ceilShare(in.Amount, provisionNum*p.BasisPoints(), provisionDen*2*10_000)
		s.add(strings.ToLower(p.Treasury), share)
	}

	// Royalty runs off the full sale amount, a separate economic flow
	// from the provision.
	if in.Royalty != nil {
		s.add(strings.ToLower(in.Royalty.Treasury), ceilShare(in.Amount, in.Royalty.BasisPoints(), 10_000))
	}

	// Floors, once per final merged bucket.
	for i := range s.payouts {
		floor := params.MinimumFee
		if s.payouts[i].Treasury == protocol {
			floor = params.MinimumProtocolFee
		}
		if s.payouts[i].Amount < floor {
			s.payouts[i].Amount = floor
		}
	}
	return s
}

func (s *Settlement) add(treasury string, amount uint64) {
	if i, ok := s.index[treasury]; ok {
		s.payouts[i].Amount += amount
		return
	}
	s.index[treasury] = len(s.payouts)
	s.payouts = append(s.payouts, Payout{Treasury: treasury, Amount: amount})
}

// Provision returns the total fee taken from the trade amount, rounded up.
func (s *Settlement) Provision() uint64 { return s.provision }

// Payouts returns the final distribution in deterministic order.
func (s *Settlement) Payouts() []Payout {
	out := make([]Payout, len(s.payouts))
	copy(out, s.payouts)
	return out
}

// Amount returns the payout owed to the given treasury datum, or zero.
func (s *Settlement) Amount(treasury string) uint64 {
	if i, ok := s.index[strings.ToLower(treasury)]; ok {
		return s.payouts[i].Amount
	}
	return 0
}

// Treasuries returns the recipient datums in payout order, the set to
// pass to the reservation service.
func (s *Settlement) Treasuries() []string {
	out := make([]string, len(s.payouts))
	for i, p := range s.payouts {
		out[i] = p.Treasury
	}
	return out
}

// Total returns the sum of all payouts. It is always at least the
// provision when a royalty is absent and floors did not bite, and may
// exceed it by up to one minor unit per distinct recipient.
func (s *Settlement) Total() uint64 {
	var total uint64
	for _, p := range s.payouts {
		total += p.Amount
	}
	return total
}

// SellerProceeds returns what the instant-buy beneficiary receives: the
// price net of provision, plus the value already locked in the spent
// listing output.
func (s *Settlement) SellerProceeds(inputLovelace uint64) uint64 {
	return s.amount - s.provision + inputLovelace
}

// OffererRefund returns the escrow surplus returned to the offerer's
// counterparty when an offer is accepted. The caller must have verified
// the escrow covers the amount.
func (s *Settlement) OffererRefund(inputLovelace uint64) uint64 {
	return inputLovelace - s.amount
}
