package plutus

import "math/big"

// Data is the ledger's structured-data model: a closed union of
// constructor applications, integers, byte strings and lists. The
// protocol's datums never use the map variant, so it is not modeled;
// decoding one is a format error.
type Data interface {
	isData()
}

// Constr is a tagged constructor application. Index selects the
// alternative; Fields carries its arguments in order.
type Constr struct {
	Index  uint64
	Fields []Data
}

// Integer is an arbitrary-precision integer.
type Integer struct {
	Value *big.Int
}

// Bytes is a raw byte string.
type Bytes []byte

// List is an ordered sequence of Data items.
type List []Data

func (Constr) isData()  {}
func (Integer) isData() {}
func (Bytes) isData()   {}
func (List) isData()    {}

// NewConstr builds a constructor application.
func NewConstr(index uint64, fields ...Data) Constr {
	return Constr{Index: index, Fields: fields}
}

// NewInt wraps a signed integer.
func NewInt(i int64) Integer { return Integer{Value: big.NewInt(i)} }

// NewUint wraps an unsigned integer.
func NewUint(u uint64) Integer { return Integer{Value: new(big.Int).SetUint64(u)} }

// Void returns the hex encoding of the unit constructor, used as the
// pass-through redeemer.
func Void() string { return "d87980" }
