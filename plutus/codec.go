package plutus

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Constructor tag windows of the ledger's structured-data encoding.
// Indices 0-6 map onto tags 121-127, 7-127 onto 1280-1400, anything
// larger is wrapped in the general tag 102.
const (
	tagCompactBase  = 121
	tagCompactMax   = 127
	tagExtendedBase = 1280
	tagExtendedMax  = 1400
	tagGeneral      = 102
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		BigIntConvert: cbor.BigIntConvertShortest,
		Sort:          cbor.SortNone,
	}.EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		MaxNestedLevels: 64,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Encode serializes d into its CBOR representation.
func Encode(d Data) ([]byte, error) {
	item, err := toItem(d)
	if err != nil {
		return nil, err
	}
	out, err := encMode.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("plutus: encode: %w", err)
	}
	return out, nil
}

// EncodeHex serializes d and returns the lowercase hex string used as the
// datum currency throughout the library.
func EncodeHex(d Data) (string, error) {
	raw, err := Encode(d)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// MustEncodeHex is EncodeHex for statically valid data, mostly literals
// in catalogs and tests.
func MustEncodeHex(d Data) string {
	s, err := EncodeHex(d)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode parses CBOR bytes into the Data model. Items outside the model
// (maps, floats, text strings) yield ErrFormat.
func Decode(raw []byte) (Data, error) {
	var item interface{}
	if err := decMode.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return fromItem(item)
}

// DecodeHex parses a hex datum string. Case is ignored.
func DecodeHex(s string) (Data, error) {
	raw, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return nil, fmt.Errorf("%w: not hex: %w", ErrFormat, err)
	}
	return Decode(raw)
}

// Normalize re-encodes a hex datum into its canonical lowercase form.
// Semantically equal datums that differ in hex case map to one string.
func Normalize(s string) (string, error) {
	d, err := DecodeHex(s)
	if err != nil {
		return "", err
	}
	return EncodeHex(d)
}

func toItem(d Data) (interface{}, error) {
	switch v := d.(type) {
	case Constr:
		fields := make([]interface{}, len(v.Fields))
		for i, f := range v.Fields {
			item, err := toItem(f)
			if err != nil {
				return nil, err
			}
			fields[i] = item
		}
		switch {
		case v.Index <= tagCompactMax-tagCompactBase:
			return cbor.Tag{Number: tagCompactBase + v.Index, Content: fields}, nil
		case v.Index <= tagExtendedMax-tagExtendedBase+7:
			return cbor.Tag{Number: tagExtendedBase + v.Index - 7, Content: fields}, nil
		default:
			return cbor.Tag{Number: tagGeneral, Content: []interface{}{v.Index, fields}}, nil
		}
	case Integer:
		if v.Value == nil {
			return nil, fmt.Errorf("%w: nil integer", ErrFormat)
		}
		return v.Value, nil
	case Bytes:
		return []byte(v), nil
	case List:
		items := make([]interface{}, len(v))
		for i, f := range v {
			item, err := toItem(f)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: unknown data variant %T", ErrFormat, d)
	}
}

func fromItem(item interface{}) (Data, error) {
	switch v := item.(type) {
	case uint64:
		return NewUint(v), nil
	case int64:
		return NewInt(v), nil
	case big.Int:
		return Integer{Value: new(big.Int).Set(&v)}, nil
	case *big.Int:
		return Integer{Value: new(big.Int).Set(v)}, nil
	case []byte:
		return Bytes(v), nil
	case []interface{}:
		items := make(List, len(v))
		for i, f := range v {
			d, err := fromItem(f)
			if err != nil {
				return nil, err
			}
			items[i] = d
		}
		return items, nil
	case cbor.Tag:
		return fromTag(v)
	default:
		return nil, fmt.Errorf("%w: unsupported item %T", ErrFormat, item)
	}
}

func fromTag(tag cbor.Tag) (Data, error) {
	var index uint64
	content := tag.Content

	switch {
	case tag.Number >= tagCompactBase && tag.Number <= tagCompactMax:
		index = tag.Number - tagCompactBase
	case tag.Number >= tagExtendedBase && tag.Number <= tagExtendedMax:
		index = tag.Number - tagExtendedBase + 7
	case tag.Number == tagGeneral:
		pair, ok := tag.Content.([]interface{})
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: general constructor needs [index, fields]", ErrFormat)
		}
		idx, err := fromItem(pair[0])
		if err != nil {
			return nil, err
		}
		n, ok := idx.(Integer)
		if !ok || !n.Value.IsUint64() {
			return nil, fmt.Errorf("%w: general constructor index", ErrFormat)
		}
		index = n.Value.Uint64()
		content = pair[1]
	default:
		return nil, fmt.Errorf("%w: unexpected tag %d", ErrFormat, tag.Number)
	}

	rawFields, ok := content.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: constructor fields must be a list", ErrFormat)
	}
	fields := make([]Data, len(rawFields))
	for i, f := range rawFields {
		d, err := fromItem(f)
		if err != nil {
			return nil, err
		}
		fields[i] = d
	}
	return Constr{Index: index, Fields: fields}, nil
}
