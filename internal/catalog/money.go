package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is an exact decimal amount. Price-like fields in the source dataset
// are stored as BSON Decimal128; Money round-trips through that type without
// passing through binary floating point.
type Money struct {
	dec decimal.Decimal
}

// NewMoney parses a decimal string such as "150.00".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money value %q: %w", s, err)
	}
	return Money{dec: d}, nil
}

// MustMoney is NewMoney that panics on parse failure. Intended for
// literals in seeds and tests.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromInt returns a whole-unit amount.
func MoneyFromInt(n int64) Money {
	return Money{dec: decimal.NewFromInt(n)}
}

func (m Money) String() string { return m.dec.String() }

// Cmp returns -1, 0 or 1 comparing m to other.
func (m Money) Cmp(other Money) int { return m.dec.Cmp(other.dec) }

func (m Money) Add(other Money) Money { return Money{dec: m.dec.Add(other.dec)} }

// Div divides by n, keeping decimal precision. Used by the in-memory
// aggregation fallback; the mongo backend averages server-side.
func (m Money) Div(n int64) Money {
	return Money{dec: m.dec.Div(decimal.NewFromInt(n))}
}

func (m Money) IsZero() bool { return m.dec.IsZero() }

func (m Money) IsNegative() bool { return m.dec.IsNegative() }

// Decimal128 converts to the BSON wire representation.
func (m Money) Decimal128() (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(m.dec.String())
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := m.Decimal128()
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(d128)
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		d128, ok := raw.Decimal128OK()
		if !ok {
			return fmt.Errorf("malformed decimal128 value")
		}
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return fmt.Errorf("decimal128 %q: %w", d128.String(), err)
		}
		m.dec = d
	case bsontype.Double:
		m.dec = decimal.NewFromFloat(raw.Double())
	case bsontype.Int32:
		m.dec = decimal.NewFromInt(int64(raw.Int32()))
	case bsontype.Int64:
		m.dec = decimal.NewFromInt(raw.Int64())
	case bsontype.String:
		d, err := decimal.NewFromString(raw.StringValue())
		if err != nil {
			return fmt.Errorf("money string %q: %w", raw.StringValue(), err)
		}
		m.dec = d
	case bsontype.Null, bsontype.Undefined:
		m.dec = decimal.Decimal{}
	default:
		return fmt.Errorf("cannot decode %v into Money", t)
	}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return m.dec.MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.dec.UnmarshalJSON(data)
}
