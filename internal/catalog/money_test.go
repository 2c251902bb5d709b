package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney("150.00")
	require.NoError(t, err)
	assert.Equal(t, "150", m.String())

	_, err = NewMoney("not-a-number")
	assert.Error(t, err)
}

func TestMoney_Cmp(t *testing.T) {
	a := MustMoney("120.00")
	b := MustMoney("150.00")

	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(MustMoney("120")))
}

func TestMoney_Arithmetic(t *testing.T) {
	sum := MustMoney("150.00").Add(MustMoney("120.00")).Add(MustMoney("200.00"))
	assert.Equal(t, 0, sum.Cmp(MustMoney("470")))

	// Exact decimal division, no float drift.
	avg := MustMoney("470").Div(3)
	assert.Equal(t, "156.6666666666666667", avg.String())
}

func TestMoney_IsZeroAndNegative(t *testing.T) {
	assert.True(t, Money{}.IsZero())
	assert.False(t, MustMoney("0.01").IsZero())
	assert.True(t, MustMoney("-5").IsNegative())
	assert.False(t, MustMoney("5").IsNegative())
}

func TestMoney_BSONRoundTrip(t *testing.T) {
	typ, data, err := MustMoney("199.99").MarshalBSONValue()
	require.NoError(t, err)
	assert.Equal(t, bsontype.Decimal128, typ)

	var out Money
	require.NoError(t, out.UnmarshalBSONValue(typ, data))
	assert.Equal(t, 0, out.Cmp(MustMoney("199.99")))
}

func TestMoney_UnmarshalBSONValue_NumericTypes(t *testing.T) {
	// Some dataset documents carry prices as plain numbers.
	typ, data, err := bson.MarshalValue(int32(42))
	require.NoError(t, err)
	var m Money
	require.NoError(t, m.UnmarshalBSONValue(typ, data))
	assert.Equal(t, 0, m.Cmp(MoneyFromInt(42)))

	typ, data, err = bson.MarshalValue(99.5)
	require.NoError(t, err)
	require.NoError(t, m.UnmarshalBSONValue(typ, data))
	assert.Equal(t, 0, m.Cmp(MustMoney("99.5")))

	typ, data, err = bson.MarshalValue(primitive.Null{})
	require.NoError(t, err)
	require.NoError(t, m.UnmarshalBSONValue(typ, data))
	assert.True(t, m.IsZero())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Price Money `json:"price"`
	}

	data, err := json.Marshal(payload{Price: MustMoney("120.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"120.5"}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"price":120.5}`), &p))
	assert.Equal(t, 0, p.Price.Cmp(MustMoney("120.5")))
}
