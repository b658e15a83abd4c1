package domain

import (
	stdjson "encoding/json"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItem_RoundTripKeepsShape(t *testing.T) {
	cases := []string{
		`[{"name":"Widget","price":9.99,"qty":2}]`,
		`[{"name":"Widget","price":9.99}]`,
		`[{"name":"Widget","price":null,"qty":null}]`,
		`[{}]`,
		`[{"qty":1.5},{"name":"Gadget"}]`,
		`[]`,
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			var cart Cart
			require.NoError(t, json.Unmarshal([]byte(in), &cart))
			out, err := json.Marshal(cart)
			require.NoError(t, err)
			assert.JSONEq(t, in, string(out))
		})
	}
}

func TestCartItem_CastsLooseValues(t *testing.T) {
	var cart Cart
	require.NoError(t, json.Unmarshal([]byte(`[{"name":42,"price":"9.99","qty":true,"sku":"dropped"},{"price":"","qty":false}]`), &cart))

	assert.Equal(t, Cart{
		{Name: Some("42"), Price: Some(9.99), Qty: Some(1.0)},
		{Price: Null[float64](), Qty: Some(0.0)},
	}, cart)

	out, err := json.Marshal(cart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"42","price":9.99,"qty":1},{"price":null,"qty":0}]`, string(out))
}

func TestCartItem_RejectsUncastable(t *testing.T) {
	for _, in := range []string{
		`[{"price":"abc"}]`,
		`[{"qty":"NaN"}]`,
		`[{"price":{"amount":1}}]`,
		`[{"name":["a"]}]`,
		`["Widget"]`,
	} {
		var cart Cart
		// request bodies are decoded by gin with encoding/json
		assert.ErrorIs(t, stdjson.Unmarshal([]byte(in), &cart), ErrInvalidCartItem, in)
	}
}

func TestNewCartItem(t *testing.T) {
	out, err := json.Marshal(NewCartItem("Widget", 9.99, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Widget","price":9.99,"qty":2}`, string(out))
}
