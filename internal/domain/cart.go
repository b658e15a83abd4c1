package domain

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ErrInvalidCartItem is returned when an item field cannot be cast to its type.
var ErrInvalidCartItem = errors.New("invalid cart item")

// Optional is a cart item field that may be absent, explicitly null, or set.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a set field holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a field that was sent as JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// CartItem is a single line of a cart. Fields missing from the payload stay
// missing, and explicit nulls stay null, so a saved cart loads back unchanged.
type CartItem struct {
	Name  Optional[string]
	Price Optional[float64]
	Qty   Optional[float64]
}

// NewCartItem builds an item with every field set.
func NewCartItem(name string, price, qty float64) CartItem {
	return CartItem{Name: Some(name), Price: Some(price), Qty: Some(qty)}
}

// Cart is an ordered list of items, always replaced as a whole.
type Cart []CartItem

// Normalize returns an empty, non-nil cart for nil input.
func (c Cart) Normalize() Cart {
	if c == nil {
		return Cart{}
	}
	return c
}

func (i CartItem) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, set, null bool, value any) error {
		if !set {
			return nil
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(`"` + key + `":`)
		if null {
			buf.WriteString("null")
			return nil
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(raw)
		return nil
	}
	if err := write("name", i.Name.Set, i.Name.Null, i.Name.Value); err != nil {
		return nil, err
	}
	if err := write("price", i.Price.Set, i.Price.Null, i.Price.Value); err != nil {
		return nil, err
	}
	if err := write("qty", i.Qty.Set, i.Qty.Null, i.Qty.Value); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the loose input a schema-flexible store would cast:
// numbers and booleans for name, numeric strings and booleans for price and
// qty. Unknown keys are dropped.
func (i *CartItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCartItem, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: item must be an object", ErrInvalidCartItem)
	}

	var item CartItem
	var err error
	if raw, ok := fields["name"]; ok {
		if item.Name, err = castString(raw); err != nil {
			return fmt.Errorf("%w: name: %v", ErrInvalidCartItem, err)
		}
	}
	if raw, ok := fields["price"]; ok {
		if item.Price, err = castNumber(raw); err != nil {
			return fmt.Errorf("%w: price: %v", ErrInvalidCartItem, err)
		}
	}
	if raw, ok := fields["qty"]; ok {
		if item.Qty, err = castNumber(raw); err != nil {
			return fmt.Errorf("%w: qty: %v", ErrInvalidCartItem, err)
		}
	}
	*i = item
	return nil
}

func castString(raw json.RawMessage) (Optional[string], error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("null")):
		return Null[string](), nil
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Optional[string]{}, err
		}
		return Some(s), nil
	case bytes.Equal(raw, []byte("true")), bytes.Equal(raw, []byte("false")):
		return Some(string(raw)), nil
	case len(raw) > 0 && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')):
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return Optional[string]{}, err
		}
		return Some(strconv.FormatFloat(n, 'f', -1, 64)), nil
	default:
		return Optional[string]{}, fmt.Errorf("cannot cast %s to string", raw)
	}
}

func castNumber(raw json.RawMessage) (Optional[float64], error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("null")):
		return Null[float64](), nil
	case bytes.Equal(raw, []byte("true")):
		return Some(1.0), nil
	case bytes.Equal(raw, []byte("false")):
		return Some(0.0), nil
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Optional[float64]{}, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return Null[float64](), nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Optional[float64]{}, fmt.Errorf("cannot cast %q to number", s)
		}
		return Some(n), nil
	default:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return Optional[float64]{}, fmt.Errorf("cannot cast %s to number", raw)
		}
		return Some(n), nil
	}
}
