// Package order defines the pizza order entity shared by the ledger,
// the customer index and the statistics engine.
package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Order represents one pizza order. TimeKey ("tempo") is both the sort key
// and the public identifier; it never changes once the order is stored.
type Order struct {
	TimeKey      int64
	CustomerName string
	Flavor       string
	Address      string
	Kind         Kind
}

// Kind is the order variant. It is sealed: only Standard and Special exist.
type Kind interface {
	// Name is the wire name ("padrao" or "especial").
	Name() string
	// Extras returns a copy of the extra ingredients. Standard orders have none.
	Extras() []string
	price() decimal.Decimal
}

const (
	KindStandard = "padrao"
	KindSpecial  = "especial"
)

var (
	standardPrice = decimal.RequireFromString("35.00")
	specialPrice  = decimal.RequireFromString("45.00")
	pricePerExtra = decimal.RequireFromString("2.50")
)

// Standard is a plain order without extras.
type Standard struct{}

func (Standard) Name() string           { return KindStandard }
func (Standard) Extras() []string       { return nil }
func (Standard) price() decimal.Decimal { return standardPrice }

// Special carries a set of extra ingredients. The set may be empty.
type Special struct {
	extras []string
}

// NewSpecial builds a Special kind, removing duplicate ingredients and
// sorting them so equal sets compare equal.
func NewSpecial(extras []string) Special {
	set := slices.Clone(extras)
	slices.Sort(set)
	set = slices.Compact(set)
	if set == nil {
		set = []string{}
	}
	return Special{extras: set}
}

func (Special) Name() string       { return KindSpecial }
func (s Special) Extras() []string { return slices.Clone(s.extras) }

func (s Special) price() decimal.Decimal {
	return specialPrice.Add(pricePerExtra.Mul(decimal.NewFromInt(int64(len(s.extras)))))
}

// ParseKind resolves the wire representation of a kind. Standard orders must
// not carry extras; special orders must carry a (possibly empty) list.
func ParseKind(name string, extras *[]string) (Kind, error) {
	switch name {
	case KindStandard:
		if extras != nil {
			return nil, &ValidationError{Field: "extras", Reason: "pedido padrao nao aceita extras"}
		}
		return Standard{}, nil
	case KindSpecial:
		if extras == nil {
			return nil, &ValidationError{Field: "extras", Reason: "pedido especial requer a lista de extras"}
		}
		return NewSpecial(*extras), nil
	default:
		return nil, &ValidationError{Field: "tipo", Reason: "tipo deve ser padrao ou especial"}
	}
}

// KindOf returns the order kind, treating a zero Order as standard.
func (o Order) KindOf() Kind {
	if o.Kind == nil {
		return Standard{}
	}
	return o.Kind
}

// Price returns the order price.
func (o Order) Price() decimal.Decimal {
	return o.KindOf().price()
}

type orderJSON struct {
	Tempo    int64           `json:"tempo"`
	Cliente  string          `json:"cliente"`
	Sabor    string          `json:"sabor"`
	Endereco string          `json:"endereco"`
	Tipo     string          `json:"tipo"`
	Extras   []string        `json:"extras,omitempty"`
	Preco    decimal.Decimal `json:"preco"`
}

// MarshalJSON renders the order in the shape the pizzeria UI reads.
func (o Order) MarshalJSON() ([]byte, error) {
	k := o.KindOf()
	return json.Marshal(orderJSON{
		Tempo:    o.TimeKey,
		Cliente:  o.CustomerName,
		Sabor:    o.Flavor,
		Endereco: o.Address,
		Tipo:     k.Name(),
		Extras:   k.Extras(),
		Preco:    o.Price(),
	})
}

func (o Order) String() string {
	return fmt.Sprintf("%s: %s - %s (%d min)", o.CustomerName, o.Flavor, o.Address, o.TimeKey)
}

// Sentinel errors returned by the ledger and the service.
var (
	// ErrNotFound indicates the requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateKey indicates another live order already uses the time key.
	ErrDuplicateKey = errors.New("order: duplicate time key")
	// ErrKeyExhausted is returned when a re-derived key collided again.
	ErrKeyExhausted = errors.New("order: could not assign a free time key")
)

// ValidationError describes a malformed create-order request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
