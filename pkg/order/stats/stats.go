// Package stats derives aggregate statistics from a ledger snapshot.
package stats

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"pizzaflow/pkg/order"
)

// Unavailable is reported in place of a statistic that has no value.
const Unavailable = "N/A"

// Stat is a statistic that may be unavailable.
type Stat[T any] struct {
	Value T
	Valid bool
}

func available[T any](v T) Stat[T] { return Stat[T]{Value: v, Valid: true} }

// MarshalJSON writes the value, or "N/A" when the statistic is unavailable.
func (s Stat[T]) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return json.Marshal(Unavailable)
	}
	return json.Marshal(s.Value)
}

// Snapshot holds the statistics computed from one ledger snapshot.
type Snapshot struct {
	CustomerCount Stat[int]             `json:"total_clientes"`
	OrderCount    Stat[int]             `json:"total_pedidos"`
	Fastest       Stat[int64]           `json:"mais_rapido"`
	Slowest       Stat[int64]           `json:"mais_demorado"`
	MeanTime      Stat[float64]         `json:"tempo_medio"`
	Revenue       Stat[decimal.Decimal] `json:"faturamento_total"`
}

// Available reports whether the snapshot was computed over at least one order.
func (s Snapshot) Available() bool {
	return s.OrderCount.Valid
}

// Compute walks snapshot once. customerCount must be the size of the
// customer index built from the same snapshot. An empty snapshot yields a
// Snapshot whose statistics are all unavailable.
func Compute(snapshot []order.Order, customerCount int) Snapshot {
	if len(snapshot) == 0 {
		return Snapshot{}
	}

	fastest, slowest := snapshot[0].TimeKey, snapshot[0].TimeKey
	var sum int64
	revenue := decimal.Zero
	for _, o := range snapshot {
		fastest = min(fastest, o.TimeKey)
		slowest = max(slowest, o.TimeKey)
		sum += o.TimeKey
		revenue = revenue.Add(o.Price())
	}

	return Snapshot{
		CustomerCount: available(customerCount),
		OrderCount:    available(len(snapshot)),
		Fastest:       available(fastest),
		Slowest:       available(slowest),
		MeanTime:      available(float64(sum) / float64(len(snapshot))),
		Revenue:       available(revenue),
	}
}
