package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzaflow/pkg/order"
)

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, 0)
	assert.False(t, s.Available())
	assert.False(t, s.CustomerCount.Valid)
	assert.False(t, s.OrderCount.Valid)
	assert.False(t, s.Fastest.Valid)
	assert.False(t, s.Slowest.Valid)
	assert.False(t, s.MeanTime.Valid)
	assert.False(t, s.Revenue.Valid)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_clientes": "N/A",
		"total_pedidos": "N/A",
		"mais_rapido": "N/A",
		"mais_demorado": "N/A",
		"tempo_medio": "N/A",
		"faturamento_total": "N/A"
	}`, string(b))
}

func TestCompute(t *testing.T) {
	snapshot := []order.Order{
		{TimeKey: 3, CustomerName: "a", Kind: order.Standard{}},
		{TimeKey: 7, CustomerName: "b", Kind: order.NewSpecial([]string{"bacon"})},
		{TimeKey: 5, CustomerName: "a", Kind: order.Standard{}},
	}
	s := Compute(snapshot, 2)

	require.True(t, s.Available())
	assert.Equal(t, 2, s.CustomerCount.Value)
	assert.Equal(t, 3, s.OrderCount.Value)
	assert.Equal(t, int64(3), s.Fastest.Value)
	assert.Equal(t, int64(7), s.Slowest.Value)
	assert.InDelta(t, 5.0, s.MeanTime.Value, 1e-9)
	assert.Equal(t, "117.5", s.Revenue.Value.String())

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_clientes": 2,
		"total_pedidos": 3,
		"mais_rapido": 3,
		"mais_demorado": 7,
		"tempo_medio": 5,
		"faturamento_total": "117.5"
	}`, string(b))
}

func TestComputeSingleOrder(t *testing.T) {
	s := Compute([]order.Order{{TimeKey: 19}}, 1)
	assert.Equal(t, int64(19), s.Fastest.Value)
	assert.Equal(t, int64(19), s.Slowest.Value)
	assert.InDelta(t, 19.0, s.MeanTime.Value, 1e-9)
}
