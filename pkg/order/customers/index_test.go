package customers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzaflow/pkg/order"
)

func o(key int64, name string) order.Order {
	return order.Order{TimeKey: key, CustomerName: name, Flavor: "calabresa", Address: "gama", Kind: order.Standard{}}
}

func keys(orders []order.Order) []int64 {
	out := make([]int64, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.TimeKey)
	}
	return out
}

func TestRebuildGroupsByExactName(t *testing.T) {
	ix := Rebuild([]order.Order{o(3, "Ana"), o(5, "bruno"), o(7, "Ana"), o(9, "ana")})

	require.Equal(t, 3, ix.Len())
	got, ok := ix.Orders("Ana")
	require.True(t, ok)
	assert.Equal(t, []int64{3, 7}, keys(got))

	got, ok = ix.Orders("ana")
	require.True(t, ok)
	assert.Equal(t, []int64{9}, keys(got))

	_, ok = ix.Orders("carla")
	assert.False(t, ok)
}

func TestRebuildPreservesInputOrder(t *testing.T) {
	ix := Rebuild([]order.Order{o(9, "Ana"), o(1, "Ana"), o(4, "Ana")})
	got, _ := ix.Orders("Ana")
	assert.Equal(t, []int64{9, 1, 4}, keys(got))
}

func TestCustomersSortedByName(t *testing.T) {
	ix := Rebuild([]order.Order{o(1, "Zeca"), o(2, "Ana"), o(3, "Maria")})

	var names []string
	for _, c := range ix.Customers() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Ana", "Maria", "Zeca"}, names)
}

func TestEmptySnapshot(t *testing.T) {
	ix := Rebuild(nil)
	assert.Equal(t, 0, ix.Len())
	assert.Empty(t, ix.Customers())
	assert.Empty(t, ix.Search(""))
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	ix := Rebuild([]order.Order{o(1, "Mariana"), o(2, "MARIO"), o(3, "Ana"), o(4, "Joao")})

	assert.Equal(t, []string{"MARIO", "Mariana"}, ix.Search("mar"))
	assert.Equal(t, []string{"Ana", "Mariana"}, ix.Search("ANA"))
	assert.Len(t, ix.Search(""), 4)
	assert.Empty(t, ix.Search("xyz"))
	// search never mutates
	assert.Equal(t, 4, ix.Len())
}

func TestFilter(t *testing.T) {
	ix := Rebuild([]order.Order{o(1, "Mariana"), o(2, "Ana"), o(3, "Mariana")})
	got := ix.Filter("mari")
	require.Len(t, got, 1)
	assert.Equal(t, "Mariana", got[0].Name)
	assert.Equal(t, []int64{1, 3}, keys(got[0].Orders))
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	ix := Rebuild([]order.Order{o(1, "Ana")})
	got, _ := ix.Orders("Ana")
	got[0].TimeKey = 99
	again, _ := ix.Orders("Ana")
	assert.Equal(t, int64(1), again[0].TimeKey)
}

func TestCustomerTotal(t *testing.T) {
	special := o(4, "Ana")
	special.Kind = order.NewSpecial([]string{"bacon"})
	ix := Rebuild([]order.Order{o(1, "Ana"), o(2, "Bia"), special})

	got := ix.Filter("ana")
	require.Len(t, got, 1)
	assert.Equal(t, "82.5", got[0].Total().String())

	assert.True(t, Customer{Name: "Zeca"}.Total().IsZero())
}
