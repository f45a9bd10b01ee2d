// Package customers groups a ledger snapshot by customer name.
package customers

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"pizzaflow/pkg/order"
)

// Customer is one group of the index.
type Customer struct {
	Name   string
	Orders []order.Order
}

// Total is the amount the customer spent over all their orders.
func (c Customer) Total() decimal.Decimal {
	total := decimal.Zero
	for _, o := range c.Orders {
		total = total.Add(o.Price())
	}
	return total
}

// Index maps exact (case-sensitive) customer names to their orders. It is
// read-only once built; rebuild it from a fresh snapshot after any ledger
// mutation.
type Index struct {
	byName btree.Map[string, []order.Order]
}

// Rebuild groups snapshot by customer name. Within a customer, orders keep
// their relative position in snapshot.
func Rebuild(snapshot []order.Order) *Index {
	ix := &Index{}
	for _, o := range snapshot {
		orders, _ := ix.byName.Get(o.CustomerName)
		ix.byName.Set(o.CustomerName, append(orders, o))
	}
	return ix
}

// Len returns the number of distinct customers.
func (ix *Index) Len() int {
	return ix.byName.Len()
}

// Orders returns the orders of the named customer.
func (ix *Index) Orders(name string) ([]order.Order, bool) {
	orders, ok := ix.byName.Get(name)
	if !ok {
		return nil, false
	}
	return slices.Clone(orders), true
}

// Customers lists every group, ascending by name.
func (ix *Index) Customers() []Customer {
	out := make([]Customer, 0, ix.byName.Len())
	ix.byName.Scan(func(name string, orders []order.Order) bool {
		out = append(out, Customer{Name: name, Orders: slices.Clone(orders)})
		return true
	})
	return out
}

// Search returns the names containing query, ignoring case. An empty query
// matches every customer.
func (ix *Index) Search(query string) []string {
	q := strings.ToLower(query)
	var out []string
	ix.byName.Scan(func(name string, _ []order.Order) bool {
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, name)
		}
		return true
	})
	return out
}

// Filter returns the groups whose name matches query as in Search.
func (ix *Index) Filter(query string) []Customer {
	names := ix.Search(query)
	out := make([]Customer, 0, len(names))
	for _, name := range names {
		orders, _ := ix.Orders(name)
		out = append(out, Customer{Name: name, Orders: orders})
	}
	return out
}
