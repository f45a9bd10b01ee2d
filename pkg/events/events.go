// Package events publishes order lifecycle events so other listeners (for
// instance a second UI) can refresh without polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pizzaflow/pkg/order"
)

// Event types.
const (
	OrderCreated = "pedido.criado"
	OrderDeleted = "pedido.removido"
)

// Event is the published payload.
type Event struct {
	ID    string      `json:"id"`
	Type  string      `json:"tipo"`
	Order order.Order `json:"pedido"`
	At    time.Time   `json:"em"`
}

// New stamps a fresh event of type typ for o.
func New(typ string, o order.Order) Event {
	return Event{ID: uuid.NewString(), Type: typ, Order: o, At: time.Now().UTC()}
}

// Key is the partition/routing key of the event.
func (e Event) Key() string {
	return fmt.Sprintf("%d", e.Order.TimeKey)
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
