// Package service is the boundary the HTTP layer calls into. It validates
// requests, assigns time keys and derives the customer index and statistics
// from one ledger snapshot per request.
package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel/attribute"

	"pizzaflow/pkg/events"
	"pizzaflow/pkg/logger"
	"pizzaflow/pkg/metrics"
	"pizzaflow/pkg/order"
	"pizzaflow/pkg/order/customers"
	"pizzaflow/pkg/order/eta"
	"pizzaflow/pkg/order/ledger"
	"pizzaflow/pkg/order/stats"
	"pizzaflow/pkg/otel"
)

// Ledger is the ordered order store the service runs on.
type Ledger interface {
	Insert(o order.Order) error
	Delete(key int64) (order.Order, error)
	Find(key int64) (order.Order, bool)
	FreeKeyFrom(key int64) int64
	Traverse(t ledger.Traversal) []order.Order
	Snapshot() ([]order.Order, uint64)
	Count() int
	Height() int
	Balanced() bool
}

// KeyEstimator derives the preferred time key of a new order.
type KeyEstimator interface {
	Estimate(address string, kind order.Kind) int64
}

// CreateOrderRequest is the create-order payload. Extras must be nil for
// standard orders and non-nil (possibly empty) for special ones.
type CreateOrderRequest struct {
	Name    string    `json:"nome" validate:"required,max=120"`
	Flavor  string    `json:"sabor" validate:"required,max=120"`
	Address string    `json:"endereco" validate:"required,max=200"`
	Kind    string    `json:"tipo" validate:"required"`
	Extras  *[]string `json:"extras" validate:"omitempty,max=20,dive,required,max=60"`
}

// TreeInfo describes the current ledger shape.
type TreeInfo struct {
	Height   int  `json:"altura"`
	Count    int  `json:"total"`
	Balanced bool `json:"balanceada"`
}

// Service implements the order operations.
type Service struct {
	ledger    Ledger
	keys      KeyEstimator
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *logger.Logger
	validate  *validator.Validate
	sanitize  *bluemonday.Policy

	mu         sync.Mutex
	index      *customers.Index
	indexValid bool
	indexAt    uint64
}

// Option customizes a Service.
type Option func(*Service)

func WithPublisher(p events.Publisher) Option { return func(s *Service) { s.publisher = p } }
func WithMetrics(m *metrics.Metrics) Option   { return func(s *Service) { s.metrics = m } }
func WithLogger(l *logger.Logger) Option      { return func(s *Service) { s.log = l } }

// New wires a service around l. keys defaults to the stock delivery
// estimator when nil.
func New(l Ledger, keys KeyEstimator, opts ...Option) *Service {
	if keys == nil {
		keys = eta.New(eta.DefaultConfig())
	}
	s := &Service{
		ledger:    l,
		keys:      keys,
		publisher: events.Nop{},
		log:       logger.NewNop(),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		sanitize:  bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder validates req, assigns a time key and stores the order. When
// the estimated key is taken the next free key is derived and insertion is
// retried once.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (order.Order, error) {
	ctx, span := otel.AddSpan(ctx, "service.CreateOrder")
	defer span.End()

	o, err := s.build(req)
	if err != nil {
		s.log.Warn(ctx, "rejected order", "error", err)
		return order.Order{}, err
	}

	o.TimeKey = s.keys.Estimate(o.Address, o.Kind)
	err = s.ledger.Insert(o)
	if errors.Is(err, order.ErrDuplicateKey) {
		estimate := o.TimeKey
		o.TimeKey = s.ledger.FreeKeyFrom(estimate)
		s.metrics.Rekey()
		s.log.Debug(ctx, "time key taken, re-keyed", "estimate", estimate, "tempo", o.TimeKey)
		err = s.ledger.Insert(o)
		if errors.Is(err, order.ErrDuplicateKey) {
			err = fmt.Errorf("%w: %d", order.ErrKeyExhausted, o.TimeKey)
		}
	}
	if err != nil {
		s.log.Error(ctx, "insert order", "error", err)
		return order.Order{}, err
	}

	span.SetAttributes(attribute.Int64("tempo", o.TimeKey))
	s.metrics.Created(o.KindOf().Name(), s.ledger.Count())
	s.log.Info(ctx, "order created", "tempo", o.TimeKey, "cliente", o.CustomerName, "tipo", o.KindOf().Name())
	s.publish(ctx, events.OrderCreated, o)
	return o, nil
}

func (s *Service) build(req CreateOrderRequest) (order.Order, error) {
	req.Name = s.clean(req.Name)
	req.Flavor = s.clean(req.Flavor)
	req.Address = s.clean(req.Address)
	req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
	if req.Extras != nil {
		extras := make([]string, len(*req.Extras))
		for i, e := range *req.Extras {
			extras[i] = s.clean(e)
		}
		req.Extras = &extras
	}

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return order.Order{}, &order.ValidationError{Field: jsonField(verrs[0]), Reason: verrs[0].Tag()}
		}
		return order.Order{}, &order.ValidationError{Field: "pedido", Reason: err.Error()}
	}

	kind, err := order.ParseKind(req.Kind, req.Extras)
	if err != nil {
		return order.Order{}, err
	}
	return order.Order{
		CustomerName: req.Name,
		Flavor:       req.Flavor,
		Address:      req.Address,
		Kind:         kind,
	}, nil
}

// clean strips markup, since the UI renders these strings as HTML. The
// policy also entity-encodes text; that is undone so the ledger keeps the
// plain string the client sent ("D'Ávila", "Frango & Catupiry").
func (s *Service) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitize.Sanitize(v)))
}

var fieldNames = map[string]string{
	"Name":    "nome",
	"Flavor":  "sabor",
	"Address": "endereco",
	"Kind":    "tipo",
	"Extras":  "extras",
}

func jsonField(fe validator.FieldError) string {
	name := fe.StructField()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if f, ok := fieldNames[name]; ok {
		return f
	}
	return fe.Field()
}

// GetOrder returns the order stored under key.
func (s *Service) GetOrder(ctx context.Context, key int64) (order.Order, error) {
	_, span := otel.AddSpan(ctx, "service.GetOrder", attribute.Int64("tempo", key))
	defer span.End()

	o, ok := s.ledger.Find(key)
	if !ok {
		return order.Order{}, fmt.Errorf("get %d: %w", key, order.ErrNotFound)
	}
	return o, nil
}

// ListOrders returns every order in the requested traversal order.
func (s *Service) ListOrders(ctx context.Context, t ledger.Traversal) []order.Order {
	_, span := otel.AddSpan(ctx, "service.ListOrders", attribute.String("ordem", t.String()))
	defer span.End()
	return s.ledger.Traverse(t)
}

// DeleteOrder removes the order stored under key.
func (s *Service) DeleteOrder(ctx context.Context, key int64) (order.Order, error) {
	ctx, span := otel.AddSpan(ctx, "service.DeleteOrder", attribute.Int64("tempo", key))
	defer span.End()

	o, err := s.ledger.Delete(key)
	if err != nil {
		s.log.Warn(ctx, "delete order", "tempo", key, "error", err)
		return order.Order{}, err
	}
	s.metrics.Deleted(s.ledger.Count())
	s.log.Info(ctx, "order deleted", "tempo", key, "cliente", o.CustomerName)
	s.publish(ctx, events.OrderDeleted, o)
	return o, nil
}

// ListCustomers groups the current orders by customer. A non-empty query
// keeps only customers whose name contains it, ignoring case.
func (s *Service) ListCustomers(ctx context.Context, query string) []customers.Customer {
	_, span := otel.AddSpan(ctx, "service.ListCustomers")
	defer span.End()

	snap, version := s.ledger.Snapshot()
	ix := s.customerIndex(snap, version)
	if query == "" {
		return ix.Customers()
	}
	return ix.Filter(query)
}

// Statistics computes the statistics of the current orders. The customer
// count comes from the index built over the same snapshot.
func (s *Service) Statistics(ctx context.Context) stats.Snapshot {
	_, span := otel.AddSpan(ctx, "service.Statistics")
	defer span.End()

	snap, version := s.ledger.Snapshot()
	return stats.Compute(snap, s.customerIndex(snap, version).Len())
}

// Tree reports the ledger shape.
func (s *Service) Tree(ctx context.Context) TreeInfo {
	_, span := otel.AddSpan(ctx, "service.Tree")
	defer span.End()

	return TreeInfo{Height: s.ledger.Height(), Count: s.ledger.Count(), Balanced: s.ledger.Balanced()}
}

// customerIndex returns the index for snap, reusing the cached one while
// the ledger version it was built from is current.
func (s *Service) customerIndex(snap []order.Order, version uint64) *customers.Index {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexValid && s.indexAt == version {
		return s.index
	}
	ix := customers.Rebuild(snap)
	if !s.indexValid || version > s.indexAt {
		s.index, s.indexAt, s.indexValid = ix, version, true
	}
	return ix
}

func (s *Service) publish(ctx context.Context, typ string, o order.Order) {
	if err := s.publisher.Publish(ctx, events.New(typ, o)); err != nil {
		s.log.Error(ctx, "publish event", "tipo", typ, "tempo", o.TimeKey, "error", err)
	}
}
