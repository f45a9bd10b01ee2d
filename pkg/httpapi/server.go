// Package httpapi exposes the order service over the REST API consumed by the
// pizzeria UI.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	"pizzaflow/pkg/logger"
	"pizzaflow/pkg/metrics"
	"pizzaflow/pkg/order"
	"pizzaflow/pkg/order/customers"
	"pizzaflow/pkg/order/ledger"
	"pizzaflow/pkg/otel"
	"pizzaflow/pkg/service"
)

// Config holds the server dependencies.
type Config struct {
	Service        *service.Service
	Log            *logger.Logger
	Tracer         trace.Tracer
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// Server routes HTTP requests to the order service.
type Server struct {
	svc     *service.Service
	log     *logger.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
	handler http.Handler
}

// New builds the router.
func New(cfg Config) *Server {
	s := &Server{svc: cfg.Service, log: cfg.Log, tracer: cfg.Tracer, metrics: cfg.Metrics}
	if s.log == nil {
		s.log = logger.NewNop()
	}

	r := mux.NewRouter()
	r.Use(middleware.Recoverer, middleware.RealIP, s.traceMiddleware, s.metricsMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/pedidos", s.createOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/pedidos", s.listOrdersHandler).Methods(http.MethodGet)
	api.HandleFunc("/pedidos/{tempo}", s.getOrderHandler).Methods(http.MethodGet)
	api.HandleFunc("/pedidos/{tempo}", s.deleteOrderHandler).Methods(http.MethodDelete)
	api.HandleFunc("/clientes", s.listCustomersHandler).Methods(http.MethodGet)
	api.HandleFunc("/estatisticas", s.statisticsHandler).Methods(http.MethodGet)
	api.HandleFunc("/arvore", s.treeHandler).Methods(http.MethodGet)

	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"campo,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type orderSummary struct {
	Sabor    string `json:"sabor"`
	Endereco string `json:"endereco"`
	Tempo    int64  `json:"tempo"`
}

type customerResponse struct {
	Nome       string          `json:"nome"`
	Pedidos    []orderSummary  `json:"pedidos"`
	TotalGasto decimal.Decimal `json:"total_gasto"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to HTTP status codes.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Reason, Field: verr.Field})
	case errors.Is(err, order.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "pedido nao encontrado"})
	default:
		s.log.Error(ctx, "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "erro interno"})
	}
}

func timeKey(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["tempo"], 10, 64)
}

// createOrderHandler creates a new order.
// @Summary Create order
// @Accept json
// @Produce json
// @Param order body service.CreateOrderRequest true "Order"
// @Success 201 {object} order.Order
// @Failure 400 {object} errorResponse
// @Router /api/pedidos [post]
func (s *Server) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrderHandler")
	defer span.End()

	var req service.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "json invalido: " + err.Error()})
		return
	}
	o, err := s.svc.CreateOrder(ctx, req)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// listOrdersHandler lists orders in the requested traversal order.
// @Summary List orders
// @Produce json
// @Param ordem query string false "em-ordem, pre-ordem or pos-ordem"
// @Success 200 {array} order.Order
// @Failure 400 {object} errorResponse
// @Router /api/pedidos [get]
func (s *Server) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	t, err := ledger.ParseTraversal(r.URL.Query().Get("ordem"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "ordem"})
		return
	}
	writeJSON(w, http.StatusOK, s.svc.ListOrders(ctx, t))
}

// getOrderHandler retrieves an order by time key.
// @Summary Get order
// @Produce json
// @Param tempo path int true "Time key"
// @Success 200 {object} order.Order
// @Failure 404 {object} errorResponse
// @Router /api/pedidos/{tempo} [get]
func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrderHandler")
	defer span.End()

	key, err := timeKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tempo invalido", Field: "tempo"})
		return
	}
	o, err := s.svc.GetOrder(ctx, key)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// deleteOrderHandler removes an order.
// @Summary Delete order
// @Produce json
// @Param tempo path int true "Time key"
// @Success 200 {object} statusResponse
// @Failure 404 {object} errorResponse
// @Router /api/pedidos/{tempo} [delete]
func (s *Server) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteOrderHandler")
	defer span.End()

	key, err := timeKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tempo invalido", Field: "tempo"})
		return
	}
	if _, err := s.svc.DeleteOrder(ctx, key); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

// listCustomersHandler lists customers with their orders.
// @Summary List customers
// @Produce json
// @Param busca query string false "Case-insensitive name filter"
// @Success 200 {array} customerResponse
// @Router /api/clientes [get]
func (s *Server) listCustomersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listCustomersHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, toCustomerResponses(s.svc.ListCustomers(ctx, r.URL.Query().Get("busca"))))
}

func toCustomerResponses(cs []customers.Customer) []customerResponse {
	out := make([]customerResponse, 0, len(cs))
	for _, c := range cs {
		pedidos := make([]orderSummary, 0, len(c.Orders))
		for _, o := range c.Orders {
			pedidos = append(pedidos, orderSummary{Sabor: o.Flavor, Endereco: o.Address, Tempo: o.TimeKey})
		}
		out = append(out, customerResponse{Nome: c.Name, Pedidos: pedidos, TotalGasto: c.Total()})
	}
	return out
}

// statisticsHandler reports order statistics.
// @Summary Statistics
// @Produce json
// @Success 200 {object} stats.Snapshot
// @Router /api/estatisticas [get]
func (s *Server) statisticsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "statisticsHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, s.svc.Statistics(ctx))
}

// treeHandler reports the ledger tree shape.
// @Summary Tree shape
// @Produce json
// @Success 200 {object} service.TreeInfo
// @Router /api/arvore [get]
func (s *Server) treeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "treeHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, s.svc.Tree(ctx))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.tracer == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := otel.InjectTracing(r.Context(), s.tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &metrics.StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.metrics.ObserveRequest(route, r.Method, rec.Status, time.Since(start))
	})
}
