// Package metrics colectores Prometheus del motor de costeo y de la capa HTTP.
package metrics

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

var _ ports.CostingMetrics = (*Costing)(nil)

// Costing contadores de recálculos y propagaciones.
type Costing struct {
	Recalculations   *prometheus.CounterVec
	Propagations     prometheus.Counter
	AffectedProducts prometheus.Histogram
}

// NewCosting registra los colectores en reg (DefaultRegisterer si es nil).
func NewCosting(namespace string, reg prometheus.Registerer) *Costing {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Costing{
		Recalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_recalculations_total",
			Help:      "Recálculos de costo de producto por disparador.",
		}, []string{"trigger"}),
		Propagations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingredient_propagations_total",
			Help:      "Cambios efectivos de costo de ingrediente propagados.",
		}),
		AffectedProducts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingredient_propagation_products",
			Help:      "Productos recalculados por cada propagación.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
	}
	m.Recalculations = register(reg, m.Recalculations)
	m.Propagations = register(reg, m.Propagations)
	m.AffectedProducts = register(reg, m.AffectedProducts)
	return m
}

func (m *Costing) ProductRecalculated(trigger string) {
	m.Recalculations.WithLabelValues(trigger).Inc()
}

func (m *Costing) IngredientPropagated(affectedProducts int) {
	m.Propagations.Inc()
	m.AffectedProducts.Observe(float64(affectedProducts))
}

// HTTP colectores de peticiones.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTP registra los colectores HTTP.
func NewHTTP(namespace string, reg prometheus.Registerer) *HTTP {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &HTTP{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "Latencia HTTP en milisegundos.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Peticiones HTTP en curso.",
		}),
	}
	m.Requests = register(reg, m.Requests)
	m.Duration = register(reg, m.Duration)
	m.InFlight = register(reg, m.InFlight)
	return m
}

// Observe registra una petición terminada.
func (m *HTTP) Observe(method, route string, status int, millis float64) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.Duration.WithLabelValues(method, route).Observe(millis)
}

// register reutiliza el colector ya registrado con el mismo nombre (p. ej. en tests).
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("registrar colector: %w", err))
	}
	return c
}

// InFlightAdd ajusta el gauge de peticiones en curso.
func (m *HTTP) InFlightAdd(delta float64) {
	m.InFlight.Add(delta)
}
