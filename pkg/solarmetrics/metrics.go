package solarmetrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/simulator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeCommitted = "committed"
	OutcomePaused    = "paused"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	ticksTotal        *prometheus.CounterVec
	generationKWh     prometheus.Gauge
	weatherFactor     prometheus.Gauge
	houseConsumption  *prometheus.GaugeVec
	houseSurplus      *prometheus.GaugeVec
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewMetrics registers every collector on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		ticksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "solar_ticks_total",
			Help: "Simulation ticks by outcome.",
		}, []string{"outcome"}),
		generationKWh: factory.NewGauge(prometheus.GaugeOpts{
			Name: "solar_generation_kwh",
			Help: "Generation of every house in the latest committed tick.",
		}),
		weatherFactor: factory.NewGauge(prometheus.GaugeOpts{
			Name: "solar_weather_factor",
			Help: "Weather factor of the latest tick.",
		}),
		houseConsumption: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solar_house_consumption_kwh",
			Help: "Consumption per house in the latest committed tick.",
		}, []string{"house"}),
		houseSurplus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solar_house_surplus_kwh",
			Help: "Surplus per house in the latest committed tick, negative on a deficit.",
		}, []string{"house"}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveTick records a tick that was committed or paused.
func (m *Metrics) ObserveTick(tick *simulator.Tick) {
	if m == nil || tick == nil {
		return
	}
	m.weatherFactor.Set(tick.WeatherFactor)
	if tick.Paused {
		m.ticksTotal.WithLabelValues(OutcomePaused).Inc()
		return
	}

	m.ticksTotal.WithLabelValues(OutcomeCommitted).Inc()
	for _, r := range tick.Readings {
		house := strconv.Itoa(r.HouseID)
		m.generationKWh.Set(r.GenerationKWh)
		m.houseConsumption.WithLabelValues(house).Set(r.ConsumptionKWh)
		m.houseSurplus.WithLabelValues(house).Set(r.SurplusKWh)
	}
}

func (m *Metrics) ObserveFailure() {
	if m == nil {
		return
	}
	m.ticksTotal.WithLabelValues(OutcomeFailed).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
