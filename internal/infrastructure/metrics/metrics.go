package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/imelnyk/bankcore/internal/usecase"
)

// Metrics holds all Prometheus metrics. Each instance carries its own
// registry so parallel tests never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	// Withdrawal metrics
	WithdrawalsProcessed *prometheus.CounterVec
	WithdrawalsFailed    *prometheus.CounterVec
	WithdrawalAmount     *prometheus.HistogramVec

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountBalance  *prometheus.GaugeVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

var _ usecase.MetricsRecorder = (*Metrics)(nil)

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		WithdrawalsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_withdrawals_processed_total",
				Help: "Total number of successful withdrawals",
			},
			[]string{"currency"},
		),
		WithdrawalsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_withdrawals_failed_total",
				Help: "Total number of rejected withdrawals by error code",
			},
			[]string{"code"},
		),
		WithdrawalAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankcore_withdrawal_amount",
				Help:    "Withdrawal amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"currency"},
		),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountBalance: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bankcore_account_balance",
				Help: "Current account balance",
			},
			[]string{"account_id", "currency"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankcore_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankcore_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),
	}
}

// Handler returns the HTTP handler exposing this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AccountCreated records a created account.
func (m *Metrics) AccountCreated() {
	m.AccountsCreated.Inc()
}

// AccountBalanceSet records the current balance of an account.
func (m *Metrics) AccountBalanceSet(accountID, currency string, balance decimal.Decimal) {
	f, _ := balance.Float64()
	m.AccountBalance.WithLabelValues(accountID, currency).Set(f)
}

// WithdrawalProcessed records a successful withdrawal.
func (m *Metrics) WithdrawalProcessed(currency string, amount decimal.Decimal) {
	m.WithdrawalsProcessed.WithLabelValues(currency).Inc()

	f, _ := amount.Float64()
	m.WithdrawalAmount.WithLabelValues(currency).Observe(f)
}

// WithdrawalFailed records a rejected withdrawal by error code.
func (m *Metrics) WithdrawalFailed(code string) {
	m.WithdrawalsFailed.WithLabelValues(code).Inc()
}
