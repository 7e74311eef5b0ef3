package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Storefront records cart, checkout and delivery counters.
type Storefront struct {
	cartOps          *prometheus.CounterVec
	ordersPlaced     *prometheus.CounterVec
	checkoutFailures *prometheus.CounterVec
	checkoutDuration prometheus.Histogram
	notifyFailures   *prometheus.CounterVec
	outboxPublish    *prometheus.CounterVec
	tierFetch        *prometheus.CounterVec
	jobRuns          *prometheus.CounterVec
	jobDuration      *prometheus.HistogramVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	m := &Storefront{
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Cart mutations by operation.",
		}, []string{"op"}),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_orders_total",
			Help: "Orders placed by payment method.",
		}, []string{"payment_method"}),
		checkoutFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_failures_total",
			Help: "Checkout attempts that failed, by stage.",
		}, []string{"stage"}),
		checkoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Time spent placing an order.",
			Buckets: prometheus.DefBuckets,
		}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Order notifications that could not be delivered.",
		}, []string{"channel"}),
		outboxPublish: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_publish_total",
			Help: "Outbox publish attempts by result.",
		}, []string{"result"}),
		tierFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promotion_tier_fetch_total",
			Help: "Promotion tier loads by source.",
		}, []string{"source"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "maintenance_job_runs_total",
			Help: "Maintenance job runs by job and result.",
		}, []string{"job", "result"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "maintenance_job_duration_seconds",
			Help:    "Maintenance job run time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}
	reg.MustRegister(m.cartOps, m.ordersPlaced, m.checkoutFailures, m.checkoutDuration, m.notifyFailures, m.outboxPublish, m.tierFetch, m.jobRuns, m.jobDuration)
	return m
}

func (m *Storefront) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *Storefront) IncOrderPlaced(paymentMethod string) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

func (m *Storefront) IncCheckoutFailure(stage string) {
	if m == nil || m.checkoutFailures == nil {
		return
	}
	m.checkoutFailures.WithLabelValues(normalizeLabel(stage)).Inc()
}

func (m *Storefront) ObserveCheckout(d time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	m.checkoutDuration.Observe(d.Seconds())
}

func (m *Storefront) IncNotificationFailure(channel string) {
	if m == nil || m.notifyFailures == nil {
		return
	}
	m.notifyFailures.WithLabelValues(normalizeLabel(channel)).Inc()
}

func (m *Storefront) IncOutboxPublish(result string) {
	if m == nil || m.outboxPublish == nil {
		return
	}
	m.outboxPublish.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncTierFetch counts where promotion tiers came from: cache, db or error.
func (m *Storefront) IncTierFetch(source string) {
	if m == nil || m.tierFetch == nil {
		return
	}
	m.tierFetch.WithLabelValues(normalizeLabel(source)).Inc()
}

func (m *Storefront) IncJobRun(job, result string) {
	if m == nil || m.jobRuns == nil {
		return
	}
	m.jobRuns.WithLabelValues(normalizeLabel(job), normalizeLabel(result)).Inc()
}

func (m *Storefront) ObserveJob(job string, d time.Duration) {
	if m == nil || m.jobDuration == nil {
		return
	}
	m.jobDuration.WithLabelValues(normalizeLabel(job)).Observe(d.Seconds())
}

// Handler exposes the gathered metrics in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
