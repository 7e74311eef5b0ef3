package metrics

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefront(reg)

	m.IncCartOp("add")
	m.IncCartOp("add")
	m.IncOrderPlaced("promptpay")
	m.IncCheckoutFailure("")
	m.IncNotificationFailure("webhook")
	m.IncOutboxPublish("published")
	m.IncTierFetch("cache")
	m.ObserveCheckout(120 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	checks := []struct {
		name, label, value string
		want               float64
	}{
		{"cart_operations_total", "op", "add", 2},
		{"checkout_orders_total", "payment_method", "promptpay", 1},
		{"checkout_failures_total", "stage", "unknown", 1},
		{"notification_failures_total", "channel", "webhook", 1},
		{"outbox_publish_total", "result", "published", 1},
		{"promotion_tier_fetch_total", "source", "cache", 1},
	}
	for _, c := range checks {
		got, err := fetchCounterValue(mfs, c.name, c.label, c.value)
		if err != nil {
			t.Fatalf("fetch %s: %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("%s expected %v, got %v", c.name, c.want, got)
		}
	}

	mf := findMetricFamily(mfs, "checkout_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one checkout duration sample")
	}
}

func TestNilStorefrontIsNoop(t *testing.T) {
	var m *Storefront
	m.IncCartOp("add")
	m.IncNotificationFailure("webhook")

	unregistered := NewStorefront(nil)
	unregistered.IncOrderPlaced("cod")
	unregistered.ObserveCheckout(time.Second)
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewStorefront(reg).IncCartOp("clear")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `cart_operations_total{op="clear"} 1`) {
		t.Fatalf("expected cart counter in output, got %s", body)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

func TestStorefrontMetricsRecordsJobs(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefront(reg)

	m.IncJobRun("order-expiry", "success")
	m.IncJobRun("outbox-retention", "failure")
	m.ObserveJob("order-expiry", 2*time.Second)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "maintenance_job_runs_total", "job", "outbox-retention"); err != nil || got != 1 {
		t.Fatalf("expected one outbox-retention run, got %v (%v)", got, err)
	}
	mf := findMetricFamily(mfs, "maintenance_job_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one job duration sample")
	}
}
