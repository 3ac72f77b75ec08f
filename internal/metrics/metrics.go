package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "donationtracker"

// Registry is the Prometheus registry every application metric is registered on.
var Registry = prometheus.NewRegistry()

// DonationsCreated counts donations persisted through the API.
var DonationsCreated = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "donations_created_total",
		Help:      "Total number of donations recorded",
	},
)

// DonationAmount accumulates the amount of every recorded donation.
var DonationAmount = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "donation_amount_total",
		Help:      "Sum of all recorded donation amounts",
	},
)

// NotificationFailures counts confirmation emails that could not be sent.
var NotificationFailures = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of donor notifications that failed to send",
	},
	[]string{"kind"},
)

// Init registers the Go runtime and process collectors.
func Init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
