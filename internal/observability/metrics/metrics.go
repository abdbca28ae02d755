package metrics

import "github.com/prometheus/client_golang/prometheus"

// Fetch and booking outcome labels.
const (
	OutcomeOK             = "ok"
	OutcomeHTTPError      = "http_error"
	OutcomeParseError     = "parse_error"
	OutcomeTransportError = "transport_error"
	OutcomeSkipped        = "skipped"
)

// VendorMetrics exposes counters/histograms for vendor fan-out and booking flows.
type VendorMetrics struct {
	fetchTotal          *prometheus.CounterVec
	slotsTotal          *prometheus.CounterVec
	bookingTotal        *prometheus.CounterVec
	bookingRequests     *prometheus.CounterVec
	requestLatency      *prometheus.HistogramVec
	aggregationDuration prometheus.Histogram
}

func NewVendorMetrics(reg prometheus.Registerer) *VendorMetrics {
	m := &VendorMetrics{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tirechange",
			Subsystem: "vendor",
			Name:      "fetch_total",
			Help:      "Availability fetches per vendor by outcome",
		}, []string{"vendor", "outcome"}),
		slotsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tirechange",
			Subsystem: "vendor",
			Name:      "slots_total",
			Help:      "Normalized availability records returned per vendor",
		}, []string{"vendor"}),
		bookingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tirechange",
			Subsystem: "vendor",
			Name:      "booking_total",
			Help:      "Upstream booking calls per vendor by outcome",
		}, []string{"vendor", "outcome"}),
		bookingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tirechange",
			Subsystem: "booking",
			Name:      "requests_total",
			Help:      "Inbound booking requests by result",
		}, []string{"result"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tirechange",
			Subsystem: "vendor",
			Name:      "request_duration_seconds",
			Help:      "Latency of outbound vendor calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"vendor", "operation"}),
		aggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tirechange",
			Subsystem: "aggregation",
			Name:      "duration_seconds",
			Help:      "Wall time of one availability aggregation",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.fetchTotal, m.slotsTotal, m.bookingTotal, m.bookingRequests, m.requestLatency, m.aggregationDuration)
	return m
}

func (m *VendorMetrics) ObserveFetch(vendor, outcome string, slots int) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(vendor, outcome).Inc()
	if slots > 0 {
		m.slotsTotal.WithLabelValues(vendor).Add(float64(slots))
	}
}

func (m *VendorMetrics) ObserveBooking(vendor, outcome string) {
	if m == nil {
		return
	}
	m.bookingTotal.WithLabelValues(vendor, outcome).Inc()
}

// ObserveBookingRequest counts inbound booking requests; result is one of
// confirmed, invalid, unknown_location, upstream_error.
func (m *VendorMetrics) ObserveBookingRequest(result string) {
	if m == nil {
		return
	}
	m.bookingRequests.WithLabelValues(result).Inc()
}

func (m *VendorMetrics) ObserveRequestDuration(vendor, operation string, seconds float64) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(vendor, operation).Observe(seconds)
}

func (m *VendorMetrics) ObserveAggregation(seconds float64) {
	if m == nil {
		return
	}
	m.aggregationDuration.Observe(seconds)
}
