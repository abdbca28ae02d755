package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/tirechange-hub/internal/catalog"
	"github.com/wolfman30/tirechange-hub/internal/observability/metrics"
	"github.com/wolfman30/tirechange-hub/pkg/logging"
)

// Dispatcher validates booking requests and routes them to the owning vendor.
type Dispatcher struct {
	catalog     *catalog.Catalog
	booker      Booker
	invalidator AvailabilityInvalidator
	metrics     *metrics.VendorMetrics
	logger      *logging.Logger
}

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithInvalidator drops cached availability after each confirmed booking.
func WithInvalidator(inv AvailabilityInvalidator) DispatcherOption {
	return func(d *Dispatcher) { d.invalidator = inv }
}

// WithMetrics records inbound booking results.
func WithMetrics(m *metrics.VendorMetrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher creates a booking dispatcher over an immutable catalog.
func NewDispatcher(c *catalog.Catalog, booker Booker, logger *logging.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	d := &Dispatcher{catalog: c, booker: booker, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch books req with the vendor named by req.Location. Validation and
// location errors are returned before any upstream call is attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (conf *Confirmation, err error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		d.metrics.ObserveBookingRequest("invalid")
		return nil, &ValidationError{Missing: missing}
	}

	desc, ok := d.catalog.Lookup(req.Location)
	if !ok {
		d.metrics.ObserveBookingRequest("unknown_location")
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, req.Location)
	}
	if d.booker == nil {
		return nil, &UpstreamError{Vendor: desc.Name, Err: errors.New("no booking adapter configured")}
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("booking adapter panicked", "vendor", desc.Name, "panic", r)
			d.metrics.ObserveBookingRequest("upstream_error")
			conf, err = nil, &UpstreamError{Vendor: desc.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	d.logger.Info("dispatching booking",
		"vendor", desc.Name,
		"convention", desc.Convention.String(),
		"timeslot_id", req.TimeslotID,
		"service_type", req.ServiceType,
	)

	conf, err = d.booker.Book(ctx, desc, req)
	if err != nil {
		d.logger.Error("booking failed", "vendor", desc.Name, "timeslot_id", req.TimeslotID, "error", err)
		d.metrics.ObserveBookingRequest("upstream_error")
		return nil, &UpstreamError{Vendor: desc.Name, Err: err}
	}
	if conf == nil {
		conf = &Confirmation{BookingID: req.TimeslotID, Status: StatusConfirmed}
	}

	d.metrics.ObserveBookingRequest("confirmed")
	if d.invalidator != nil {
		if invErr := d.invalidator.Invalidate(ctx); invErr != nil {
			d.logger.Warn("failed to invalidate availability cache", "error", invErr)
		}
	}
	d.logger.Info("booking confirmed", "vendor", desc.Name, "booking_id", conf.BookingID)
	return conf, nil
}
