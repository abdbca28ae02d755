package availability

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wolfman30/tirechange-hub/internal/booking"
	"github.com/wolfman30/tirechange-hub/pkg/logging"
)

// Collector produces the merged availability list.
type Collector interface {
	Collect(ctx context.Context) []booking.Slot
}

// Handler serves merged availability over HTTP.
type Handler struct {
	collector Collector
	logger    *logging.Logger
	now       func() time.Time
}

// NewHandler creates an availability handler.
func NewHandler(collector Collector, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{collector: collector, logger: logger, now: time.Now}
}

// ListTimes handles GET /api/times.
func (h *Handler) ListTimes(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	slots := filter.Apply(h.collector.Collect(r.Context()), h.now())
	if slots == nil {
		slots = []booking.Slot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
