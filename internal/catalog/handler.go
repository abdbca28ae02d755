package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/wolfman30/tirechange-hub/pkg/logging"
)

// Location is the public view of a vendor used by the booking front-end.
type Location struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	VehicleTypes []string `json:"vehicleTypes"`
	Version      string   `json:"version"`
	ContentType  string   `json:"contentType"`
}

// Handler serves catalog metadata over HTTP.
type Handler struct {
	catalog *Catalog
	logger  *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(c *Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: c, logger: logger}
}

// ListLocations handles GET /api/locations
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	descs := h.catalog.All()
	out := make([]Location, 0, len(descs))
	for _, d := range descs {
		out = append(out, Location{
			Name:         d.Name,
			Address:      d.Address,
			VehicleTypes: d.VehicleTypes,
			Version:      d.Version,
			ContentType:  d.ContentType,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.logger.Error("failed to encode locations", "error", err)
	}
}
