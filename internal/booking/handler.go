package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/wolfman30/tirechange-hub/pkg/logging"
)

const maxBookingBody = 64 << 10

// BookingDispatcher is the part of Dispatcher the HTTP handler needs.
type BookingDispatcher interface {
	Dispatch(ctx context.Context, req Request) (*Confirmation, error)
}

// Handler handles HTTP requests for bookings
type Handler struct {
	dispatcher BookingDispatcher
	logger     *logging.Logger
}

// NewHandler creates a new booking handler
func NewHandler(dispatcher BookingDispatcher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{dispatcher: dispatcher, logger: logger}
}

type bookResponse struct {
	Success      bool           `json:"success"`
	BookingID    string         `json:"booking_id,omitempty"`
	Status       string         `json:"status,omitempty"`
	Message      string         `json:"message,omitempty"`
	Error        string         `json:"error,omitempty"`
	ReceivedData map[string]any `json:"received_data,omitempty"`
}

// Book handles POST /api/book requests
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBookingBody)).Decode(&payload); err != nil {
		h.logger.Warn("failed to decode booking request", "error", err)
		writeJSON(w, http.StatusBadRequest, bookResponse{Error: "Invalid request body"})
		return
	}

	conf, err := h.dispatcher.Dispatch(r.Context(), RequestFromPayload(payload))
	if err != nil {
		var validation *ValidationError
		switch {
		case errors.As(err, &validation):
			writeJSON(w, http.StatusBadRequest, bookResponse{Error: validation.Error(), ReceivedData: payload})
		case errors.Is(err, ErrUnknownLocation):
			writeJSON(w, http.StatusBadRequest, bookResponse{Error: "Invalid location: " + stringField(payload, "location")})
		default:
			writeJSON(w, http.StatusInternalServerError, bookResponse{Error: "Booking failed", Message: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, bookResponse{
		Success:   true,
		BookingID: conf.BookingID,
		Status:    conf.Status,
		Message:   "Your tire change appointment has been booked.",
	})
}

// RequestFromPayload maps a decoded JSON object onto a Request. Numbers and
// booleans are stringified; anything else counts as missing.
func RequestFromPayload(payload map[string]any) Request {
	return Request{
		TimeslotID:  stringField(payload, "timeslotId"),
		Location:    stringField(payload, "location"),
		Name:        stringField(payload, "name"),
		Email:       stringField(payload, "email"),
		Phone:       stringField(payload, "phone"),
		Vehicle:     stringField(payload, "vehicle"),
		ServiceType: stringField(payload, "serviceType"),
	}
}

func stringField(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
