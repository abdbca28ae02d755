// Package booking holds the normalized schema shared by every vendor adapter
// and routes booking requests to the vendor that owns the slot.
package booking

import (
	"context"
	"strings"

	"github.com/wolfman30/tirechange-hub/internal/catalog"
)

// Slot is a normalized availability record.
type Slot struct {
	Time         string   `json:"time"`
	ID           string   `json:"id"`
	Location     string   `json:"location"`
	VehicleTypes []string `json:"vehicleTypes"`
}

// Request is an inbound booking request. Every field is required.
type Request struct {
	TimeslotID  string `json:"timeslotId"`
	Location    string `json:"location"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Vehicle     string `json:"vehicle"`
	ServiceType string `json:"serviceType"`
}

// RequiredFields lists the wire names of every booking request field.
var RequiredFields = []string{"timeslotId", "location", "name", "email", "phone", "vehicle", "serviceType"}

// MissingFields returns the wire names of blank fields, in RequiredFields order.
func (r Request) MissingFields() []string {
	values := []string{r.TimeslotID, r.Location, r.Name, r.Email, r.Phone, r.Vehicle, r.ServiceType}
	var missing []string
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, RequiredFields[i])
		}
	}
	return missing
}

// ContactInformation is the combined contact field every vendor expects.
func (r Request) ContactInformation() string {
	return r.Name + ", " + r.Phone
}

// Confirmation is the normalized booking outcome.
type Confirmation struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

// StatusConfirmed is reported for every successful upstream booking.
const StatusConfirmed = "confirmed"

// Booker submits a booking to one vendor in its native format.
type Booker interface {
	Book(ctx context.Context, desc catalog.Descriptor, req Request) (*Confirmation, error)
}

// AvailabilityInvalidator drops cached availability after a slot is taken.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context) error
}
