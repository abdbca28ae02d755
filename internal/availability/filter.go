package availability

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wolfman30/tirechange-hub/internal/booking"
)

// Date ranges accepted by the range query parameter.
const (
	RangeAll      = "all"
	RangeToday    = "today"
	RangeTomorrow = "tomorrow"
	RangeWeek     = "week"
)

// ErrUnknownRange is returned for a range value outside the known set.
var ErrUnknownRange = errors.New("unknown range")

// Filter narrows the merged availability list. Zero value keeps everything.
type Filter struct {
	Location    string
	VehicleType string
	Range       string
}

// ParseFilter reads location, vehicleType and range from query parameters.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Location:    strings.TrimSpace(q.Get("location")),
		VehicleType: strings.TrimSpace(q.Get("vehicleType")),
		Range:       strings.ToLower(strings.TrimSpace(q.Get("range"))),
	}
	switch f.Range {
	case "", RangeAll, RangeToday, RangeTomorrow, RangeWeek:
	default:
		return Filter{}, fmt.Errorf("%w: %s", ErrUnknownRange, f.Range)
	}
	return f, nil
}

// IsZero reports whether the filter would keep every slot.
func (f Filter) IsZero() bool {
	return f.Location == "" && f.VehicleType == "" && (f.Range == "" || f.Range == RangeAll)
}

// Apply returns the slots matching f. Ranges are calendar days in now's zone.
func (f Filter) Apply(slots []booking.Slot, now time.Time) []booking.Slot {
	if f.IsZero() {
		return slots
	}
	out := make([]booking.Slot, 0, len(slots))
	for _, s := range slots {
		if f.Location != "" && !strings.EqualFold(s.Location, f.Location) {
			continue
		}
		if f.VehicleType != "" && !hasVehicleType(s.VehicleTypes, f.VehicleType) {
			continue
		}
		if !f.inRange(s.Time, now) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (f Filter) inRange(value string, now time.Time) bool {
	if f.Range == "" || f.Range == RangeAll {
		return true
	}
	at, err := ParseTime(value)
	if err != nil {
		return false
	}
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	at = at.In(loc)

	var from, until time.Time
	switch f.Range {
	case RangeToday:
		from, until = today, today.AddDate(0, 0, 1)
	case RangeTomorrow:
		from, until = today.AddDate(0, 0, 1), today.AddDate(0, 0, 2)
	case RangeWeek:
		from, until = today, today.AddDate(0, 0, 7)
	default:
		return false
	}
	return !at.Before(from) && at.Before(until)
}

func hasVehicleType(types []string, want string) bool {
	for _, t := range types {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}
