// Package catalog discovers vendor scheduling APIs from their API-description
// documents and exposes them as immutable service descriptors.
package catalog

import "strings"

const (
	// DefaultVersion is used when a document omits info.version.
	DefaultVersion = "1.0"
	// DefaultContentType is used when no operation documents "consumes".
	DefaultContentType = "application/json"
	// DefaultAddress is shown for vendors without a side-table entry.
	DefaultAddress = "Address not available"

	fallbackHost  = "http://localhost"
	legacyMarker  = "v1"
	xmlTypeMarker = "xml"
)

// Convention is the calling convention a vendor expects.
type Convention int

const (
	// ModernJSON vendors take pagination parameters and a POSTed JSON booking.
	ModernJSON Convention = iota
	// LegacyJSON vendors speak JSON on a v1 path: narrow date range, PUT booking.
	LegacyJSON
	// LegacyXML vendors speak XML: narrow date range, PUT booking.
	LegacyXML
)

// SelectConvention derives the convention from the declared content type and
// the discovered availability path. XML always implies the legacy convention.
func SelectConvention(contentType, availableTimesPath string) Convention {
	if IsXML(contentType) {
		return LegacyXML
	}
	if strings.Contains(availableTimesPath, legacyMarker) {
		return LegacyJSON
	}
	return ModernJSON
}

// IsXML reports whether a MIME type denotes an XML dialect.
func IsXML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), xmlTypeMarker)
}

// IsLegacy reports whether c uses the legacy calling convention.
func (c Convention) IsLegacy() bool {
	return c == LegacyJSON || c == LegacyXML
}

func (c Convention) String() string {
	switch c {
	case LegacyXML:
		return "legacy-xml"
	case LegacyJSON:
		return "legacy-json"
	default:
		return "modern-json"
	}
}

// Descriptor is one vendor's calling convention. Empty AvailableTimesPath or
// BookingPath means the document did not expose a matching endpoint.
type Descriptor struct {
	Name               string
	Version            string
	BaseURL            string
	ContentType        string
	AvailableTimesPath string
	BookingPath        string
	Address            string
	VehicleTypes       []string
	Convention         Convention
}

// Catalog is the read-only set of descriptors built once at startup.
type Catalog struct {
	descriptors []Descriptor
	byName      map[string]int
}

// New builds a catalog from descriptors, preserving their order. Later
// duplicates of a name are kept in All but Lookup resolves the first one.
func New(descs ...Descriptor) *Catalog {
	c := &Catalog{
		descriptors: make([]Descriptor, 0, len(descs)),
		byName:      make(map[string]int, len(descs)),
	}
	for _, d := range descs {
		d.VehicleTypes = cloneStrings(d.VehicleTypes)
		if _, exists := c.byName[d.Name]; !exists {
			c.byName[d.Name] = len(c.descriptors)
		}
		c.descriptors = append(c.descriptors, d)
	}
	return c
}

// All returns a copy of the descriptors in load order.
func (c *Catalog) All() []Descriptor {
	if c == nil {
		return nil
	}
	out := make([]Descriptor, len(c.descriptors))
	for i, d := range c.descriptors {
		d.VehicleTypes = cloneStrings(d.VehicleTypes)
		out[i] = d
	}
	return out
}

// Lookup resolves a vendor by exact name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	if c == nil {
		return Descriptor{}, false
	}
	idx, ok := c.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	d := c.descriptors[idx]
	d.VehicleTypes = cloneStrings(d.VehicleTypes)
	return d, true
}

// Len returns the number of loaded vendors.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.descriptors)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
