package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// VendorInfo is the static display metadata merged into a descriptor.
type VendorInfo struct {
	Address      string   `yaml:"address" json:"address"`
	VehicleTypes []string `yaml:"vehicle_types" json:"vehicle_types"`
}

// SideTable maps lowercased vendor names to their display metadata.
type SideTable map[string]VendorInfo

// LoadSideTable parses the side-table document. YAML is a superset of JSON,
// so either encoding is accepted.
func LoadSideTable(path string) (SideTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read side table: %w", err)
	}
	return ParseSideTable(data)
}

// ParseSideTable decodes side-table bytes, normalizing keys to lower case.
func ParseSideTable(data []byte) (SideTable, error) {
	var raw map[string]VendorInfo
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse side table: %w", err)
	}
	table := make(SideTable, len(raw))
	for name, info := range raw {
		table[strings.ToLower(strings.TrimSpace(name))] = info
	}
	return table, nil
}

// Lookup finds a vendor's metadata case-insensitively.
func (t SideTable) Lookup(vendor string) (VendorInfo, bool) {
	if t == nil {
		return VendorInfo{}, false
	}
	info, ok := t[strings.ToLower(vendor)]
	return info, ok
}
