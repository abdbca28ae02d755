package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wolfman30/tirechange-hub/pkg/logging"
)

const (
	// DocumentSuffix marks vendor API-description files.
	DocumentSuffix = "_doc.json"
	// DefaultSideTableFile is the side-table file name inside the services dir.
	DefaultSideTableFile = "service_info.yaml"
)

var (
	// ErrServicesDirNotFound is returned when the services directory is absent.
	ErrServicesDirNotFound = errors.New("services directory not found")

	errMissingTitle = errors.New("missing info.title")
	errMissingPaths = errors.New("missing paths mapping")
)

type loadOptions struct {
	logger        *logging.Logger
	sideTableFile string
	sideTable     SideTable
}

// Option customizes Load.
type Option func(*loadOptions)

// WithLogger sets the logger used for skip and warning messages.
func WithLogger(logger *logging.Logger) Option {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSideTableFile overrides the side-table file name. Relative names are
// resolved against the services directory.
func WithSideTableFile(name string) Option {
	return func(o *loadOptions) {
		if strings.TrimSpace(name) != "" {
			o.sideTableFile = name
		}
	}
}

// WithSideTable supplies an already parsed side table and skips reading one.
func WithSideTable(table SideTable) Option {
	return func(o *loadOptions) {
		o.sideTable = table
	}
}

// Load scans dir for vendor documents and builds the catalog. Only a missing
// directory is fatal; malformed documents are logged and skipped.
func Load(dir string, opts ...Option) (*Catalog, error) {
	o := loadOptions{logger: logging.Default(), sideTableFile: DefaultSideTableFile}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog: %w: %s", ErrServicesDirNotFound, dir)
		}
		return nil, fmt.Errorf("catalog: read services dir: %w", err)
	}

	table := o.sideTable
	if table == nil {
		table = loadSideTable(dir, o.sideTableFile, logger)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), DocumentSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	descs := make([]Descriptor, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		desc, err := loadDocument(path)
		if err != nil {
			logger.Warn("skipping vendor document", "file", name, "error", err)
			continue
		}
		desc = mergeSideTable(desc, table, logger)
		logger.Info("vendor loaded",
			"vendor", desc.Name,
			"version", desc.Version,
			"convention", desc.Convention.String(),
			"content_type", desc.ContentType,
			"available_times_path", desc.AvailableTimesPath,
			"booking_path", desc.BookingPath,
		)
		descs = append(descs, desc)
	}

	logger.Info("vendor catalog ready", "dir", dir, "vendors", len(descs), "documents", len(names))
	return New(descs...), nil
}

func loadSideTable(dir, file string, logger *logging.Logger) SideTable {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, file)
	}
	table, err := LoadSideTable(path)
	if err != nil {
		logger.Warn("vendor side table unavailable, using defaults", "path", path, "error", err)
		return SideTable{}
	}
	return table
}

func loadDocument(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("read: %w", err)
	}
	return ParseDocument(data)
}

// ParseDocument builds a descriptor (without side-table metadata) from one
// vendor API-description document.
func ParseDocument(data []byte) (Descriptor, error) {
	var doc apiDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Descriptor{}, fmt.Errorf("parse: %w", err)
	}
	if doc.Info == nil {
		return Descriptor{}, errMissingTitle
	}
	fields := strings.Fields(doc.Info.Title)
	if len(fields) == 0 {
		return Descriptor{}, errMissingTitle
	}
	if doc.Paths == nil {
		return Descriptor{}, errMissingPaths
	}

	version := strings.TrimSpace(doc.Info.Version)
	if version == "" {
		version = DefaultVersion
	}

	host := strings.TrimSpace(doc.Host)
	basePath := strings.TrimSpace(doc.BasePath)
	baseURL := host + basePath
	if host == "" {
		baseURL = fallbackHost + basePath
	}

	contentType := doc.Paths.firstContentType()
	availablePath := doc.Paths.availableTimesPath()

	return Descriptor{
		Name:               fields[0],
		Version:            version,
		BaseURL:            baseURL,
		ContentType:        contentType,
		AvailableTimesPath: availablePath,
		BookingPath:        doc.Paths.bookingPath(),
		Address:            DefaultAddress,
		VehicleTypes:       []string{},
		Convention:         SelectConvention(contentType, availablePath),
	}, nil
}

func mergeSideTable(desc Descriptor, table SideTable, logger *logging.Logger) Descriptor {
	info, ok := table.Lookup(desc.Name)
	if !ok {
		logger.Warn("no side-table entry for vendor", "vendor", desc.Name)
		return desc
	}
	if strings.TrimSpace(info.Address) != "" {
		desc.Address = info.Address
	}
	if info.VehicleTypes != nil {
		desc.VehicleTypes = cloneStrings(info.VehicleTypes)
	}
	return desc
}
