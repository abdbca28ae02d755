package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_PrefersAvailableTimesKeyword(t *testing.T) {
	d, err := ParseDocument([]byte(`{
	  "info": {"title": "Leeds API"},
	  "paths": {
	    "/slots/available": {"get": {}},
	    "/other": {"get": {}},
	    "/tire-change-times/availableTimes": {"get": {}}
	  }
	}`))
	require.NoError(t, err)
	assert.Equal(t, "/tire-change-times/availableTimes", d.AvailableTimesPath)
}

func TestParseDocument_FallsBackToAvailableKeyword(t *testing.T) {
	d, err := ParseDocument([]byte(`{
	  "info": {"title": "Leeds API"},
	  "paths": {
	    "/other": {"get": {}},
	    "/api/v1/tire-change-times/available": {"get": {}}
	  }
	}`))
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/tire-change-times/available", d.AvailableTimesPath)
	assert.Equal(t, LegacyJSON, d.Convention)
}

func TestParseDocument_FallsBackToFirstGetInDocumentOrder(t *testing.T) {
	d, err := ParseDocument([]byte(`{
	  "info": {"title": "Leeds API"},
	  "paths": {
	    "/zeta": {"post": {}},
	    "/times": {"get": {}},
	    "/alpha": {"get": {}}
	  }
	}`))
	require.NoError(t, err)
	assert.Equal(t, "/times", d.AvailableTimesPath)
}

func TestParseDocument_NoGetLeavesPathEmpty(t *testing.T) {
	d, err := ParseDocument([]byte(`{"info": {"title": "Leeds API"}, "paths": {"/x": {"post": {}}}}`))
	require.NoError(t, err)
	assert.Empty(t, d.AvailableTimesPath)
	assert.Empty(t, d.BookingPath)
	assert.Equal(t, DefaultContentType, d.ContentType)
}

func TestParseDocument_BookingPostThenPut(t *testing.T) {
	d, err := ParseDocument([]byte(`{
	  "info": {"title": "Leeds API"},
	  "paths": {
	    "/tire-change-times/{uuid}/booking": {"put": {"consumes": ["text/xml"]}},
	    "/tire-change-times/available": {"get": {}}
	  }
	}`))
	require.NoError(t, err)
	assert.Equal(t, "/tire-change-times/{uuid}/booking", d.BookingPath)
	assert.Equal(t, "text/xml", d.ContentType)
	assert.Equal(t, LegacyXML, d.Convention)

	d, err = ParseDocument([]byte(`{
	  "info": {"title": "Leeds API"},
	  "paths": {
	    "/a/booking": {"put": {}},
	    "/b/booking": {"POST": {}}
	  }
	}`))
	require.NoError(t, err)
	assert.Equal(t, "/b/booking", d.BookingPath)
}

func TestParseDocument_HostAndVersionDefaults(t *testing.T) {
	d, err := ParseDocument([]byte(`{"info": {"title": "Leeds Tire API"}, "basePath": " /api ", "paths": {}}`))
	require.NoError(t, err)
	assert.Equal(t, "Leeds", d.Name)
	assert.Equal(t, "1.0", d.Version)
	assert.Equal(t, "http://localhost/api", d.BaseURL)
}

func TestParseDocument_ContentTypeFromFirstOperation(t *testing.T) {
	d, err := ParseDocument([]byte(`{
	  "info": {"title": "Leeds API"},
	  "paths": {
	    "/first": {"parameters": [], "get": {"consumes": ["application/json"]}},
	    "/second": {"get": {"consumes": ["text/xml"]}}
	  }
	}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultContentType, d.ContentType)
	assert.Equal(t, "/first", d.AvailableTimesPath)
}

func TestSelectConvention(t *testing.T) {
	assert.Equal(t, LegacyXML, SelectConvention("text/xml", "/api/v2/times"))
	assert.Equal(t, LegacyXML, SelectConvention("application/XML", ""))
	assert.Equal(t, LegacyJSON, SelectConvention("application/json", "/api/v1/tire-change-times"))
	assert.Equal(t, ModernJSON, SelectConvention("application/json", "/api/v2/tire-change-times"))
	assert.True(t, LegacyJSON.IsLegacy())
	assert.True(t, LegacyXML.IsLegacy())
	assert.False(t, ModernJSON.IsLegacy())
	assert.Equal(t, "legacy-xml", LegacyXML.String())
}

func TestParseSideTable_NormalizesKeys(t *testing.T) {
	table, err := ParseSideTable([]byte("London:\n  address: A\n  vehicle_types: [Car]\n"))
	require.NoError(t, err)
	info, ok := table.Lookup("LONDON")
	require.True(t, ok)
	assert.Equal(t, "A", info.Address)

	_, err = ParseSideTable([]byte("london: [unclosed"))
	assert.Error(t, err)
}
