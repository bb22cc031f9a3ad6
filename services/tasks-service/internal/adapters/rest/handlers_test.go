package rest

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageParamsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/tasks", nil)

	page, size, err := parsePageParams(r)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)
}

func TestParsePageParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/tasks?page=3&size=25", nil)

	page, size, err := parsePageParams(r)
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, size)
}

func TestParsePageParamsAcceptsLargeSize(t *testing.T) {
	// Size is not capped, the client owns the cost of a huge page.
	r := httptest.NewRequest("GET", "/api/v1/tasks?size=100000", nil)

	_, size, err := parsePageParams(r)
	require.NoError(t, err)
	assert.Equal(t, 100000, size)
}

func TestParsePageParamsRejectsGarbage(t *testing.T) {
	for _, q := range []string{"page=0", "page=abc", "size=-1", "size=x"} {
		r := httptest.NewRequest("GET", "/api/v1/tasks?"+q, nil)
		_, _, err := parsePageParams(r)
		assert.Error(t, err, q)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(1, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 3, totalPages(25, 10))
}

func TestParseDeadline(t *testing.T) {
	valid := "2026-09-01T12:00:00Z"
	parsed, err := parseDeadline(&valid)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, 2026, parsed.Year())

	empty := ""
	parsed, err = parseDeadline(&empty)
	require.NoError(t, err)
	assert.Nil(t, parsed)

	parsed, err = parseDeadline(nil)
	require.NoError(t, err)
	assert.Nil(t, parsed)

	bad := "tomorrow"
	_, err = parseDeadline(&bad)
	assert.Error(t, err)
}
