package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 45)
	assert.Equal(t, Pagination{Page: 1, PerPage: 20, Total: 45, TotalPages: 3}, p)

	p = NewPagination(2, 1000, 10)
	assert.Equal(t, 200, p.PerPage)
}

func TestPaginationBounds(t *testing.T) {
	start, end := NewPagination(3, 20, 45).Bounds()
	assert.Equal(t, 40, start)
	assert.Equal(t, 45, end)

	start, end = NewPagination(9, 20, 45).Bounds()
	assert.Equal(t, 45, start)
	assert.Equal(t, 45, end)
}

func TestPageParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/orders?page=2&perPage=abc", nil)
	page, perPage := PageParams(r)
	assert.Equal(t, 2, page)
	assert.Equal(t, 0, perPage)
}
