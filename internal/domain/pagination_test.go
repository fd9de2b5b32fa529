package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"defaults applied to zero values", 0, 0, 1, 20},
		{"negative page clamps to one", -3, 10, 1, 10},
		{"oversized per page clamps to default", 2, 500, 2, 20},
		{"valid values pass through", 4, 50, 4, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, perPage := NormalizePage(tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPerPage, perPage)
		})
	}
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 45, 2, 20)
	assert.Equal(t, 45, p.Total)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPaginated([]string(nil), 0, 1, 20)
	assert.Equal(t, 0, empty.TotalPages)

	exact := NewPaginated([]int{1}, 40, 1, 20)
	assert.Equal(t, 2, exact.TotalPages)
}
