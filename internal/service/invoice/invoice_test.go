package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateItems(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItemInput
		want  error
	}{
		{"no items", nil, ErrNoLineItems},
		{"blank description", []LineItemInput{{Description: "  ", Quantity: 1, UnitPrice: 10}}, ErrInvalidLineItem},
		{"zero quantity", []LineItemInput{{Description: "Consultation", Quantity: 0, UnitPrice: 10}}, ErrInvalidLineItem},
		{"negative price", []LineItemInput{{Description: "Consultation", Quantity: 1, UnitPrice: -5}}, ErrInvalidLineItem},
		{"free item is fine", []LineItemInput{{Description: "Follow-up call", Quantity: 1, UnitPrice: 0}}, nil},
		{"valid items", []LineItemInput{
			{Description: "Consultation", Quantity: 1, UnitPrice: 60},
			{Description: "Blood test", Quantity: 2, UnitPrice: 17.75},
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, validateItems(tt.items), tt.want)
		})
	}
}

func TestBuildItemsTotal(t *testing.T) {
	items, total := buildItems([]LineItemInput{
		{Description: " Consultation ", Quantity: 1, UnitPrice: 60},
		{Description: "Blood test", Quantity: 2, UnitPrice: 17.75},
		{Description: "Dressing", Quantity: 3, UnitPrice: 4.50},
	})

	require.Len(t, items, 3)
	assert.InDelta(t, 60+2*17.75+3*4.50, total, 0.0001)

	// Positions are 1-based and ordered as submitted, descriptions trimmed.
	assert.Equal(t, 1, items[0].Position)
	assert.Equal(t, "Consultation", items[0].Description)
	assert.Equal(t, 3, items[2].Position)
	assert.Equal(t, 2, items[1].Quantity)
	assert.InDelta(t, 17.75, items[1].UnitPrice, 0.0001)
}

func TestBuildItemsEmpty(t *testing.T) {
	items, total := buildItems(nil)
	assert.Empty(t, items)
	assert.Zero(t, total)
}
