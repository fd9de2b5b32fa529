package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	day := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical slots", at(9, 0), at(9, 30), at(9, 0), at(9, 30), true},
		{"partial overlap at start", at(9, 0), at(9, 30), at(9, 15), at(9, 45), true},
		{"partial overlap at end", at(9, 15), at(9, 45), at(9, 0), at(9, 30), true},
		{"one inside the other", at(9, 0), at(10, 0), at(9, 15), at(9, 30), true},
		{"touching boundary does not overlap", at(9, 0), at(9, 30), at(9, 30), at(10, 0), false},
		{"touching boundary reversed", at(9, 30), at(10, 0), at(9, 0), at(9, 30), false},
		{"disjoint", at(9, 0), at(9, 30), at(11, 0), at(11, 30), false},
		{"one minute of overlap", at(9, 0), at(9, 31), at(9, 30), at(10, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// The predicate is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}
