package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name  string
		val   string
		want  time.Time
		ok    bool
		blank bool
	}{
		{
			name: "dashed datetime",
			val:  "02-25-2026 01:40 PM",
			want: time.Date(2026, 2, 25, 13, 40, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "slashed datetime",
			val:  "10/16/2025 2:55 PM",
			want: time.Date(2025, 10, 16, 14, 55, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "two digit year datetime",
			val:  "2/26/26 3:00 PM",
			want: time.Date(2026, 2, 26, 15, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "dashed date only",
			val:  "02-26-2026",
			want: time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "slashed date only",
			val:  "2/3/2026",
			want: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "two digit year date only",
			val:  "2/27/26",
			want: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "stray spaces inside date repaired",
			val:  "02-1 9 -2026",
			want: time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "stray spaces with time tail",
			val:  "0 2-19-2026 1:15 PM",
			want: time.Date(2026, 2, 19, 13, 15, 0, 0, time.UTC),
			ok:   true,
		},
		{name: "placeholder n/a", val: "N/A", blank: true},
		{name: "placeholder no", val: "No", blank: true},
		{name: "placeholder dashes", val: "--/--/----", blank: true},
		{name: "placeholder empty", val: "   ", blank: true},
		{name: "time only fragment", val: "2:55 PM", blank: true},
		{name: "time only no meridiem", val: "14:30", blank: true},
		{name: "free text kept", val: "5 days"},
		{name: "duration kept", val: "3d 4h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, blank := CoerceDate(tt.val)
			assert.Equal(t, tt.blank, blank)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}
