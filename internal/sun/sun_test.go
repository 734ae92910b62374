package sun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	colmarLat = 48.0833
	colmarLon = 7.3667
)

func TestTimesFor(t *testing.T) {
	date := time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)

	times, err := TimesFor(colmarLat, colmarLon, date)
	require.NoError(t, err)

	assert.True(t, times.Sunrise.Before(times.Sunset))
	// Colmar sunrise is close to 06:00 UTC and sunset close to 16:40 UTC in late October
	sunrise := times.Sunrise.UTC()
	sunset := times.Sunset.UTC()
	assert.InDelta(t, 6*60, sunrise.Hour()*60+sunrise.Minute(), 30)
	assert.InDelta(t, 16*60+40, sunset.Hour()*60+sunset.Minute(), 30)
}

func TestIsDaylight(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
		at   time.Time
		want bool
	}{
		{"colmar noon", colmarLat, colmarLon, time.Date(2025, 10, 19, 11, 0, 0, 0, time.UTC), true},
		{"colmar midnight", colmarLat, colmarLon, time.Date(2025, 10, 19, 23, 0, 0, 0, time.UTC), false},
		{"colmar before dawn", colmarLat, colmarLon, time.Date(2025, 10, 19, 4, 0, 0, 0, time.UTC), false},
		// Local noon in Auckland is 23:00 UTC the previous day
		{"auckland noon", -36.85, 174.76, time.Date(2025, 10, 19, 23, 0, 0, 0, time.UTC), true},
		{"auckland midnight", -36.85, 174.76, time.Date(2025, 10, 19, 11, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDaylight(tt.lat, tt.lon, tt.at))
		})
	}
}

func TestPolarDay(t *testing.T) {
	june := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	december := time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC)

	assert.True(t, polarDay(78, june))
	assert.False(t, polarDay(78, december))
	assert.False(t, polarDay(-78, june))
	assert.True(t, polarDay(-78, december))
}
