// Package sun computes sunrise, sunset and daylight for a coordinate.
package sun

import (
	"fmt"
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// Times holds the sun events of one day, in UTC
type Times struct {
	Sunrise time.Time
	Sunset  time.Time
}

// TimesFor returns sunrise and sunset at the coordinate on date
func TimesFor(lat, lon float64, date time.Time) (Times, error) {
	observer := astral.Observer{Latitude: lat, Longitude: lon}

	sunrise, err := astral.Sunrise(observer, date)
	if err != nil {
		return Times{}, fmt.Errorf("calculating sunrise: %w", err)
	}
	sunset, err := astral.Sunset(observer, date)
	if err != nil {
		return Times{}, fmt.Errorf("calculating sunset: %w", err)
	}
	return Times{Sunrise: sunrise, Sunset: sunset}, nil
}

// IsDaylight reports whether the sun is up at the coordinate at t.
// Events of the neighbouring days are checked as well because a local
// day can straddle two UTC dates.
func IsDaylight(lat, lon float64, t time.Time) bool {
	day := t.UTC()
	computed := false
	for _, offset := range []int{-1, 0, 1} {
		times, err := TimesFor(lat, lon, day.AddDate(0, 0, offset))
		if err != nil {
			continue
		}
		computed = true
		if !t.Before(times.Sunrise) && t.Before(times.Sunset) {
			return true
		}
	}
	if !computed {
		return polarDay(lat, t)
	}
	return false
}

// polarDay decides daylight when the sun neither rises nor sets: it is
// summer in the hemisphere of the coordinate.
func polarDay(lat float64, t time.Time) bool {
	northernSummer := t.Month() >= time.April && t.Month() <= time.September
	if lat >= 0 {
		return northernSummer
	}
	return !northernSummer
}
