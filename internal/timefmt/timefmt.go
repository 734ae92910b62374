// Package timefmt renders instants as locale and timezone aware labels.
package timefmt

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // IANA zones on hosts without a zoneinfo database

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateTime is a formatted date and time pair
type DateTime struct {
	Date string // e.g. "dimanche 19 octobre"
	Time string // e.g. "14 : 05"
}

// LocaleFor picks French for Europe/Paris and British English otherwise
func LocaleFor(timezone string) language.Tag {
	if strings.HasPrefix(timezone, "Europe/Paris") {
		return language.French
	}
	return language.BritishEnglish
}

// Location loads an IANA zone, falling back to UTC for unknown names
func Location(timezone string) *time.Location {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Format renders instant as wall-clock time in timezone
func Format(instant time.Time, timezone string) DateTime {
	t := instant.In(Location(timezone))
	return DateTime{
		Date: monday.Format(t, "Monday 2 January", mondayLocale(LocaleFor(timezone))),
		Time: fmt.Sprintf("%02d : %02d", t.Hour(), t.Minute()),
	}
}

// HourLabel renders t's own clock fields as "HH:MM"
func HourLabel(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ShortDate renders t's own date as an abbreviated day label,
// e.g. "dim. 19 oct." in French and "Sun 19 Oct" in English.
func ShortDate(t time.Time, tag language.Tag) string {
	return monday.Format(t, "Mon 2 Jan", mondayLocale(tag))
}

// Number formats a value with the locale's decimal conventions
func Number(tag language.Tag, format string, args ...any) string {
	return message.NewPrinter(tag).Sprintf(format, args...)
}

// FormatCityName keeps the first comma-separated part of a geocoder display name
func FormatCityName(full string) string {
	if full == "" {
		return ""
	}
	name, _, _ := strings.Cut(full, ",")
	return strings.TrimSpace(name)
}

func mondayLocale(tag language.Tag) monday.Locale {
	if base, _ := tag.Base(); base == frenchBase {
		return monday.LocaleFrFR
	}
	return monday.LocaleEnGB
}

var frenchBase, _ = language.French.Base()
