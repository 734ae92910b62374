// Package conditions maps WMO weather codes and wind bearings to the
// categories the dashboard draws.
package conditions

import (
	"golang.org/x/text/language"

	"github.com/ngmaloney/meteo-terminal/internal/models"
)

// Context carries the optional signals some rules use to pick a variant
type Context struct {
	Precipitation  *float64 // mm
	IsDay          *bool
	MinTemperature *float64 // °C
}

// heavyRainThreshold is the precipitation (mm) above which rain is drawn heavy
const heavyRainThreshold = 5.0

// label is a condition text in the two supported languages
type label struct {
	fr string
	en string
}

func (l label) in(tag language.Tag) string {
	if base, _ := tag.Base(); base == frenchBase {
		return l.fr
	}
	return l.en
}

var frenchBase, _ = language.French.Base()

// look is the drawable part of a category
type look struct {
	variant string
	iconID  string
	glyph   string
	color   string
}

// rule is one row of the ordered category table
type rule struct {
	kind    models.ConditionKind
	text    label
	matches func(code int) bool
	look    func(ctx Context) look
}

// Colours match the Tailwind palette used by the web version of the dashboard
const (
	yellow500 = "#EAB308"
	yellow300 = "#FDE047"
	yellow900 = "#713F12"
	slate300  = "#CBD5E1"
	gray300   = "#D1D5DB"
	gray400   = "#9CA3AF"
	gray500   = "#6B7280"
	blue200   = "#BFDBFE"
	blue300   = "#93C5FD"
	blue500   = "#3B82F6"
	white     = "#FFFFFF"
)

func fixed(l look) func(Context) look {
	return func(Context) look { return l }
}

func between(lo, hi int) func(int) bool {
	return func(code int) bool { return code >= lo && code <= hi }
}

func oneOf(codes ...int) func(int) bool {
	return func(code int) bool {
		for _, c := range codes {
			if code == c {
				return true
			}
		}
		return false
	}
}

// daytime treats an unknown flag as day
func daytime(ctx Context) bool {
	return ctx.IsDay == nil || *ctx.IsDay
}

// rules is evaluated top-down; the first match wins.
var rules = []rule{
	{
		kind:    models.KindClear,
		text:    label{"Clair", "Clear"},
		matches: oneOf(0, 1),
		look: func(ctx Context) look {
			if daytime(ctx) {
				return look{"sun", "fa-sun", "☀", yellow500}
			}
			return look{"moon", "fa-moon", "☾", slate300}
		},
	},
	{
		kind:    models.KindPartlyCloudy,
		text:    label{"Nuageux", "Partly cloudy"},
		matches: oneOf(2),
		look: func(ctx Context) look {
			if daytime(ctx) {
				return look{"day", "fa-cloud-sun", "⛅", yellow900}
			}
			return look{"night", "fa-cloud-moon", "☁", slate300}
		},
	},
	{
		kind:    models.KindOvercast,
		text:    label{"Couvert", "Overcast"},
		matches: oneOf(3),
		look:    fixed(look{"", "fa-cloud", "☁", gray300}),
	},
	{
		kind:    models.KindFog,
		text:    label{"Brouillard", "Fog"},
		matches: between(45, 49),
		look:    fixed(look{"", "fa-smog", "≋", gray400}),
	},
	{
		kind:    models.KindDrizzle,
		text:    label{"Bruine", "Drizzle"},
		matches: between(50, 59),
		look:    fixed(look{"", "fa-cloud-rain", "☂", gray400}),
	},
	{
		kind:    models.KindRain,
		text:    label{"Pluie", "Rain"},
		matches: between(60, 69),
		look: func(ctx Context) look {
			if ctx.Precipitation != nil && *ctx.Precipitation > heavyRainThreshold {
				return look{"heavy", "fa-cloud-showers-heavy", "⛈", blue500}
			}
			return look{"light", "fa-cloud-rain", "☂", gray400}
		},
	},
	{
		kind:    models.KindSnow,
		text:    label{"Neige", "Snow"},
		matches: between(70, 79),
		look:    fixed(look{"", "fa-snowflake", "❄", white}),
	},
	{
		kind:    models.KindShowers,
		text:    label{"Averses", "Showers"},
		matches: between(80, 84),
		look: func(ctx Context) look {
			switch {
			case ctx.MinTemperature == nil:
				return look{"overcast", "fa-cloud", "☁", gray300}
			case *ctx.MinTemperature <= 0:
				return look{"freezing", "fa-icicles", "❆", blue300}
			case *ctx.MinTemperature <= 5:
				return look{"cold", "fa-cloud", "☁", gray300}
			default:
				return look{"partly-cloudy", "fa-cloud-sun", "⛅", yellow900}
			}
		},
	},
	{
		kind:    models.KindSnowShowers,
		text:    label{"Averses de neige", "Snow showers"},
		matches: oneOf(85, 86),
		look:    fixed(look{"", "fa-snowflake", "❅", blue200}),
	},
	{
		kind:    models.KindThunderstorm,
		text:    label{"Orage", "Thunderstorm"},
		matches: between(95, 99),
		look:    fixed(look{"", "fa-bolt", "⚡", yellow300}),
	},
}

var unknownRule = rule{
	kind: models.KindUnknown,
	text: label{"Conditions inconnues", "Unknown conditions"},
	look: fixed(look{"", "fa-question", "?", gray500}),
}

// Categorize resolves a weather code to its display category. It is total:
// codes matching no rule resolve to the unknown category.
func Categorize(code int, ctx Context, tag language.Tag) models.DisplayCategory {
	r := ruleFor(code)
	l := r.look(ctx)
	return models.DisplayCategory{
		Kind:    r.kind,
		Variant: l.variant,
		IconID:  l.iconID,
		Glyph:   l.glyph,
		Color:   l.color,
		Text:    r.text.in(tag),
	}
}

// Text returns only the localized label for a code
func Text(code int, tag language.Tag) string {
	return ruleFor(code).text.in(tag)
}

func ruleFor(code int) rule {
	for _, r := range rules {
		if r.matches(code) {
			return r
		}
	}
	return unknownRule
}
