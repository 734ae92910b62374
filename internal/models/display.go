package models

// ConditionKind is the family a weather code falls into
type ConditionKind string

const (
	KindClear        ConditionKind = "clear"
	KindPartlyCloudy ConditionKind = "partly-cloudy"
	KindOvercast     ConditionKind = "overcast"
	KindFog          ConditionKind = "fog"
	KindDrizzle      ConditionKind = "drizzle"
	KindRain         ConditionKind = "rain"
	KindSnow         ConditionKind = "snow"
	KindShowers      ConditionKind = "showers"
	KindSnowShowers  ConditionKind = "snow-showers"
	KindThunderstorm ConditionKind = "thunderstorm"
	KindUnknown      ConditionKind = "unknown"
)

// DisplayCategory is everything needed to draw a weather condition
type DisplayCategory struct {
	Kind    ConditionKind
	Variant string // e.g. "sun", "moon", "heavy", "freezing"; empty when the kind has one form
	IconID  string // Font Awesome icon name, e.g. "fa-sun"
	Glyph   string // Terminal rendering of the icon
	Color   string // Hex colour for the icon
	Text    string // Localized condition label
}

// Name returns "kind/variant", or just the kind when there is no variant
func (c DisplayCategory) Name() string {
	if c.Variant == "" {
		return string(c.Kind)
	}
	return string(c.Kind) + "/" + c.Variant
}

// WindDirection is a compass bearing bucketed into one of 8 sectors
type WindDirection struct {
	Sector          int     // 0 = North, clockwise, 0..7
	Label           string  // e.g. "Nord-Est"
	Arrow           string  // Arrow pointing where the wind blows to
	RotationDegrees float64 // Icon rotation; the glyph points 45° clockwise of north at rest
}
