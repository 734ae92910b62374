package conditions

import (
	"math"

	"golang.org/x/text/language"

	"github.com/ngmaloney/meteo-terminal/internal/models"
)

// iconRestOffset is how far clockwise of north the wind glyph points at rest
const iconRestOffset = 45.0

var sectorLabels = [8]label{
	{"Nord", "North"},
	{"Nord-Est", "North-East"},
	{"Est", "East"},
	{"Sud-Est", "South-East"},
	{"Sud", "South"},
	{"Sud-Ouest", "South-West"},
	{"Ouest", "West"},
	{"Nord-Ouest", "North-West"},
}

// Arrows point downwind: a north wind blows towards the south.
var sectorArrows = [8]string{"↓", "↙", "←", "↖", "↑", "↗", "→", "↘"}

// WindDirectionFor buckets a bearing in degrees into one of 8 sectors.
// Any real input is accepted; NaN and infinities are treated as north.
func WindDirectionFor(angle float64) models.WindDirection {
	a := normalize(angle)
	sector := int(math.Floor(math.Mod(a+22.5, 360) / 45))
	return models.WindDirection{
		Sector:          sector,
		Label:           sectorLabels[sector].fr,
		Arrow:           sectorArrows[sector],
		RotationDegrees: a - iconRestOffset,
	}
}

// SectorLabel returns the sector name in the given language
func SectorLabel(sector int, tag language.Tag) string {
	return sectorLabels[((sector%8)+8)%8].in(tag)
}

func normalize(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	// -1e-15 + 360 rounds to 360
	if a >= 360 {
		a = 0
	}
	return a
}
