package match

import (
	"fmt"
	"math"
)

// Percentage bounds of a scaled score
const (
	MinPercent = 20.0
	MaxPercent = 100.0
)

// GoodMatchPercent is the lowest percentage reported as a good match
const GoodMatchPercent = 65

// ScaleScore maps a raw overlap score onto the calibrated [0.20, 1.00] range.
// Low raw scores are stretched so typical partial overlaps read as medium.
// NaN and negative input are treated as zero.
func ScaleScore(raw float64) float64 {
	if math.IsNaN(raw) || raw < 0 {
		raw = 0
	}
	if raw > 1 {
		raw = 1
	}

	var pct float64
	switch {
	case raw <= 0.10:
		pct = 20 + raw*300
	case raw <= 0.30:
		pct = 50 + (raw-0.10)*125
	case raw <= 0.50:
		pct = 75 + (raw-0.30)*75
	default:
		pct = 90 + (raw-0.50)*20
	}

	return clamp(pct, MinPercent, MaxPercent) / 100
}

// Band is a display category for a match percentage
type Band string

const (
	BandExcellent    Band = "excellent"
	BandGood         Band = "good"
	BandMedium       Band = "medium"
	BandBelowAverage Band = "below_average"
	BandPoor         Band = "poor"
	BandVeryPoor     Band = "very_poor"
)

// Bands returns every band, best first
func Bands() []Band {
	return []Band{BandExcellent, BandGood, BandMedium, BandBelowAverage, BandPoor, BandVeryPoor}
}

// Valid reports whether b is a known band
func (b Band) Valid() bool {
	_, ok := bandColors[b]
	return ok
}

var bandColors = map[Band]string{
	BandExcellent:    "#28a745",
	BandGood:         "#20c997",
	BandMedium:       "#fd7e14",
	BandBelowAverage: "#ffc107",
	BandPoor:         "#e83e8c",
	BandVeryPoor:     "#dc3545",
}

var bandLabels = map[Band]string{
	BandExcellent:    "Excellent",
	BandGood:         "Good",
	BandMedium:       "Medium",
	BandBelowAverage: "Below average",
	BandPoor:         "Poor",
	BandVeryPoor:     "Very poor",
}

// BandFor returns the band of a rounded percentage
func BandFor(percent int) Band {
	switch {
	case percent >= 80:
		return BandExcellent
	case percent >= 65:
		return BandGood
	case percent >= 50:
		return BandMedium
	case percent >= 35:
		return BandBelowAverage
	case percent >= 20:
		return BandPoor
	default:
		return BandVeryPoor
	}
}

// Color returns the hex color used to render the band
func (b Band) Color() string {
	return bandColors[b]
}

// Label returns a human-readable band name
func (b Band) Label() string {
	return bandLabels[b]
}

// FormattedScore is the display form of a scaled score
type FormattedScore struct {
	Score       string `json:"score"`
	Percent     int    `json:"percent"`
	Color       string `json:"color"`
	Band        Band   `json:"band"`
	IsGoodMatch bool   `json:"isGoodMatch"`
}

// FormatScore renders a scaled score in [0,1] as "NN% Match" with its band
func FormatScore(score float64) FormattedScore {
	percent := Percent(score)
	band := BandFor(percent)

	return FormattedScore{
		Score:       fmt.Sprintf("%d%% Match", percent),
		Percent:     percent,
		Color:       band.Color(),
		Band:        band,
		IsGoodMatch: percent >= GoodMatchPercent,
	}
}

// Percent converts a scaled score to a rounded percentage
func Percent(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(score * 100))
}
