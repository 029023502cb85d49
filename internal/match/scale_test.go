package match

import (
	"math"
	"testing"
)

func TestScaleScore(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{0, 0.20},
		{0.05, 0.35},
		{0.10, 0.50},
		{0.20, 0.625},
		{0.30, 0.75},
		{0.40, 0.825},
		{0.50, 0.90},
		{0.75, 0.95},
		{1.0, 1.0},
		{-0.5, 0.20},
		{2.0, 1.0},
		{math.NaN(), 0.20},
	}

	for _, tt := range tests {
		if got := ScaleScore(tt.raw); !approxEqual(got, tt.want) {
			t.Errorf("ScaleScore(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestScaleScore_MonotonicAndBounded(t *testing.T) {
	prev := ScaleScore(0)
	for i := 1; i <= 1000; i++ {
		raw := float64(i) / 1000
		got := ScaleScore(raw)

		if got < 0.20 || got > 1.0 {
			t.Fatalf("ScaleScore(%v) = %v, want within [0.20, 1.00]", raw, got)
		}
		if got < prev-epsilon {
			t.Fatalf("ScaleScore(%v) = %v decreased from %v", raw, got, prev)
		}
		prev = got
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score     float64
		wantLabel string
		wantColor string
		wantBand  Band
		wantGood  bool
	}{
		{0.82, "82% Match", "#28a745", BandExcellent, true},
		{0.42, "42% Match", "#ffc107", BandBelowAverage, false},
		{0.65, "65% Match", "#20c997", BandGood, true},
		{0.6449, "64% Match", "#fd7e14", BandMedium, false},
		{0.50, "50% Match", "#fd7e14", BandMedium, false},
		{0.20, "20% Match", "#e83e8c", BandPoor, false},
		{0.19, "19% Match", "#dc3545", BandVeryPoor, false},
		{1.0, "100% Match", "#28a745", BandExcellent, true},
	}

	for _, tt := range tests {
		t.Run(tt.wantLabel, func(t *testing.T) {
			got := FormatScore(tt.score)

			if got.Score != tt.wantLabel {
				t.Errorf("Score = %q, want %q", got.Score, tt.wantLabel)
			}
			if got.Color != tt.wantColor {
				t.Errorf("Color = %q, want %q", got.Color, tt.wantColor)
			}
			if got.Band != tt.wantBand {
				t.Errorf("Band = %v, want %v", got.Band, tt.wantBand)
			}
			if got.IsGoodMatch != tt.wantGood {
				t.Errorf("IsGoodMatch = %v, want %v", got.IsGoodMatch, tt.wantGood)
			}
		})
	}
}

func TestBand_Label(t *testing.T) {
	if got := BandBelowAverage.Label(); got != "Below average" {
		t.Errorf("Label() = %q, want %q", got, "Below average")
	}
	if got := Band("unknown").Color(); got != "" {
		t.Errorf("Color() = %q, want empty", got)
	}
}
