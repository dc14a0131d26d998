package scoring

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAmountScore(t *testing.T) {
	tests := []struct {
		name      string
		reference float64
		candidate float64
		expected  float64
	}{
		{"exact", 123.45, 123.45, 100},
		{"exact across signs", 123.45, -123.45, 100},
		{"under one unit", 100.00, 100.40, 95},
		{"under five units", 100.00, 103.00, 80},
		{"under ten units", 100.00, 108.00, 60},
		{"five percent off", 1000.00, 1050.00, 35},
		{"beyond ten percent", 100.00, 150.00, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountScore(decimal.NewFromFloat(tt.reference), decimal.NewFromFloat(tt.candidate))
			if got != tt.expected {
				t.Errorf("AmountScore(%.2f, %.2f) = %.1f, expected %.1f",
					tt.reference, tt.candidate, got, tt.expected)
			}
		})
	}
}

func TestAmountScore_Monotonicity(t *testing.T) {
	reference := decimal.NewFromFloat(500.00)

	previous := 101.0
	for _, diff := range []float64{0, 0.5, 2, 8, 20, 40, 60, 100} {
		candidate := reference.Add(decimal.NewFromFloat(diff))
		score := AmountScore(reference, candidate)
		if score > previous {
			t.Errorf("Score increased from %.1f to %.1f at diff %.1f", previous, score, diff)
		}
		previous = score
	}
}

func TestDateScore(t *testing.T) {
	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		days     int
		expected float64
	}{
		{"same day", 0, 100},
		{"three days", 3, 90},
		{"ten days", 10, 75},
		{"three weeks", 21, 50},
		{"no proximity", 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base.AddDate(0, 0, tt.days)

			got := DateScore(base, other)
			if got != tt.expected {
				t.Errorf("DateScore at %d days = %.1f, expected %.1f", tt.days, got, tt.expected)
			}

			// Symmetric in argument order.
			if back := DateScore(other, base); back != got {
				t.Errorf("DateScore not symmetric at %d days: %.1f vs %.1f", tt.days, got, back)
			}
		})
	}
}

func TestDateScore_LinearTail(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Between 30 days and the zero point the score decays linearly.
	got := DateScore(base, base.AddDate(0, 0, 30))
	if got != 0 {
		t.Errorf("Expected 0 at exactly 30 days, got %.1f", got)
	}
}

func TestNameScore(t *testing.T) {
	got := NameScore("Jean Dupont", "DUPONT Jean", nil)
	if got != 100 {
		t.Errorf("Expected 100 for reversed-order name, got %.1f", got)
	}

	got = NameScore("Mme Éléonore Petit", "eleonore petit", nil)
	if got != 100 {
		t.Errorf("Expected 100 after normalization, got %.1f", got)
	}
}
