package scoring

import (
	"math"
	"time"

	"club-reconciliation-engine/internal/similarity"

	"github.com/shopspring/decimal"
)

// AmountScore maps the difference between two monetary amounts to [0, 100].
// Signs are ignored; the first argument is the reference amount for the
// percentage fallback. The decay is stepwise near zero and percentage-based
// beyond, going to zero once the difference exceeds 10% of the reference.
func AmountScore(reference, candidate decimal.Decimal) float64 {
	refAbs := reference.Abs()
	diff := refAbs.Sub(candidate.Abs()).Abs()

	if diff.IsZero() {
		return 100
	}

	d := diff.InexactFloat64()
	switch {
	case d < 1.0:
		return 95
	case d < 5.0:
		return 80
	case d < 10.0:
		return 60
	}

	if refAbs.IsZero() {
		return 0
	}

	percentDiff := diff.Div(refAbs).InexactFloat64() * 100
	if percentDiff > 10 {
		return 0
	}

	return math.Max(0, 50-percentDiff*3)
}

// DateScore maps the distance in days between two dates to [0, 100].
func DateScore(a, b time.Time) float64 {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}

	days := diff.Hours() / 24
	switch {
	case days < 1:
		return 100
	case days < 7:
		return 90
	case days < 14:
		return 75
	case days < 30:
		return 50
	}

	return math.Max(0, 30-days)
}

// NameScore normalizes both names and returns their similarity. Reversed
// word order and containment are handled inside similarity.Score.
func NameScore(a, b string, normalizer *similarity.Normalizer) float64 {
	if normalizer == nil {
		normalizer = similarity.NewNormalizer(nil)
	}
	return similarity.Score(normalizer.Normalize(a), normalizer.Normalize(b))
}
