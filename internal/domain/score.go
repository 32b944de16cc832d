package domain

// Band is the qualitative risk level derived from a score.
type Band string

const (
	BandAcceptable Band = "acceptable"
	BandLow        Band = "low"
	BandMedium     Band = "medium"
	BandHigh       Band = "high"
)

// Likelihood and consequence are 5-point scales; scores span their product.
const (
	ScaleMin = 1
	ScaleMax = 5
	ScoreMin = ScaleMin * ScaleMin
	ScoreMax = ScaleMax * ScaleMax
)

// HighScoreThreshold is the lowest score that falls in the high band.
const HighScoreThreshold = 17

// ValidateScale checks that a likelihood or consequence value is in [1,5].
// The field name is used in the error message.
func ValidateScale(field string, value int) error {
	if value < ScaleMin || value > ScaleMax {
		return ErrValidation("%s must be between %d and %d, got %d", field, ScaleMin, ScaleMax, value)
	}
	return nil
}

// Score computes likelihood × consequence. Out-of-range inputs are a
// data-integrity violation and are rejected rather than clamped.
func Score(likelihood, consequence int) (int, error) {
	if err := ValidateScale("likelihood", likelihood); err != nil {
		return 0, err
	}
	if err := ValidateScale("consequence", consequence); err != nil {
		return 0, err
	}
	return likelihood * consequence, nil
}

// BandForScore maps a score in [1,25] to its band. Boundaries are inclusive
// on the lower bound of each band and the mapping is fixed.
func BandForScore(score int) Band {
	switch {
	case score <= 4:
		return BandAcceptable
	case score <= 9:
		return BandLow
	case score <= 16:
		return BandMedium
	default:
		return BandHigh
	}
}

// Color returns the semantic color name for the band. Presentation layers
// own any hex/CSS translation.
func (b Band) Color() string {
	switch b {
	case BandAcceptable:
		return "green"
	case BandLow:
		return "yellow"
	case BandMedium:
		return "orange"
	case BandHigh:
		return "red"
	}
	return ""
}

// Label returns the Norwegian display label for the band.
func (b Band) Label() string {
	switch b {
	case BandAcceptable:
		return "Akseptabel"
	case BandLow:
		return "Lav"
	case BandMedium:
		return "Middels"
	case BandHigh:
		return "Høy"
	}
	return "Ukjent"
}

// Bands lists all bands from lowest to highest score.
func Bands() []Band {
	return []Band{BandAcceptable, BandLow, BandMedium, BandHigh}
}

// scaleLabels is shared by likelihood and consequence.
var scaleLabels = map[int]string{
	1: "Svært lav",
	2: "Lav",
	3: "Middels",
	4: "Høy",
	5: "Svært høy",
}

// ScaleLabel returns the Norwegian label for a 1-5 scale value.
func ScaleLabel(value int) string {
	if l, ok := scaleLabels[value]; ok {
		return l
	}
	return "Ukjent"
}
