package domain

// MatrixView selects which assessment the matrix is built from.
type MatrixView string

const (
	// MatrixViewCurrent places risks by their current likelihood/consequence.
	MatrixViewCurrent MatrixView = "current"
	// MatrixViewTarget places risks by their target values, substituting the
	// current value for any unset target. The substitution happens here, not
	// in the scoring functions.
	MatrixViewTarget MatrixView = "target"
)

// RiskMatrixCell is one cell of the 5×5 matrix. Cells exist even when empty.
type RiskMatrixCell struct {
	Likelihood  int           `json:"likelihood"`
	Consequence int           `json:"consequence"`
	Score       int           `json:"score"`
	Band        Band          `json:"band"`
	Color       string        `json:"color"`
	RiskIDs     []int64       `json:"risk_ids"`
	RiskCount   int           `json:"risk_count"`
	Risks       []RiskSummary `json:"risks"`
}

// RiskMatrix is the full 5×5 grid. Rows are indexed by descending likelihood
// (5 first), columns by ascending consequence (1 first). The ordering is a
// display contract consumed by the reporting layer.
type RiskMatrix struct {
	Cells      [][]RiskMatrixCell `json:"cells"`
	TotalRisks int                `json:"total_risks"`
}

// emptyMatrix builds the dense grid with every cell pre-scored.
func emptyMatrix() *RiskMatrix {
	cells := make([][]RiskMatrixCell, 0, ScaleMax)
	for likelihood := ScaleMax; likelihood >= ScaleMin; likelihood-- {
		row := make([]RiskMatrixCell, 0, ScaleMax)
		for consequence := ScaleMin; consequence <= ScaleMax; consequence++ {
			score := likelihood * consequence
			band := BandForScore(score)
			row = append(row, RiskMatrixCell{
				Likelihood:  likelihood,
				Consequence: consequence,
				Score:       score,
				Band:        band,
				Color:       band.Color(),
				RiskIDs:     []int64{},
				Risks:       []RiskSummary{},
			})
		}
		cells = append(cells, row)
	}
	return &RiskMatrix{Cells: cells}
}

// placement resolves the (likelihood, consequence) pair a risk occupies for
// the given view.
func placement(r *Risk, view MatrixView) (int, int) {
	likelihood, consequence := r.Likelihood, r.Consequence
	if view == MatrixViewTarget {
		if r.TargetLikelihood != nil {
			likelihood = *r.TargetLikelihood
		}
		if r.TargetConsequence != nil {
			consequence = *r.TargetConsequence
		}
	}
	return likelihood, consequence
}

// BuildRiskMatrix places every risk into the dense 5×5 grid. Risks keep
// their supplied order within a cell. A risk with out-of-range values fails
// the build; nothing is clamped.
func BuildRiskMatrix(risks []Risk, view MatrixView) (*RiskMatrix, error) {
	m := emptyMatrix()
	for i := range risks {
		r := &risks[i]
		likelihood, consequence := placement(r, view)
		if err := ValidateScale("likelihood", likelihood); err != nil {
			return nil, ErrValidation("risk %d: %s", r.ID, err.Error())
		}
		if err := ValidateScale("consequence", consequence); err != nil {
			return nil, ErrValidation("risk %d: %s", r.ID, err.Error())
		}

		row := ScaleMax - likelihood  // likelihood 5 -> row 0
		col := consequence - ScaleMin // consequence 1 -> col 0
		cell := &m.Cells[row][col]
		cell.RiskIDs = append(cell.RiskIDs, r.ID)
		cell.Risks = append(cell.Risks, r.Summary())
		cell.RiskCount++
		m.TotalRisks++
	}
	return m, nil
}

// BandDistribution counts risks per band for a given view.
type BandDistribution struct {
	Acceptable int `json:"acceptable"`
	Low        int `json:"low"`
	Medium     int `json:"medium"`
	High       int `json:"high"`
	Total      int `json:"total"`
}

// Count returns the count for one band.
func (d BandDistribution) Count(b Band) int {
	switch b {
	case BandAcceptable:
		return d.Acceptable
	case BandLow:
		return d.Low
	case BandMedium:
		return d.Medium
	case BandHigh:
		return d.High
	}
	return 0
}

// Distribution counts risks per band. The per-band totals always equal the
// sums over the matching matrix cells.
func Distribution(risks []Risk, view MatrixView) (BandDistribution, error) {
	var d BandDistribution
	for i := range risks {
		likelihood, consequence := placement(&risks[i], view)
		score, err := Score(likelihood, consequence)
		if err != nil {
			return BandDistribution{}, ErrValidation("risk %d: %s", risks[i].ID, err.Error())
		}
		switch BandForScore(score) {
		case BandAcceptable:
			d.Acceptable++
		case BandLow:
			d.Low++
		case BandMedium:
			d.Medium++
		case BandHigh:
			d.High++
		}
		d.Total++
	}
	return d, nil
}
