package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRiskMatrix_DenseGrid(t *testing.T) {
	m, err := BuildRiskMatrix(nil, MatrixViewCurrent)
	require.NoError(t, err)
	require.Len(t, m.Cells, 5)
	assert.Zero(t, m.TotalRisks)

	for i, row := range m.Cells {
		require.Len(t, row, 5)
		for j, cell := range row {
			assert.Equal(t, ScaleMax-i, cell.Likelihood)
			assert.Equal(t, ScaleMin+j, cell.Consequence)
			assert.Equal(t, cell.Likelihood*cell.Consequence, cell.Score)
			assert.Equal(t, BandForScore(cell.Score), cell.Band)
			assert.Equal(t, cell.Band.Color(), cell.Color)
			assert.NotNil(t, cell.RiskIDs)
			assert.Empty(t, cell.RiskIDs)
		}
	}

	// Corners of the display contract.
	assert.Equal(t, 5, m.Cells[0][0].Likelihood)
	assert.Equal(t, 1, m.Cells[0][0].Consequence)
	assert.Equal(t, 25, m.Cells[0][4].Score)
	assert.Equal(t, 1, m.Cells[4][0].Score)
}

func TestBuildRiskMatrix_PlacementAndOrder(t *testing.T) {
	risks := []Risk{
		{ID: 1, Title: "først", Likelihood: 5, Consequence: 4},
		{ID: 2, Title: "sist", Likelihood: 5, Consequence: 4},
		{ID: 3, Title: "annet sted", Likelihood: 1, Consequence: 1},
	}

	m, err := BuildRiskMatrix(risks, MatrixViewCurrent)
	require.NoError(t, err)
	assert.Equal(t, 3, m.TotalRisks)

	cell := m.Cells[0][3]
	assert.Equal(t, []int64{1, 2}, cell.RiskIDs)
	assert.Equal(t, 2, cell.RiskCount)
	require.Len(t, cell.Risks, 2)
	assert.Equal(t, "først", cell.Risks[0].Title)

	other := m.Cells[4][0]
	assert.Equal(t, []int64{3}, other.RiskIDs)
}

func TestBuildRiskMatrix_TargetViewSubstitution(t *testing.T) {
	tl, tc := 2, 2
	risks := []Risk{
		{ID: 1, Likelihood: 5, Consequence: 4, TargetLikelihood: &tl, TargetConsequence: &tc},
		{ID: 2, Likelihood: 3, Consequence: 3},
	}

	m, err := BuildRiskMatrix(risks, MatrixViewTarget)
	require.NoError(t, err)

	// Risk 1 moves to its target cell; risk 2 stays on current values.
	assert.Equal(t, []int64{1}, m.Cells[3][1].RiskIDs)
	assert.Equal(t, []int64{2}, m.Cells[2][2].RiskIDs)

	// The risks themselves are not mutated by the build.
	assert.Equal(t, 5, risks[0].Likelihood)
	assert.Equal(t, 4, risks[0].Consequence)
}

func TestBuildRiskMatrix_RejectsOutOfRange(t *testing.T) {
	risks := []Risk{{ID: 7, Likelihood: 6, Consequence: 2}}
	_, err := BuildRiskMatrix(risks, MatrixViewCurrent)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "risk 7")
}

func TestBuildRiskMatrix_Idempotent(t *testing.T) {
	risks := []Risk{
		{ID: 1, Likelihood: 2, Consequence: 5},
		{ID: 2, Likelihood: 4, Consequence: 1},
	}
	first, err := BuildRiskMatrix(risks, MatrixViewCurrent)
	require.NoError(t, err)
	second, err := BuildRiskMatrix(risks, MatrixViewCurrent)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDistribution_MatchesMatrixCells(t *testing.T) {
	risks := []Risk{
		{ID: 1, Likelihood: 1, Consequence: 2},
		{ID: 2, Likelihood: 3, Consequence: 3},
		{ID: 3, Likelihood: 4, Consequence: 4},
		{ID: 4, Likelihood: 5, Consequence: 5},
		{ID: 5, Likelihood: 5, Consequence: 5},
	}

	d, err := Distribution(risks, MatrixViewCurrent)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Acceptable)
	assert.Equal(t, 1, d.Low)
	assert.Equal(t, 1, d.Medium)
	assert.Equal(t, 2, d.High)
	assert.Equal(t, 5, d.Total)

	m, err := BuildRiskMatrix(risks, MatrixViewCurrent)
	require.NoError(t, err)
	for _, band := range Bands() {
		sum := 0
		for _, row := range m.Cells {
			for _, cell := range row {
				if cell.Band == band {
					sum += cell.RiskCount
				}
			}
		}
		assert.Equal(t, d.Count(band), sum, "band %s", band)
	}
}
