package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_AllCombinations(t *testing.T) {
	for l := ScaleMin; l <= ScaleMax; l++ {
		for c := ScaleMin; c <= ScaleMax; c++ {
			score, err := Score(l, c)
			require.NoError(t, err)
			assert.Equal(t, l*c, score)
			assert.GreaterOrEqual(t, score, ScoreMin)
			assert.LessOrEqual(t, score, ScoreMax)
		}
	}
}

func TestScore_RejectsOutOfRange(t *testing.T) {
	for _, pair := range [][2]int{{0, 3}, {6, 3}, {3, 0}, {3, 6}, {-1, -1}} {
		_, err := Score(pair[0], pair[1])
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve, "likelihood=%d consequence=%d", pair[0], pair[1])
	}
}

func TestBandForScore_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		band  Band
	}{
		{1, BandAcceptable},
		{4, BandAcceptable},
		{5, BandLow},
		{9, BandLow},
		{10, BandMedium},
		{16, BandMedium},
		{17, BandHigh},
		{20, BandHigh},
		{25, BandHigh},
	}
	for _, c := range cases {
		assert.Equal(t, c.band, BandForScore(c.score), "score %d", c.score)
	}
}

func TestBandForScore_MonotonicInScore(t *testing.T) {
	rank := map[Band]int{BandAcceptable: 0, BandLow: 1, BandMedium: 2, BandHigh: 3}
	prev := BandAcceptable
	for score := ScoreMin; score <= ScoreMax; score++ {
		band := BandForScore(score)
		assert.GreaterOrEqual(t, rank[band], rank[prev], "score %d", score)
		prev = band
	}
}

func TestBand_ColorsAndLabels(t *testing.T) {
	assert.Equal(t, "green", BandAcceptable.Color())
	assert.Equal(t, "yellow", BandLow.Color())
	assert.Equal(t, "orange", BandMedium.Color())
	assert.Equal(t, "red", BandHigh.Color())

	assert.Equal(t, "Akseptabel", BandAcceptable.Label())
	assert.Equal(t, "Lav", BandLow.Label())
	assert.Equal(t, "Middels", BandMedium.Label())
	assert.Equal(t, "Høy", BandHigh.Label())
}

func TestRisk_TargetScoreNeverDefaults(t *testing.T) {
	r := Risk{Likelihood: 5, Consequence: 4}
	_, ok := r.TargetScore()
	assert.False(t, ok)

	tl, tc := 2, 2
	r.TargetLikelihood = &tl
	r.TargetConsequence = &tc
	score, ok := r.TargetScore()
	require.True(t, ok)
	assert.Equal(t, 4, score)
}

func TestRisk_ValidateTargetsTogether(t *testing.T) {
	tl := 2
	r := Risk{
		Title:            "t",
		RiskType:         RiskTypeTechnical,
		Status:           RiskStatusIdentified,
		Likelihood:       3,
		Consequence:      3,
		TargetLikelihood: &tl,
	}
	var ve *ValidationError
	assert.ErrorAs(t, r.Validate(), &ve)

	tc := 2
	r.TargetConsequence = &tc
	assert.NoError(t, r.Validate())
}
