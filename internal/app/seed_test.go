package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netros/internal/db"
	"netros/internal/db/repository"
	"netros/internal/domain"
)

func TestSeedPrinciples(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	repo := repository.NewPrincipleRepo(writeDB)
	ctx := context.Background()

	created, err := SeedPrinciples(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 34, created)

	nsm, err := repo.ListByFramework(ctx, domain.FrameworkNSM)
	require.NoError(t, err)
	require.Len(t, nsm, 24)
	assert.Equal(t, "1.1", nsm[0].Code)
	assert.Equal(t, "Kartlegg virksomhetens verdier", nsm[0].Title)
	assert.Equal(t, "2.0", nsm[0].Version)
	require.NotNil(t, nsm[0].EffectiveDate)

	ekom, err := repo.ListByFramework(ctx, domain.FrameworkEkom)
	require.NoError(t, err)
	require.Len(t, ekom, 10)
	assert.Equal(t, "Ekomforskriften § 2-1", ekom[0].FullCode())
	require.NotNil(t, ekom[0].LegalText)

	// Running the seed again must not duplicate anything.
	created, err = SeedPrinciples(ctx, repo)
	require.NoError(t, err)
	assert.Zero(t, created)

	nsm, err = repo.ListByFramework(ctx, domain.FrameworkNSM)
	require.NoError(t, err)
	assert.Len(t, nsm, 24)
}

// brokenPrincipleRepo fails every lookup with a store-level error.
type brokenPrincipleRepo struct {
	domain.PrincipleRepository
	created int
}

func (r *brokenPrincipleRepo) GetByCode(context.Context, domain.Framework, string) (*domain.Principle, error) {
	return nil, errors.New("database is locked")
}

func (r *brokenPrincipleRepo) Create(context.Context, *domain.Principle) (*domain.Principle, error) {
	r.created++
	return nil, errors.New("database is locked")
}

func TestSeedPrinciples_StoreFailureIsNotTreatedAsMissing(t *testing.T) {
	repo := &brokenPrincipleRepo{}

	created, err := SeedPrinciples(context.Background(), repo)
	require.Error(t, err)
	assert.Zero(t, created)
	assert.Zero(t, repo.created, "a failed lookup must not fall through to Create")
}
