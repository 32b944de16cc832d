package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netros/internal/domain"
)

func TestReviewService_CompleteLinksRisksAndStampsThem(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	r1 := env.mustRisk(t, ctx, "Fiberbrudd", 4, 4)
	r2 := env.mustRisk(t, ctx, "Strømbrudd", 3, 4)

	review, err := env.reviews.Create(ctx, &domain.Review{
		Title:         "Årlig gjennomgang",
		ReviewType:    domain.ReviewTypePeriodic,
		ScheduledDate: datePtr(time.Now().AddDate(0, 0, -1)),
	})
	require.NoError(t, err)

	findings := "to risikoer revurdert"
	completed, err := env.reviews.Complete(ctx, review.ID, &findings, nil, []int64{r1.ID, r2.ID})
	require.NoError(t, err)
	assert.True(t, completed.Completed())
	require.NotNil(t, completed.Findings)

	covered, err := env.reviews.ListRisks(ctx, review.ID)
	require.NoError(t, err)
	assert.Len(t, covered, 2)

	got, err := env.risks.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastReviewedAt)

	// Completing twice conflicts.
	_, err = env.reviews.Complete(ctx, review.ID, nil, nil, nil)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestReviewService_CompleteRollsBackOnMissingRisk(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	review, err := env.reviews.Create(ctx, &domain.Review{
		Title:      "Hendelsesgjennomgang",
		ReviewType: domain.ReviewTypeIncident,
	})
	require.NoError(t, err)

	_, err = env.reviews.Complete(ctx, review.ID, nil, nil, []int64{9999})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)

	// Nothing committed: the review is still pending.
	got, err := env.reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed())
}

func TestActionService_DoneStampsCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	action, err := env.actions.Create(ctx, &domain.Action{
		Title:    "Oppgrader brannmur",
		Priority: domain.ActionPriorityCritical,
		Status:   domain.ActionStatusPlanned,
	})
	require.NoError(t, err)
	assert.Nil(t, action.CompletedAt)

	next := *action
	next.Status = domain.ActionStatusDone
	done, err := env.actions.Update(ctx, &next)
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedAt)

	reopened := *done
	reopened.Status = domain.ActionStatusInProgress
	updated, err := env.actions.Update(ctx, &reopened)
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestDocumentService_AttachAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	risk := env.mustRisk(t, ctx, "Med vedlegg", 2, 2)

	doc, err := env.documents.Create(ctx, &domain.Document{
		EntityKind: domain.EntityKindRisk,
		EntityID:   risk.ID,
		Filename:   "ros-analyse.pdf",
	})
	require.NoError(t, err)
	require.NotNil(t, doc.UploadedBy)
	assert.Equal(t, "kari", *doc.UploadedBy)

	docs, err := env.documents.ListForEntity(ctx, domain.EntityKindRisk, risk.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = env.documents.Create(ctx, &domain.Document{
		EntityKind: domain.EntityKind("blob"),
		EntityID:   risk.ID,
		Filename:   "x",
	})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}
