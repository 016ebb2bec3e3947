package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amoukli/Coach-AI/internal/model"
)

func newScenarioFixture() (*ScenarioService, *memScenarioCache) {
	scenarioCache := newMemScenarioCache()
	return NewScenarioService(newMemScenarioRepo(), scenarioCache, nil, nil), scenarioCache
}

func TestScenarioLifecycle(t *testing.T) {
	svc, scenarioCache := newScenarioFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, chestPainScenario(), "u_admin")
	require.NoError(t, err)
	assert.Equal(t, model.ScenarioDraft, created.Status)
	assert.Equal(t, "u_admin", created.CreatedBy)
	assert.NotEmpty(t, created.ScenarioID)

	// Drafts never appear in the student catalogue.
	published, err := svc.ListPublished(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, published)

	got, err := svc.Publish(ctx, created.ScenarioID, "u_reviewer")
	require.NoError(t, err)
	assert.Equal(t, model.ScenarioPublished, got.Status)
	assert.Equal(t, "u_reviewer", got.ReviewedBy)
	require.NotNil(t, got.PublishedAt)

	meta, err := scenarioCache.GetMeta(ctx, created.ScenarioID)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, created.Title, meta.Title)
	assert.Equal(t, 15, meta.TimeLimitMin)

	published, err = svc.ListPublished(ctx, "cardiology", "")
	require.NoError(t, err)
	assert.Len(t, published, 1)

	archived, err := svc.Archive(ctx, created.ScenarioID)
	require.NoError(t, err)
	assert.Equal(t, model.ScenarioArchived, archived.Status)

	meta, err = scenarioCache.GetMeta(ctx, created.ScenarioID)
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestScenarioValidation(t *testing.T) {
	svc, _ := newScenarioFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.Scenario)
	}{
		{"missing title", func(s *model.Scenario) { s.Title = "" }},
		{"missing presenting complaint", func(s *model.Scenario) { s.Patient.PresentingComplaint = "" }},
		{"missing root node", func(s *model.Scenario) { delete(s.DialogueTree, "root") }},
		{"missing diagnosis", func(s *model.Scenario) { s.CorrectDiagnosis = "" }},
		{"empty must-ask list", func(s *model.Scenario) { s.Rubric.MustAsk = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario := chestPainScenario()
			tt.mutate(scenario)
			_, err := svc.Create(ctx, scenario, "u_admin")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUpdate_PublishedIsFrozen(t *testing.T) {
	svc, _ := newScenarioFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, chestPainScenario(), "u_admin")
	require.NoError(t, err)
	_, err = svc.Publish(ctx, created.ScenarioID, "u_reviewer")
	require.NoError(t, err)

	edited := chestPainScenario()
	edited.Title = "Renamed"
	_, err = svc.Update(ctx, created.ScenarioID, edited)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdate_PreservesIdentity(t *testing.T) {
	svc, _ := newScenarioFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, chestPainScenario(), "u_admin")
	require.NoError(t, err)

	edited := chestPainScenario()
	edited.Title = "Chest pain, revised"
	edited.ScenarioID = "sc_spoofed"
	edited.CreatedBy = "u_other"

	updated, err := svc.Update(ctx, created.ScenarioID, edited)
	require.NoError(t, err)
	assert.Equal(t, created.ScenarioID, updated.ScenarioID)
	assert.Equal(t, "u_admin", updated.CreatedBy)
	assert.Equal(t, "Chest pain, revised", updated.Title)
}

func TestDelete_OnlyDrafts(t *testing.T) {
	svc, _ := newScenarioFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, chestPainScenario(), "u_admin")
	require.NoError(t, err)
	_, err = svc.Publish(ctx, created.ScenarioID, "u_reviewer")
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ScenarioID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPublish_Twice(t *testing.T) {
	svc, _ := newScenarioFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, chestPainScenario(), "u_admin")
	require.NoError(t, err)
	_, err = svc.Publish(ctx, created.ScenarioID, "u_reviewer")
	require.NoError(t, err)

	_, err = svc.Publish(ctx, created.ScenarioID, "u_reviewer")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMeta_RepopulatesOnMiss(t *testing.T) {
	svc, scenarioCache := newScenarioFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, chestPainScenario(), "u_admin")
	require.NoError(t, err)

	require.NoError(t, scenarioCache.Invalidate(ctx, created.ScenarioID))

	meta, err := svc.Meta(ctx, created.ScenarioID)
	require.NoError(t, err)
	assert.Equal(t, created.ScenarioID, meta.ScenarioID)

	cached, err := scenarioCache.GetMeta(ctx, created.ScenarioID)
	require.NoError(t, err)
	assert.NotNil(t, cached)
}
