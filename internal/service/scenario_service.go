package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Amoukli/Coach-AI/internal/cache"
	"github.com/Amoukli/Coach-AI/internal/model"
	"github.com/Amoukli/Coach-AI/internal/repository"
)

// ScenarioService manages the scenario authoring lifecycle: draft,
// review, publish, archive. Published scenarios are frozen except for
// usage counters.
type ScenarioService struct {
	scenarios  repository.ScenarioRepo
	cache      cache.ScenarioCache
	guidelines *GuidelineClient
	clark      *ClarkClient
}

// NewScenarioService creates a new scenario service
func NewScenarioService(scenarios repository.ScenarioRepo, scenarioCache cache.ScenarioCache, guidelines *GuidelineClient, clark *ClarkClient) *ScenarioService {
	return &ScenarioService{
		scenarios:  scenarios,
		cache:      scenarioCache,
		guidelines: guidelines,
		clark:      clark,
	}
}

// Create validates and stores a new draft scenario.
func (s *ScenarioService) Create(ctx context.Context, scenario *model.Scenario, createdBy string) (*model.Scenario, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, err
	}

	scenario.ScenarioID = "sc_" + uuid.New().String()[:8]
	scenario.Status = model.ScenarioDraft
	scenario.CreatedBy = createdBy

	if err := s.scenarios.Create(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to create scenario: %w", err)
	}

	return scenario, nil
}

// Get returns one scenario by its public ID.
func (s *ScenarioService) Get(ctx context.Context, scenarioID string) (*model.Scenario, error) {
	scenario, err := s.scenarios.GetByScenarioID(ctx, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	if scenario == nil {
		return nil, fmt.Errorf("%w: scenario %s", ErrNotFound, scenarioID)
	}
	return scenario, nil
}

// List returns scenarios matching the filter.
func (s *ScenarioService) List(ctx context.Context, filter repository.ScenarioFilter) ([]*model.Scenario, error) {
	return s.scenarios.List(ctx, filter)
}

// ListPublished returns the scenarios students can start.
func (s *ScenarioService) ListPublished(ctx context.Context, specialty string, difficulty model.Difficulty) ([]*model.Scenario, error) {
	return s.scenarios.List(ctx, repository.ScenarioFilter{
		Status:     model.ScenarioPublished,
		Specialty:  specialty,
		Difficulty: difficulty,
	})
}

// Update replaces scenario content. Published and archived scenarios
// are immutable.
func (s *ScenarioService) Update(ctx context.Context, scenarioID string, updated *model.Scenario) (*model.Scenario, error) {
	existing, err := s.Get(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if !existing.Editable() {
		return nil, fmt.Errorf("%w: scenario %s is %s", ErrInvalidState, scenarioID, existing.Status)
	}
	if err := validateScenario(updated); err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.ScenarioID = existing.ScenarioID
	updated.Status = existing.Status
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt

	if err := s.scenarios.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update scenario: %w", err)
	}

	return updated, nil
}

// Publish moves a draft or approved scenario into the published state
// and primes the hot-path cache.
func (s *ScenarioService) Publish(ctx context.Context, scenarioID, reviewedBy string) (*model.Scenario, error) {
	scenario, err := s.Get(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if scenario.Status != model.ScenarioDraft && scenario.Status != model.ScenarioApproved {
		return nil, fmt.Errorf("%w: cannot publish scenario in status %s", ErrInvalidState, scenario.Status)
	}
	if err := validateScenario(scenario); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	scenario.Status = model.ScenarioPublished
	scenario.PublishedAt = &now
	scenario.ReviewedBy = reviewedBy

	if err := s.scenarios.Update(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to publish scenario: %w", err)
	}

	if err := s.cache.SetMeta(ctx, scenarioMeta(scenario)); err != nil {
		log.Printf("Warning: failed to cache scenario %s: %v", scenarioID, err)
	}

	return scenario, nil
}

// Archive retires a scenario from the published catalogue.
func (s *ScenarioService) Archive(ctx context.Context, scenarioID string) (*model.Scenario, error) {
	scenario, err := s.Get(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if scenario.Status != model.ScenarioPublished {
		return nil, fmt.Errorf("%w: cannot archive scenario in status %s", ErrInvalidState, scenario.Status)
	}

	scenario.Status = model.ScenarioArchived
	if err := s.scenarios.Update(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to archive scenario: %w", err)
	}

	if err := s.cache.Invalidate(ctx, scenarioID); err != nil {
		log.Printf("Warning: failed to invalidate scenario cache %s: %v", scenarioID, err)
	}

	return scenario, nil
}

// Delete removes a scenario. Only drafts can be deleted outright.
func (s *ScenarioService) Delete(ctx context.Context, scenarioID string) error {
	scenario, err := s.Get(ctx, scenarioID)
	if err != nil {
		return err
	}
	if scenario.Status != model.ScenarioDraft {
		return fmt.Errorf("%w: only draft scenarios can be deleted", ErrInvalidState)
	}

	return s.scenarios.Delete(ctx, scenarioID)
}

// EnrichWithGuidelines attaches Clare guideline references matching the
// scenario's correct diagnosis. Clare being down degrades to a no-op.
func (s *ScenarioService) EnrichWithGuidelines(ctx context.Context, scenarioID string) (*model.Scenario, error) {
	scenario, err := s.Get(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if !scenario.Editable() {
		return nil, fmt.Errorf("%w: scenario %s is %s", ErrInvalidState, scenarioID, scenario.Status)
	}

	guidelines, err := s.guidelines.SearchByCondition(ctx, scenario.CorrectDiagnosis, 5)
	if err != nil {
		log.Printf("Warning: guideline enrichment failed for %s: %v", scenarioID, err)
		return scenario, nil
	}

	for _, g := range guidelines {
		scenario.GuidelineIDs = append(scenario.GuidelineIDs, g.ID)
		if g.URL != "" {
			scenario.GuidelineURLs = append(scenario.GuidelineURLs, g.URL)
		}
	}

	if err := s.scenarios.Update(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to save enriched scenario: %w", err)
	}

	return scenario, nil
}

// ImportFromClark converts a Clark consultation into a draft scenario.
func (s *ScenarioService) ImportFromClark(ctx context.Context, consultationID, createdBy string) (*model.Scenario, error) {
	consultation, err := s.clark.GetConsultation(ctx, consultationID)
	if err != nil {
		return nil, err
	}

	scenario := s.clark.ConvertToScenario(consultation)
	return s.Create(ctx, scenario, createdBy)
}

// RecordPlay folds a completed session into the scenario usage counters.
func (s *ScenarioService) RecordPlay(ctx context.Context, scenarioID string, score, completionMin int) error {
	return s.scenarios.RecordPlay(ctx, scenarioID, score, completionMin)
}

// Meta returns the cached hot-path scenario metadata, falling back to
// Mongo and repopulating the cache on a miss.
func (s *ScenarioService) Meta(ctx context.Context, scenarioID string) (*model.ScenarioMeta, error) {
	meta, err := s.cache.GetMeta(ctx, scenarioID)
	if err == nil && meta != nil {
		return meta, nil
	}

	scenario, err := s.Get(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	meta = scenarioMeta(scenario)
	if err := s.cache.SetMeta(ctx, meta); err != nil {
		log.Printf("Warning: failed to cache scenario %s: %v", scenarioID, err)
	}
	return meta, nil
}

func scenarioMeta(scenario *model.Scenario) *model.ScenarioMeta {
	return &model.ScenarioMeta{
		ScenarioID:       scenario.ScenarioID,
		Title:            scenario.Title,
		Specialty:        scenario.Specialty,
		Status:           scenario.Status,
		CorrectDiagnosis: scenario.CorrectDiagnosis,
		TimeLimitMin:     scenario.Rubric.TimeLimitMin,
	}
}

func validateScenario(scenario *model.Scenario) error {
	if scenario.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if scenario.Patient.PresentingComplaint == "" {
		return fmt.Errorf("%w: patient presenting complaint is required", ErrValidation)
	}
	if _, ok := scenario.RootNode(); !ok {
		return fmt.Errorf("%w: dialogue tree must have a root node", ErrValidation)
	}
	if scenario.CorrectDiagnosis == "" {
		return fmt.Errorf("%w: correct diagnosis is required", ErrValidation)
	}
	if len(scenario.Rubric.MustAsk) == 0 {
		return fmt.Errorf("%w: rubric must list must-ask topics", ErrValidation)
	}
	return nil
}
