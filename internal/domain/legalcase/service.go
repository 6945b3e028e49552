package legalcase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"parley-server/services/negotiation-api/internal/domain/simulation"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// SimulationSource lists a case's simulations. Satisfied by the simulation
// repository.
type SimulationSource interface {
	FindByCase(ctx context.Context, caseID uint) ([]*simulation.Simulation, error)
	CountByCase(ctx context.Context, caseID uint) (int64, error)
}

// MessageCounter reports how many messages a simulation's tree holds.
// Satisfied by the message repository.
type MessageCounter interface {
	CountBySimulation(ctx context.Context, simulationID uint) (int64, error)
}

// BackgroundSummarizer condenses a case background into a short summary.
type BackgroundSummarizer interface {
	SummarizeBackground(ctx context.Context, background string, desiredLines int) (string, error)
}

// CaseOverview is a case plus its simulation count, the list-view shape.
type CaseOverview struct {
	Case
	SimulationCount int64 `json:"scenario_count"`
}

// SimulationSummary is one simulation row inside a case detail.
type SimulationSummary struct {
	simulation.Simulation
	NodeCount int64 `json:"node_count"`
}

// CaseDetail is the full case view: parsed background plus simulations with
// their tree sizes.
type CaseDetail struct {
	Case
	Background  Background          `json:"background"`
	Simulations []SimulationSummary `json:"simulations"`
}

const summaryLines = 30

type Service struct {
	repo       Repository
	sims       SimulationSource
	messages   MessageCounter
	summarizer BackgroundSummarizer
	log        zerolog.Logger
}

func NewService(repo Repository, sims SimulationSource, messages MessageCounter, summarizer BackgroundSummarizer, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		sims:       sims,
		messages:   messages,
		summarizer: summarizer,
		log:        log.With().Str("component", "case-service").Logger(),
	}
}

// Create stores a new case. When no context document is supplied, a default
// one is built from the party names so the background editor always has a
// document to patch.
func (s *Service) Create(ctx context.Context, name, partyA, partyB string, contextJSON *string) (*CaseOverview, error) {
	if name == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"case name must not be empty", nil, "")
	}

	doc := DefaultContext(partyA, partyB)
	if contextJSON != nil {
		doc = *contextJSON
	}

	c := &Case{
		Name:    name,
		PartyA:  partyA,
		PartyB:  partyB,
		Context: doc,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Uint("case_id", c.ID).Str("name", name).Msg("case created")
	return &CaseOverview{Case: *c}, nil
}

// List returns all cases with their simulation counts.
func (s *Service) List(ctx context.Context) ([]*CaseOverview, error) {
	cases, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	overviews := make([]*CaseOverview, 0, len(cases))
	for _, c := range cases {
		count, err := s.sims.CountByCase(ctx, c.ID)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count simulations")
		}
		overviews = append(overviews, &CaseOverview{Case: *c, SimulationCount: count})
	}
	return overviews, nil
}

// Detail returns one case with its parsed background and every simulation
// annotated with its tree size.
func (s *Service) Detail(ctx context.Context, id uint) (*CaseDetail, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("case %d not found", id))
	}

	sims, err := s.sims.FindByCase(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list simulations")
	}

	summaries := make([]SimulationSummary, 0, len(sims))
	for _, sim := range sims {
		nodes, err := s.messages.CountBySimulation(ctx, sim.ID)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count tree nodes")
		}
		summaries = append(summaries, SimulationSummary{Simulation: *sim, NodeCount: nodes})
	}

	return &CaseDetail{
		Case:        *c,
		Background:  ParseBackground(c.Context),
		Simulations: summaries,
	}, nil
}

// UpdateBackground merges the patch into the context document and refreshes
// the summary. Summarization is best effort: when the model call fails the
// update still commits with an empty summary.
func (s *Service) UpdateBackground(ctx context.Context, id uint, patch BackgroundPatch) (*CaseOverview, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("case %d not found", id))
	}

	c.Context = applyPatch(c.Context, patch)
	if patch.PartyA != nil {
		c.PartyA = *patch.PartyA
	}
	if patch.PartyB != nil {
		c.PartyB = *patch.PartyB
	}

	summary, err := s.summarizer.SummarizeBackground(ctx, FormatBackground(c.Context), summaryLines)
	if err != nil {
		s.log.Warn().Err(err).Uint("case_id", id).Msg("background summary refresh failed")
		summary = ""
	}
	c.Summary = summary

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Uint("case_id", id).Msg("case background updated")
	return &CaseOverview{Case: *c}, nil
}

// Delete removes the case; simulations, messages, documents and bookmarks
// follow through the cascade constraints.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("case %d not found", id))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Uint("case_id", id).Msg("case deleted")
	return nil
}
