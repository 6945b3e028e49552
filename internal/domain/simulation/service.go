package simulation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// TreeScrubber releases per-tree state held by the message domain once a
// simulation is gone.
type TreeScrubber interface {
	ForgetTree(simulationID uint)
}

type Service struct {
	repo  Repository
	cases CaseDirectory
	trees TreeScrubber
	log   zerolog.Logger
}

func NewService(repo Repository, cases CaseDirectory, trees TreeScrubber, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		cases: cases,
		trees: trees,
		log:   log.With().Str("component", "simulation-service").Logger(),
	}
}

// Create stores a new simulation after confirming the case it belongs to
// exists.
func (s *Service) Create(ctx context.Context, headline, brief string, caseID uint) (*Simulation, error) {
	exists, err := s.cases.Exists(ctx, caseID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up case")
	}
	if !exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("case %d not found", caseID), nil, "")
	}

	sim := &Simulation{
		Headline: headline,
		Brief:    brief,
		CaseID:   caseID,
	}
	if err := s.repo.Create(ctx, sim); err != nil {
		return nil, err
	}
	s.log.Info().Uint("simulation_id", sim.ID).Uint("case_id", caseID).Msg("simulation created")
	return sim, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Simulation, error) {
	return s.repo.FindByID(ctx, id)
}

// Delete removes the simulation; messages and bookmarks go with it through
// the cascade constraints.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("simulation %d not found", id))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.trees != nil {
		s.trees.ForgetTree(id)
	}
	s.log.Info().Uint("simulation_id", id).Msg("simulation deleted")
	return nil
}
