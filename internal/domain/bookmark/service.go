package bookmark

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

type Service struct {
	repo     Repository
	sims     SimulationChecker
	messages MessageChecker
	log      zerolog.Logger
}

func NewService(repo Repository, sims SimulationChecker, messages MessageChecker, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		sims:     sims,
		messages: messages,
		log:      log.With().Str("component", "bookmark-service").Logger(),
	}
}

// Create stores a bookmark after checking both ends of the pointer exist and
// the pair is not already bookmarked.
func (s *Service) Create(ctx context.Context, simulationID, messageID uint, name string) (*Bookmark, error) {
	exists, err := s.sims.Exists(ctx, simulationID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up simulation")
	}
	if !exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("simulation %d not found", simulationID), nil, "")
	}

	exists, err = s.messages.Exists(ctx, messageID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up message")
	}
	if !exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("message %d not found", messageID), nil, "")
	}

	existing, err := s.repo.FindBySimulationAndMessage(ctx, simulationID, messageID)
	if err != nil && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to check existing bookmark")
	}
	if existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"bookmark already exists for this message in this simulation", nil, "")
	}

	b := &Bookmark{
		SimulationID: simulationID,
		MessageID:    messageID,
		Name:         name,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info().Uint("bookmark_id", b.ID).Uint("simulation_id", simulationID).Uint("message_id", messageID).Msg("bookmark created")
	return b, nil
}

// ListBySimulation returns all bookmarks of a simulation.
func (s *Service) ListBySimulation(ctx context.Context, simulationID uint) ([]*Bookmark, error) {
	return s.repo.FindBySimulation(ctx, simulationID)
}

// Delete removes a bookmark.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("bookmark %d not found", id))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Uint("bookmark_id", id).Msg("bookmark deleted")
	return nil
}
