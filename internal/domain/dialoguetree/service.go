package dialoguetree

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"parley-server/services/negotiation-api/internal/domain/legalcase"
	"parley-server/services/negotiation-api/internal/domain/message"
	"parley-server/services/negotiation-api/internal/domain/simulation"
	"parley-server/services/negotiation-api/internal/infrastructure/metrics"
	"parley-server/services/negotiation-api/internal/utils/functional"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// Completer is one model call: system prompt in, raw response text out.
type Completer interface {
	Complete(ctx context.Context, systemMessage, userMessage string) (string, error)
}

// Options tune the generation race.
type Options struct {
	// Attempts is how many identical calls race per round.
	Attempts int
	// AttemptTimeout bounds each individual call.
	AttemptTimeout time.Duration
}

// defaultGoal stands in when the simulation cannot be loaded.
const defaultGoal = "Reach a favorable settlement"

// Service orchestrates tree generation: prompt assembly, the attempt race,
// and persisting the winner into the message store.
type Service struct {
	completer Completer
	trees     *message.Service
	msgRepo   message.Repository
	cases     legalcase.Repository
	sims      simulation.Repository
	opts      Options
	log       zerolog.Logger
}

func NewService(
	completer Completer,
	trees *message.Service,
	msgRepo message.Repository,
	cases legalcase.Repository,
	sims simulation.Repository,
	opts Options,
	log zerolog.Logger,
) *Service {
	if opts.Attempts < 1 {
		opts.Attempts = 3
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = 2 * time.Minute
	}
	return &Service{
		completer: completer,
		trees:     trees,
		msgRepo:   msgRepo,
		cases:     cases,
		sims:      sims,
		opts:      opts,
		log:       log.With().Str("component", "dialoguetree-service").Logger(),
	}
}

// Generate races Attempts identical model calls and returns the first
// structurally valid tree. When every attempt fails the round still
// succeeds: the result carries the sentinel tree plus the failure fields.
func (s *Service) Generate(ctx context.Context, in PromptInput) *Result {
	start := time.Now()
	systemMessage := BuildSystemMessage(in)

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan *ScenarioTree, s.opts.Attempts)
	for i := 0; i < s.opts.Attempts; i++ {
		go func(attempt int) {
			results <- s.attempt(raceCtx, attempt, systemMessage)
		}(i)
	}

	for i := 0; i < s.opts.Attempts; i++ {
		if tree := <-results; tree != nil {
			cancel() // losers stop early, best effort
			metrics.GenerationRaces.WithLabelValues(metrics.ResultWon).Inc()
			metrics.GenerationDuration.Observe(time.Since(start).Seconds())
			s.log.Info().Int("winner_nodes", tree.NodeCount()).Dur("elapsed", time.Since(start)).Msg("generation race won")
			return &Result{Tree: *tree}
		}
	}

	metrics.GenerationRaces.WithLabelValues(metrics.ResultFallback).Inc()
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	s.log.Warn().Int("attempts", s.opts.Attempts).Msg("all generation attempts failed, returning sentinel tree")
	return &Result{
		Tree:        Sentinel(),
		Error:       fmt.Sprintf("All %d parallel attempts failed to generate valid response", s.opts.Attempts),
		RawResponse: fmt.Sprintf("Failed to parse JSON from all %d API calls", s.opts.Attempts),
	}
}

// attempt runs one model call under its own deadline and returns the parsed
// tree, or nil when the call errored or the response failed validation.
func (s *Service) attempt(ctx context.Context, n int, systemMessage string) *ScenarioTree {
	attemptCtx, cancel := context.WithTimeout(ctx, s.opts.AttemptTimeout)
	defer cancel()

	raw, err := s.completer.Complete(attemptCtx, systemMessage, userMessage)
	if err != nil {
		metrics.GenerationAttempts.WithLabelValues(metrics.OutcomeError).Inc()
		s.log.Debug().Err(err).Int("attempt", n).Msg("generation attempt errored")
		return nil
	}

	tree, err := Parse(raw)
	if err != nil {
		metrics.GenerationAttempts.WithLabelValues(metrics.OutcomeInvalid).Inc()
		s.log.Debug().Err(err).Int("attempt", n).Msg("generation attempt produced invalid tree")
		return nil
	}

	metrics.GenerationAttempts.WithLabelValues(metrics.OutcomeValid).Inc()
	return tree
}

// Persist writes a generated tree into the simulation's message store in one
// transaction under the tree lock.
//
// Fresh trees insert the root as the selected opening, then levels 2 and 3
// top-down; when another root already holds the selection the new root starts
// unselected. Continuations reuse the given message as level 1, which must
// belong to the simulation, and insert only the new levels beneath it.
func (s *Service) Persist(ctx context.Context, simulationID uint, tree *ScenarioTree, continueFromID *uint) error {
	var created int64
	err := s.trees.RunInTreeScope(ctx, simulationID, func(ctx context.Context) error {
		parentID := continueFromID
		if parentID == nil {
			// A second fresh round must not yield two selected roots; the new
			// opening starts unselected when one already holds the path.
			roots, err := s.msgRepo.FindSiblings(ctx, simulationID, nil)
			if err != nil {
				return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load roots")
			}
			selectedRootExists := functional.Any(roots, func(m *message.Message) bool { return m.Selected })

			root := &message.Message{
				ParentID:     nil,
				Role:         roleOrDefault(tree.Root.Speaker, message.RolePartyA),
				Content:      tree.Root.Line,
				Selected:     !selectedRootExists,
				SimulationID: simulationID,
			}
			if err := s.msgRepo.Create(ctx, root); err != nil {
				return err
			}
			created++
			parentID = &root.ID
		} else {
			parent, err := s.msgRepo.FindByID(ctx, *parentID)
			if err != nil {
				return platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
					fmt.Sprintf("message %d not found", *parentID))
			}
			if parent.SimulationID != simulationID {
				return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
					fmt.Sprintf("message %d belongs to simulation %d, not %d",
						parent.ID, parent.SimulationID, simulationID), nil, "")
			}
		}

		for i := range tree.Root.Responses {
			l2 := &tree.Root.Responses[i]
			reply := &message.Message{
				ParentID:     parentID,
				Role:         roleOrDefault(l2.Speaker, message.RolePartyB),
				Content:      l2.Line,
				SimulationID: simulationID,
			}
			if err := s.msgRepo.Create(ctx, reply); err != nil {
				return err
			}
			created++

			for j := range l2.Responses {
				l3 := &l2.Responses[j]
				followUp := &message.Message{
					ParentID:     &reply.ID,
					Role:         roleOrDefault(l3.Speaker, message.RolePartyA),
					Content:      l3.Line,
					SimulationID: simulationID,
				}
				if err := s.msgRepo.Create(ctx, followUp); err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist generated tree")
	}

	metrics.MessagesCreated.WithLabelValues(metrics.SourceGenerated).Add(float64(created))
	s.log.Info().Uint("simulation_id", simulationID).Int64("created", created).Msg("generated tree persisted")
	return nil
}

// ContinueRequest drives one conversation round.
type ContinueRequest struct {
	CaseID       uint
	SimulationID uint
	// MessageID, when set, is the node the new branches grow under.
	MessageID *uint
	// Refresh first deletes the node's existing subtree, so the round
	// replaces the old branches instead of adding to them.
	Refresh bool
}

// ContinueConversation runs a full round: resolve the case background,
// optionally clear the old subtree, race the generation, persist whatever
// came back (sentinel included) and return the provider-shaped payload.
func (s *Service) ContinueConversation(ctx context.Context, req ContinueRequest) (*Result, error) {
	c, err := s.cases.FindByID(ctx, req.CaseID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("case %d not found", req.CaseID))
	}
	background := legalcase.FormatBackground(c.Context)

	if req.Refresh && req.MessageID != nil {
		deleted, err := s.trees.DeleteSubtree(ctx, *req.MessageID)
		if err != nil {
			return nil, err
		}
		metrics.MessagesDeleted.WithLabelValues(metrics.KindSubtree).Add(float64(deleted))
	}

	history, err := s.conversationHistory(ctx, req.SimulationID, req.MessageID)
	if err != nil {
		return nil, err
	}

	var lastMessage string
	if req.MessageID != nil {
		if msg, err := s.msgRepo.FindByID(ctx, *req.MessageID); err == nil {
			lastMessage = msg.Content
		}
	}

	goal := defaultGoal
	if sim, err := s.sims.FindByID(ctx, req.SimulationID); err == nil {
		goal = sim.Brief
	}

	result := s.Generate(ctx, PromptInput{
		CaseBackground:     background,
		PreviousStatements: history,
		SimulationGoal:     goal,
		LastMessage:        lastMessage,
	})

	if err := s.Persist(ctx, req.SimulationID, &result.Tree, req.MessageID); err != nil {
		return nil, err
	}
	return result, nil
}

// conversationHistory renders the path (or whole tree) as the conversation
// JSON block the prompt embeds under [PREVIOUS STATEMENTS].
func (s *Service) conversationHistory(ctx context.Context, simulationID uint, messageID *uint) (string, error) {
	path, err := s.trees.Path(ctx, simulationID, messageID)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return "", nil
		}
		return "", err
	}

	type turn struct {
		Party     string `json:"party"`
		Statement string `json:"statement"`
	}
	turns := make([]turn, 0, len(path))
	for _, msg := range path {
		turns = append(turns, turn{Party: string(msg.Role), Statement: msg.Content})
	}
	raw, err := json.MarshalIndent(map[string][]turn{"conversation": turns}, "", "  ")
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to encode conversation history", err, "")
	}
	return string(raw), nil
}

func roleOrDefault(speaker string, fallback message.Role) message.Role {
	if speaker == "" {
		return fallback
	}
	return message.Role(speaker)
}
