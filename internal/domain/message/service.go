package message

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// Service owns the consistency rules of the dialogue tree: single active
// path, strictly increasing ids, no dangling parents. All structural
// mutations funnel through here so the per-simulation lock covers them.
type Service struct {
	repo  Repository
	tx    Transactor
	locks *treeLocks
	log   zerolog.Logger
}

func NewService(repo Repository, tx Transactor, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		tx:    tx,
		locks: newTreeLocks(),
		log:   log.With().Str("component", "message-service").Logger(),
	}
}

// Get returns a single message.
func (s *Service) Get(ctx context.Context, id uint) (*Message, error) {
	return s.repo.FindByID(ctx, id)
}

// Children returns the direct children of a message, empty when none exist
// or the message itself is unknown.
func (s *Service) Children(ctx context.Context, id uint) ([]*Message, error) {
	return s.repo.FindChildren(ctx, id)
}

// Tree returns all messages of a simulation in depth-first order, each
// branch exhausted before the next sibling.
func (s *Service) Tree(ctx context.Context, simulationID uint) ([]*Message, error) {
	messages, err := s.repo.FindBySimulation(ctx, simulationID)
	if err != nil {
		return nil, err
	}
	return Flatten(messages), nil
}

// Nested returns the simulation's messages as recursive {id, role, content,
// children} groups, rooted at each parentless message.
func (s *Service) Nested(ctx context.Context, simulationID uint) ([]TreeJSON, error) {
	messages, err := s.repo.FindBySimulation(ctx, simulationID)
	if err != nil {
		return nil, err
	}
	return BuildNested(messages), nil
}

// Path returns the root-to-target chain for messageID, or the whole tree in
// depth-first order when messageID is nil.
func (s *Service) Path(ctx context.Context, simulationID uint, messageID *uint) ([]*Message, error) {
	if messageID == nil {
		return s.Tree(ctx, simulationID)
	}
	return PathToRoot(ctx, s.repo, *messageID)
}

// SelectedRange returns all selected messages with start <= id <= end in id
// order. An empty result is not an error here; callers decide.
func (s *Service) SelectedRange(ctx context.Context, startID, endID uint) ([]*Message, error) {
	if startID > endID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"start_id must be <= end_id", nil, "")
	}
	return s.repo.FindSelectedInRange(ctx, startID, endID)
}

// Create inserts a manually written message. The parent, when given, must
// exist in the same simulation; the store never holds a dangling parent
// reference. Custom replies are selected on creation only when the caller
// says so (the UI marks typed replies as the chosen path immediately).
func (s *Service) Create(ctx context.Context, msg *Message) (*Message, error) {
	if !msg.Role.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unknown role %q", msg.Role), nil, "")
	}

	lock := s.locks.get(msg.SimulationID)
	lock.Lock()
	defer lock.Unlock()

	if msg.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *msg.ParentID)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
				fmt.Sprintf("parent message %d not found", *msg.ParentID))
		}
		if parent.SimulationID != msg.SimulationID {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("parent message %d belongs to simulation %d, not %d",
					parent.ID, parent.SimulationID, msg.SimulationID), nil, "")
		}
	}

	if msg.Selected {
		if err := s.checkSelectable(ctx, msg.SimulationID, msg.ParentID, 0); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Select marks a message as the chosen continuation of the active path.
//
// Legal only when the parent (if any) is already selected and no sibling is.
// There is deliberately no deselect: once a sibling is chosen the decision
// is final unless its branch is deleted.
func (s *Service) Select(ctx context.Context, id uint) (*Message, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("message %d not found", id))
	}

	lock := s.locks.get(msg.SimulationID)
	lock.Lock()
	defer lock.Unlock()

	if msg.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *msg.ParentID)
		if err != nil || !parent.Selected {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("cannot select message %d: its parent %d is not selected", id, *msg.ParentID), nil, "")
		}
	}

	if err := s.checkSelectable(ctx, msg.SimulationID, msg.ParentID, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.MarkSelected(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to mark message selected")
	}
	s.log.Debug().Uint("message_id", id).Uint("simulation_id", msg.SimulationID).Msg("message selected")
	return updated, nil
}

// checkSelectable fails when a sibling under the same parent is already
// selected. selfID is excluded so an existing row can re-check itself.
func (s *Service) checkSelectable(ctx context.Context, simulationID uint, parentID *uint, selfID uint) error {
	siblings, err := s.repo.FindSiblings(ctx, simulationID, parentID)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load siblings")
	}
	for _, sibling := range siblings {
		if sibling.ID != selfID && sibling.Selected {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("cannot select this message: sibling %d is already selected", sibling.ID), nil, "")
		}
	}
	return nil
}

// DeleteSubtree removes every descendant of the given message, leaving the
// message itself in place. Used before a refresh regeneration. The whole
// delete commits atomically.
func (s *Service) DeleteSubtree(ctx context.Context, id uint) (int64, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("message %d not found", id))
	}

	lock := s.locks.get(msg.SimulationID)
	lock.Lock()
	defer lock.Unlock()

	// Worklist walk instead of recursion; manual editing can produce trees
	// deeper than the generated three levels.
	var levels [][]uint
	frontier := []uint{id}
	for len(frontier) > 0 {
		var next []uint
		for _, parentID := range frontier {
			children, err := s.repo.FindChildren(ctx, parentID)
			if err != nil {
				return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to collect subtree")
			}
			for _, child := range children {
				next = append(next, child.ID)
			}
		}
		if len(next) > 0 {
			levels = append(levels, next)
		}
		frontier = next
	}

	var deleted int64
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		// Deepest level first so no row ever references a deleted parent.
		for i := len(levels) - 1; i >= 0; i-- {
			n, err := s.repo.DeleteByIDs(ctx, levels[i])
			if err != nil {
				return err
			}
			deleted += n
		}
		return nil
	})
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete subtree")
	}

	s.log.Info().Uint("message_id", id).Int64("deleted", deleted).Msg("subtree deleted")
	return deleted, nil
}

// TrimAfterChildren deletes every message of the tree created after the
// given message's direct children. The cutoff is the highest direct child
// id, or the message's own id when it has none. The cutoff is id-based
// across the whole tree, not subtree-scoped, so later-created branches
// elsewhere in the tree go too.
func (s *Service) TrimAfterChildren(ctx context.Context, id uint) (int64, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("message %d not found", id))
	}

	lock := s.locks.get(msg.SimulationID)
	lock.Lock()
	defer lock.Unlock()

	children, err := s.repo.FindChildren(ctx, id)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load children")
	}

	cutoff := msg.ID
	for _, child := range children {
		if child.ID > cutoff {
			cutoff = child.ID
		}
	}

	var deleted int64
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.DeleteAfter(ctx, msg.SimulationID, cutoff)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to trim tree")
	}

	s.log.Info().
		Uint("message_id", id).
		Uint("cutoff", cutoff).
		Int64("deleted", deleted).
		Msg("tree trimmed after children")
	return deleted, nil
}

// RunInTreeScope takes the simulation's write lock and runs fn inside one
// transaction. The generation orchestrator uses it to commit a multi-level
// insert as a unit.
func (s *Service) RunInTreeScope(ctx context.Context, simulationID uint, fn func(ctx context.Context) error) error {
	lock := s.locks.get(simulationID)
	lock.Lock()
	defer lock.Unlock()
	return s.tx.InTransaction(ctx, fn)
}

// ForgetTree drops the simulation's lock entry after the simulation itself
// is deleted.
func (s *Service) ForgetTree(simulationID uint) {
	s.locks.release(simulationID)
}
