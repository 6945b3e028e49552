package messagerepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"parley-server/services/negotiation-api/internal/domain/message"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe message store for tests and demos.
// Ids are handed out from a monotonically increasing counter, matching the
// bigserial behavior of the real store.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   uint
	messages map[uint]message.Message
}

var _ message.Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID:   1,
		messages: make(map[uint]message.Message),
	}
}

func (r *InMemoryRepository) Create(_ context.Context, msg *message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.nextID
	r.nextID++
	r.messages[msg.ID] = *msg
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id uint) (*message.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("message %d not found", id), nil, "")
	}
	return &msg, nil
}

func (r *InMemoryRepository) FindBySimulation(_ context.Context, simulationID uint) ([]*message.Message, error) {
	return r.collect(func(m message.Message) bool {
		return m.SimulationID == simulationID
	}), nil
}

func (r *InMemoryRepository) FindChildren(_ context.Context, parentID uint) ([]*message.Message, error) {
	return r.collect(func(m message.Message) bool {
		return m.ParentID != nil && *m.ParentID == parentID
	}), nil
}

func (r *InMemoryRepository) FindSiblings(_ context.Context, simulationID uint, parentID *uint) ([]*message.Message, error) {
	return r.collect(func(m message.Message) bool {
		if m.SimulationID != simulationID {
			return false
		}
		if parentID == nil {
			return m.ParentID == nil
		}
		return m.ParentID != nil && *m.ParentID == *parentID
	}), nil
}

func (r *InMemoryRepository) FindSelectedInRange(_ context.Context, startID, endID uint) ([]*message.Message, error) {
	return r.collect(func(m message.Message) bool {
		return m.Selected && m.ID >= startID && m.ID <= endID
	}), nil
}

func (r *InMemoryRepository) MarkSelected(ctx context.Context, id uint) (*message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("message %d not found", id), nil, "")
	}
	msg.Selected = true
	r.messages[id] = msg
	return &msg, nil
}

func (r *InMemoryRepository) DeleteByIDs(_ context.Context, ids []uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := r.messages[id]; ok {
			delete(r.messages, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *InMemoryRepository) DeleteAfter(_ context.Context, simulationID uint, cutoff uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, msg := range r.messages {
		if msg.SimulationID == simulationID && id > cutoff {
			delete(r.messages, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *InMemoryRepository) CountBySimulation(_ context.Context, simulationID uint) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, msg := range r.messages {
		if msg.SimulationID == simulationID {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryRepository) Exists(_ context.Context, id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.messages[id]
	return ok, nil
}

func (r *InMemoryRepository) collect(keep func(message.Message) bool) []*message.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*message.Message
	for _, msg := range r.messages {
		if keep(msg) {
			m := msg
			result = append(result, &m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// InMemoryTransactor snapshots the repository before fn and restores it on
// error, mirroring the rollback behavior of the database transactor.
type InMemoryTransactor struct {
	repo *InMemoryRepository
}

var _ message.Transactor = (*InMemoryTransactor)(nil)

func NewInMemoryTransactor(repo *InMemoryRepository) *InMemoryTransactor {
	return &InMemoryTransactor{repo: repo}
}

func (t *InMemoryTransactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.repo.mu.Lock()
	snapshot := make(map[uint]message.Message, len(t.repo.messages))
	for id, msg := range t.repo.messages {
		snapshot[id] = msg
	}
	nextID := t.repo.nextID
	t.repo.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.repo.mu.Lock()
		t.repo.messages = snapshot
		t.repo.nextID = nextID
		t.repo.mu.Unlock()
		return err
	}
	return nil
}
