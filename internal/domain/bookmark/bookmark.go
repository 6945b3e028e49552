package bookmark

import "context"

// Bookmark names one message inside a simulation so the user can jump back
// to it. One bookmark per (simulation, message) pair.
type Bookmark struct {
	ID           uint   `json:"id"`
	SimulationID uint   `json:"simulation_id"`
	MessageID    uint   `json:"message_id"`
	Name         string `json:"name"`
}

// Repository is the persistence surface for bookmarks.
type Repository interface {
	Create(ctx context.Context, b *Bookmark) error
	FindByID(ctx context.Context, id uint) (*Bookmark, error)
	FindBySimulation(ctx context.Context, simulationID uint) ([]*Bookmark, error)
	FindBySimulationAndMessage(ctx context.Context, simulationID, messageID uint) (*Bookmark, error)
	Delete(ctx context.Context, id uint) error
}

// SimulationChecker answers whether a simulation exists.
type SimulationChecker interface {
	Exists(ctx context.Context, simulationID uint) (bool, error)
}

// MessageChecker answers whether a message exists.
type MessageChecker interface {
	Exists(ctx context.Context, messageID uint) (bool, error)
}
