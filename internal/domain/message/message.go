package message

import (
	"context"
)

// Role identifies who speaks a line in the dialogue tree.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RolePartyA    Role = "A"
	RolePartyB    Role = "B"
)

// Valid reports whether the role is one of the known speakers.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RolePartyA, RolePartyB:
		return true
	}
	return false
}

// Message is one utterance in a simulation's dialogue tree.
//
// IDs are assigned by the store in strictly increasing order and double as
// the creation-order timestamp; there is no separate created_at column.
// Selected messages form a single root-to-leaf chain per simulation (the
// active path).
type Message struct {
	ID           uint   `json:"id"`
	ParentID     *uint  `json:"parent_id"`
	Role         Role   `json:"role"`
	Content      string `json:"content"`
	Selected     bool   `json:"selected"`
	SimulationID uint   `json:"simulation_id"`
}

// IsRoot reports whether the message has no parent.
func (m *Message) IsRoot() bool {
	return m.ParentID == nil
}

// Repository exposes data access for messages. Create must assign ids that
// are strictly greater than every id already present, so id order is a
// reliable surrogate for creation order.
type Repository interface {
	Create(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id uint) (*Message, error)
	FindBySimulation(ctx context.Context, simulationID uint) ([]*Message, error)
	FindChildren(ctx context.Context, parentID uint) ([]*Message, error)
	// FindSiblings returns all messages sharing the parent (nil for roots)
	// within one simulation.
	FindSiblings(ctx context.Context, simulationID uint, parentID *uint) ([]*Message, error)
	FindSelectedInRange(ctx context.Context, startID, endID uint) ([]*Message, error)
	MarkSelected(ctx context.Context, id uint) (*Message, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	// DeleteAfter removes every message of the simulation with id > cutoff.
	DeleteAfter(ctx context.Context, simulationID uint, cutoff uint) (int64, error)
	CountBySimulation(ctx context.Context, simulationID uint) (int64, error)
}

// Transactor runs fn atomically; on error every write made inside fn is
// rolled back.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
