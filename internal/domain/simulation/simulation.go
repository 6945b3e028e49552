package simulation

import (
	"context"
	"time"
)

// Simulation is one negotiation run against a case. Its dialogue tree lives
// in the message domain, keyed by the simulation id.
type Simulation struct {
	ID        uint      `json:"id"`
	Headline  string    `json:"headline"`
	Brief     string    `json:"brief"`
	CreatedAt time.Time `json:"created_at"`
	CaseID    uint      `json:"case_id"`
}

// Repository is the persistence surface for simulations.
type Repository interface {
	Create(ctx context.Context, sim *Simulation) error
	FindByID(ctx context.Context, id uint) (*Simulation, error)
	FindByCase(ctx context.Context, caseID uint) ([]*Simulation, error)
	CountByCase(ctx context.Context, caseID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// CaseDirectory answers whether a case exists. Implemented by the case
// repository; kept narrow so this package does not depend on the case domain.
type CaseDirectory interface {
	Exists(ctx context.Context, caseID uint) (bool, error)
}
