package handlers

import (
	"context"

	"parley-server/services/negotiation-api/internal/domain/simulation"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/requests"
)

// SimulationHandler fronts simulation lifecycle.
type SimulationHandler struct {
	simulations *simulation.Service
}

func NewSimulationHandler(simulations *simulation.Service) *SimulationHandler {
	return &SimulationHandler{simulations: simulations}
}

func (h *SimulationHandler) Create(ctx context.Context, req requests.CreateSimulationRequest) (*simulation.Simulation, error) {
	return h.simulations.Create(ctx, req.Headline, req.Brief, req.CaseID)
}

func (h *SimulationHandler) Get(ctx context.Context, id uint) (*simulation.Simulation, error) {
	return h.simulations.Get(ctx, id)
}

func (h *SimulationHandler) Delete(ctx context.Context, id uint) error {
	return h.simulations.Delete(ctx, id)
}
