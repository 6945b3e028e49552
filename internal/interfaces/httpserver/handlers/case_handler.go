package handlers

import (
	"context"

	"parley-server/services/negotiation-api/internal/domain/legalcase"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/requests"
)

// CaseHandler fronts case management.
type CaseHandler struct {
	cases *legalcase.Service
}

func NewCaseHandler(cases *legalcase.Service) *CaseHandler {
	return &CaseHandler{cases: cases}
}

func (h *CaseHandler) Create(ctx context.Context, req requests.CreateCaseRequest) (*legalcase.CaseOverview, error) {
	return h.cases.Create(ctx, req.Name, req.PartyA, req.PartyB, req.Context)
}

func (h *CaseHandler) List(ctx context.Context) ([]*legalcase.CaseOverview, error) {
	return h.cases.List(ctx)
}

func (h *CaseHandler) Detail(ctx context.Context, id uint) (*legalcase.CaseDetail, error) {
	return h.cases.Detail(ctx, id)
}

func (h *CaseHandler) Update(ctx context.Context, id uint, req requests.UpdateCaseRequest) (*legalcase.CaseOverview, error) {
	return h.cases.UpdateBackground(ctx, id, legalcase.BackgroundPatch{
		PartyA:       req.PartyA,
		PartyB:       req.PartyB,
		KeyIssues:    req.KeyIssues,
		GeneralNotes: req.GeneralNotes,
	})
}

func (h *CaseHandler) Delete(ctx context.Context, id uint) error {
	return h.cases.Delete(ctx, id)
}
