package handlers

import (
	"context"

	"parley-server/services/negotiation-api/internal/domain/bookmark"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/requests"
)

// BookmarkHandler fronts bookmark management.
type BookmarkHandler struct {
	bookmarks *bookmark.Service
}

func NewBookmarkHandler(bookmarks *bookmark.Service) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

func (h *BookmarkHandler) Create(ctx context.Context, req requests.CreateBookmarkRequest) (*bookmark.Bookmark, error) {
	return h.bookmarks.Create(ctx, req.SimulationID, req.MessageID, req.Name)
}

func (h *BookmarkHandler) ListBySimulation(ctx context.Context, simulationID uint) ([]*bookmark.Bookmark, error) {
	return h.bookmarks.ListBySimulation(ctx, simulationID)
}

func (h *BookmarkHandler) Delete(ctx context.Context, id uint) error {
	return h.bookmarks.Delete(ctx, id)
}
