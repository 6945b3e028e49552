package handlers

import (
	"context"

	"parley-server/services/negotiation-api/internal/domain/dialoguetree"
	"parley-server/services/negotiation-api/internal/domain/message"
	"parley-server/services/negotiation-api/internal/infrastructure/metrics"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/requests"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// DialogueSummarizer condenses free text into a short spoken line.
type DialogueSummarizer interface {
	SummarizeDialogue(ctx context.Context, text string, desiredWords int) (string, error)
}

const defaultSummaryWords = 15

// MessageHandler fronts the dialogue tree: traversal, selection, mutation
// and generation rounds.
type MessageHandler struct {
	trees      *message.Service
	generator  *dialoguetree.Service
	summarizer DialogueSummarizer
}

func NewMessageHandler(trees *message.Service, generator *dialoguetree.Service, summarizer DialogueSummarizer) *MessageHandler {
	return &MessageHandler{
		trees:      trees,
		generator:  generator,
		summarizer: summarizer,
	}
}

// ContinueConversation runs one generation round against the tree.
func (h *MessageHandler) ContinueConversation(ctx context.Context, req requests.ContinueConversationRequest) (*dialoguetree.Result, error) {
	return h.generator.ContinueConversation(ctx, dialoguetree.ContinueRequest{
		CaseID:       req.CaseID,
		SimulationID: req.TreeID,
		MessageID:    req.MessageID,
		Refresh:      req.Refresh,
	})
}

// NestedTree returns the whole tree as recursive children groups. An empty
// tree is NotFound, matching the collection semantics of the route.
func (h *MessageHandler) NestedTree(ctx context.Context, simulationID uint) ([]message.TreeJSON, error) {
	roots, err := h.trees.Nested(ctx, simulationID)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeNotFound,
			"no messages found for this simulation", nil, "")
	}
	return roots, nil
}

// Traversal returns the root-to-target path, or the whole tree depth-first
// when no target is given.
func (h *MessageHandler) Traversal(ctx context.Context, simulationID uint, messageID *uint) ([]*message.Message, error) {
	return h.trees.Path(ctx, simulationID, messageID)
}

// SelectedPath lists selected messages between two ids inclusive. Empty
// results are NotFound here.
func (h *MessageHandler) SelectedPath(ctx context.Context, startID, endID uint) ([]*message.Message, error) {
	selected, err := h.trees.SelectedRange(ctx, startID, endID)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeNotFound,
			"no selected messages found in this range", nil, "")
	}
	return selected, nil
}

// Children lists the direct children of a message; empty when none.
func (h *MessageHandler) Children(ctx context.Context, messageID uint) ([]*message.Message, error) {
	return h.trees.Children(ctx, messageID)
}

// Select marks a message as the chosen continuation.
func (h *MessageHandler) Select(ctx context.Context, messageID uint) (*message.Message, error) {
	return h.trees.Select(ctx, messageID)
}

// Trim deletes everything created after the message's direct children and
// returns the count.
func (h *MessageHandler) Trim(ctx context.Context, messageID uint) (int64, error) {
	deleted, err := h.trees.TrimAfterChildren(ctx, messageID)
	if err != nil {
		return 0, err
	}
	metrics.MessagesDeleted.WithLabelValues(metrics.KindTrim).Add(float64(deleted))
	return deleted, nil
}

// Create inserts a custom reply. Custom replies are selected on creation:
// typing one is choosing it.
func (h *MessageHandler) Create(ctx context.Context, req requests.CreateMessageRequest) (*message.Message, error) {
	created, err := h.trees.Create(ctx, &message.Message{
		SimulationID: req.SimulationID,
		ParentID:     req.ParentID,
		Content:      req.Content,
		Role:         message.Role(req.Role),
		Selected:     true,
	})
	if err != nil {
		return nil, err
	}
	metrics.MessagesCreated.WithLabelValues(metrics.SourceManual).Inc()
	return created, nil
}

// CreateSummarized condenses the user's input through the model and inserts
// the summary as a reply. When summarization returns nothing usable the raw
// input goes in instead.
func (h *MessageHandler) CreateSummarized(ctx context.Context, req requests.SummarizedMessageRequest) (*message.Message, error) {
	desired := req.DesiredLength
	if desired <= 0 {
		desired = defaultSummaryWords
	}

	content, err := h.summarizer.SummarizeDialogue(ctx, req.UserInput, desired)
	if err != nil || content == "" {
		content = req.UserInput
	}

	created, err := h.trees.Create(ctx, &message.Message{
		SimulationID: req.SimulationID,
		ParentID:     req.ParentID,
		Content:      content,
		Role:         message.Role(req.Role),
	})
	if err != nil {
		return nil, err
	}
	metrics.MessagesCreated.WithLabelValues(metrics.SourceSummarized).Inc()
	return created, nil
}
