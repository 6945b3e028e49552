package handlers

import (
	"parley-server/services/negotiation-api/internal/domain/bookmark"
	"parley-server/services/negotiation-api/internal/domain/dialoguetree"
	"parley-server/services/negotiation-api/internal/domain/legalcase"
	"parley-server/services/negotiation-api/internal/domain/message"
	"parley-server/services/negotiation-api/internal/domain/simulation"
	"parley-server/services/negotiation-api/internal/infrastructure/speech"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Messages    *MessageHandler
	Cases       *CaseHandler
	Simulations *SimulationHandler
	Bookmarks   *BookmarkHandler
	Audio       *AudioHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	messages *message.Service,
	generator *dialoguetree.Service,
	cases *legalcase.Service,
	simulations *simulation.Service,
	bookmarks *bookmark.Service,
	summarizer DialogueSummarizer,
	speechClient *speech.Client,
) *Provider {
	return &Provider{
		Messages:    NewMessageHandler(messages, generator, summarizer),
		Cases:       NewCaseHandler(cases),
		Simulations: NewSimulationHandler(simulations),
		Bookmarks:   NewBookmarkHandler(bookmarks),
		Audio:       NewAudioHandler(speechClient, messages),
	}
}
