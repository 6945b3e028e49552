package handlers

import (
	"context"

	"parley-server/services/negotiation-api/internal/domain/message"
	"parley-server/services/negotiation-api/internal/infrastructure/speech"
)

// AudioHandler glues the speech client to the dialogue tree: transcribing
// uploaded audio and voicing conversation paths.
type AudioHandler struct {
	speech *speech.Client
	trees  *message.Service
}

func NewAudioHandler(speechClient *speech.Client, trees *message.Service) *AudioHandler {
	return &AudioHandler{
		speech: speechClient,
		trees:  trees,
	}
}

// Transcribe turns an uploaded recording into text.
func (h *AudioHandler) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	return h.speech.Transcribe(ctx, audio, format)
}

// ConversationAudio voices the root-to-message path of a simulation and
// returns the raw audio bytes.
func (h *AudioHandler) ConversationAudio(ctx context.Context, simulationID, endMessageID uint) ([]byte, error) {
	path, err := h.trees.Path(ctx, simulationID, &endMessageID)
	if err != nil {
		return nil, err
	}

	turns := make([]speech.Turn, 0, len(path))
	for _, msg := range path {
		turns = append(turns, speech.Turn{Party: string(msg.Role), Statement: msg.Content})
	}
	return h.speech.Synthesize(ctx, turns)
}
