package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"parley-server/services/negotiation-api/internal/config"
	"parley-server/services/negotiation-api/internal/utils/httpclients"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// Turn is one spoken line of a conversation to synthesize.
type Turn struct {
	Party     string
	Statement string
}

// Client wraps the audio-capable chat endpoints of the Boson API. The
// OpenAI-style SDK has no audio content parts, so this speaks the wire
// format directly.
type Client struct {
	http          *resty.Client
	transcription string
	synthesis     string
	log           zerolog.Logger
}

func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	client := httpclients.NewClient("BosonAudioClient")
	client.SetBaseURL(cfg.BosonBaseURL)
	if strings.TrimSpace(cfg.BosonAPIKey) != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.BosonAPIKey))
	}
	return &Client{
		http:          client,
		transcription: cfg.TranscriptionModel,
		synthesis:     cfg.SynthesisModel,
		log:           log.With().Str("component", "speech-client").Logger(),
	}
}

type contentPart struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	InputAudio *inputAudio `json:"input_audio,omitempty"`
}

type inputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Modalities          []string      `json:"modalities,omitempty"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
	Temperature         float64       `json:"temperature"`
	TopP                float64       `json:"top_p,omitempty"`
	Stop                []string      `json:"stop,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Audio   *struct {
				Data string `json:"data"`
			} `json:"audio"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe turns uploaded audio into text via the understanding model.
func (c *Client) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	if format == "" {
		format = "wav"
	}
	req := chatRequest{
		Model: c.transcription,
		Messages: []chatMessage{
			{Role: "system", Content: "Transcribe this audio for me."},
			{Role: "user", Content: []contentPart{{
				Type: "input_audio",
				InputAudio: &inputAudio{
					Data:   base64.StdEncoding.EncodeToString(audio),
					Format: format,
				},
			}}},
		},
		MaxCompletionTokens: 256,
		Temperature:         0.0,
	}

	resp, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Message.Content, nil
}

// Synthesize renders a conversation as speech, alternating two voices by
// turn, and returns the raw audio bytes.
func (c *Client) Synthesize(ctx context.Context, turns []Turn) ([]byte, error) {
	var script strings.Builder
	speaker := 0
	for _, turn := range turns {
		statement := strings.TrimSpace(turn.Statement)
		if statement == "" {
			continue
		}
		fmt.Fprintf(&script, "[SPEAKER%d] %s\n", speaker, statement)
		speaker = 1 - speaker
	}
	if script.Len() == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation,
			"nothing to synthesize", nil, "")
	}

	system := "You are an AI assistant designed to convert text into speech.\n" +
		"If the user's message includes a [SPEAKER*] tag, do not read out the tag and generate speech for the following text, using the specified voice.\n" +
		"If no speaker tag is present, select a suitable voice on your own.\n\n" +
		"<|scene_desc_start|>\nAudio is recorded from a quiet room.\n<|scene_desc_end|>"

	req := chatRequest{
		Model: c.synthesis,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: script.String()},
		},
		Modalities:          []string{"text", "audio"},
		MaxCompletionTokens: 4096,
		Temperature:         1.0,
		TopP:                0.95,
		Stop:                []string{"<|eot_id|>", "<|end_of_text|>", "<|audio_eos|>"},
	}

	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Choices[0].Message.Audio == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"synthesis response carried no audio", nil, "")
	}
	audio, err := base64.StdEncoding.DecodeString(resp.Choices[0].Message.Audio.Data)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"failed to decode synthesized audio", err, "")
	}
	return audio, nil
}

func (c *Client) post(ctx context.Context, req chatRequest) (*chatResponse, error) {
	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"audio model call failed", err, "")
	}
	if resp.IsError() {
		msg := fmt.Sprintf("audio model returned status %d", resp.StatusCode())
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			msg, nil, "")
	}
	if len(out.Choices) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"audio model returned no choices", nil, "")
	}
	return &out, nil
}
