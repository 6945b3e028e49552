package v1

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"parley-server/services/negotiation-api/internal/interfaces/httpserver/handlers"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/responses"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

func registerAudioRoutes(router gin.IRouter, handler *handlers.AudioHandler) {
	router.POST("/audio/transcriptions", transcribeAudio(handler))
	router.GET("/audio/conversation/:simulation_id", conversationAudio(handler))
}

// transcribeAudio godoc
// @Summary      Transcribe an uploaded recording
// @Tags         audio
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio_file  formData  file  true  "Audio recording"
// @Success      200         {object}  map[string]string
// @Failure      400         {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/audio/transcriptions [post]
func transcribeAudio(handler *handlers.AudioHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("audio_file")
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "audio_file is required", "")
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, "audio/") {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "file must be an audio file", "")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil {
			responses.HandleError(c, err)
			return
		}

		format := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
		text, err := handler.Transcribe(c.Request.Context(), audio, format)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": text})
	}
}

// conversationAudio godoc
// @Summary      Voice a conversation path as audio
// @Tags         audio
// @Produce      audio/wav
// @Param        simulation_id   path   int  true  "Simulation ID"
// @Param        end_message_id  query  int  true  "Path endpoint"
// @Success      200  {file}  binary
// @Failure      404  {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/audio/conversation/{simulation_id} [get]
func conversationAudio(handler *handlers.AudioHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		simulationID, ok := uintParam(c, "simulation_id")
		if !ok {
			return
		}
		endMessageID, ok := uintQuery(c, "end_message_id")
		if !ok {
			return
		}
		if endMessageID == nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "end_message_id is required", "")
			return
		}

		audio, err := handler.ConversationAudio(c.Request.Context(), simulationID, *endMessageID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.Data(http.StatusOK, "audio/wav", audio)
	}
}
