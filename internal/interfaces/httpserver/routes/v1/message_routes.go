package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"parley-server/services/negotiation-api/internal/interfaces/httpserver/handlers"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/requests"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/responses"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

func registerMessageRoutes(router gin.IRouter, handler *handlers.MessageHandler) {
	router.POST("/continue-conversation", continueConversation(handler))
	router.GET("/trees/:simulation_id/messages", getTreeMessages(handler))
	router.GET("/trees/:simulation_id/messages/traversal", getTreeTraversal(handler))
	router.GET("/messages/selected-path", getSelectedPath(handler))
	router.DELETE("/messages/trim-after/:message_id", trimAfterChildren(handler))
	router.GET("/messages/:message_id/children", getChildren(handler))
	router.PATCH("/messages/:message_id/select", selectMessage(handler))
	router.POST("/messages", createMessage(handler))
	router.POST("/messages/summarized", createSummarizedMessage(handler))
}

// continueConversation godoc
// @Summary      Generate the next dialogue branches
// @Description  Races generation attempts and persists the winning tree; on total failure returns a sentinel tree with HTTP 200.
// @Tags         trees
// @Accept       json
// @Produce      json
// @Param        request  body      requests.ContinueConversationRequest  true  "Generation round"
// @Success      200      {object}  dialoguetree.Result
// @Failure      404      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/continue-conversation [post]
func continueConversation(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.ContinueConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "")
			return
		}
		result, err := handler.ContinueConversation(c.Request.Context(), req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// getTreeMessages godoc
// @Summary      Fetch a simulation's tree as nested JSON
// @Tags         trees
// @Produce      json
// @Param        simulation_id  path      int  true  "Simulation ID"
// @Success      200            {array}   message.TreeJSON
// @Failure      404            {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/trees/{simulation_id}/messages [get]
func getTreeMessages(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		simulationID, ok := uintParam(c, "simulation_id")
		if !ok {
			return
		}
		roots, err := handler.NestedTree(c.Request.Context(), simulationID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, roots)
	}
}

// getTreeTraversal godoc
// @Summary      Fetch a flat traversal of the tree
// @Description  Root-to-message path when message_id is given, otherwise the whole tree depth-first.
// @Tags         trees
// @Produce      json
// @Param        simulation_id  path      int  true   "Simulation ID"
// @Param        message_id     query     int  false  "Path target"
// @Success      200            {array}   message.Message
// @Router       /v1/trees/{simulation_id}/messages/traversal [get]
func getTreeTraversal(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		simulationID, ok := uintParam(c, "simulation_id")
		if !ok {
			return
		}
		messageID, ok := uintQuery(c, "message_id")
		if !ok {
			return
		}
		path, err := handler.Traversal(c.Request.Context(), simulationID, messageID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, path)
	}
}

// getSelectedPath godoc
// @Summary      List selected messages in an id range
// @Tags         messages
// @Produce      json
// @Param        start_id  query     int  true  "Range start (inclusive)"
// @Param        end_id    query     int  true  "Range end (inclusive)"
// @Success      200       {array}   message.Message
// @Failure      400       {object}  platformerrors.HTTPErrorResponse
// @Failure      404       {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/messages/selected-path [get]
func getSelectedPath(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		startID, ok := uintQuery(c, "start_id")
		if !ok {
			return
		}
		endID, ok := uintQuery(c, "end_id")
		if !ok {
			return
		}
		if startID == nil || endID == nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "start_id and end_id are required", "")
			return
		}
		selected, err := handler.SelectedPath(c.Request.Context(), *startID, *endID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, selected)
	}
}

// trimAfterChildren godoc
// @Summary      Delete everything created after a message's direct children
// @Tags         messages
// @Produce      json
// @Param        message_id  path      int  true  "Cutoff message"
// @Success      200         {object}  map[string]interface{}
// @Failure      404         {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/messages/trim-after/{message_id} [delete]
func trimAfterChildren(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID, ok := uintParam(c, "message_id")
		if !ok {
			return
		}
		deleted, err := handler.Trim(c.Request.Context(), messageID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"deleted_count": deleted,
			"message":       fmt.Sprintf("Deleted %d messages after message %d and its children.", deleted, messageID),
		})
	}
}

// getChildren godoc
// @Summary      List direct children of a message
// @Tags         messages
// @Produce      json
// @Param        message_id  path     int  true  "Parent message"
// @Success      200         {array}  message.Message
// @Router       /v1/messages/{message_id}/children [get]
func getChildren(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID, ok := uintParam(c, "message_id")
		if !ok {
			return
		}
		children, err := handler.Children(c.Request.Context(), messageID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, children)
	}
}

// selectMessage godoc
// @Summary      Mark a message as the chosen continuation
// @Description  Legal only when the parent is selected and no sibling is; there is no deselect.
// @Tags         messages
// @Produce      json
// @Param        message_id  path      int  true  "Message to select"
// @Success      200         {object}  message.Message
// @Failure      400         {object}  platformerrors.HTTPErrorResponse
// @Failure      404         {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/messages/{message_id}/select [patch]
func selectMessage(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID, ok := uintParam(c, "message_id")
		if !ok {
			return
		}
		selected, err := handler.Select(c.Request.Context(), messageID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, selected)
	}
}

// createMessage godoc
// @Summary      Insert a custom reply into the tree
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateMessageRequest  true  "New message"
// @Success      201      {object}  message.Message
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/messages [post]
func createMessage(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.CreateMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "")
			return
		}
		created, err := handler.Create(c.Request.Context(), req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// createSummarizedMessage godoc
// @Summary      Insert a reply summarized from free-form input
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        request  body      requests.SummarizedMessageRequest  true  "Input to summarize"
// @Success      201      {object}  message.Message
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/messages/summarized [post]
func createSummarizedMessage(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.SummarizedMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "")
			return
		}
		created, err := handler.CreateSummarized(c.Request.Context(), req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}
