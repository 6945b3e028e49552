package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parley-server/services/negotiation-api/internal/interfaces/httpserver/handlers"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/requests"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/responses"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

func registerBookmarkRoutes(router gin.IRouter, handler *handlers.BookmarkHandler) {
	router.POST("/bookmarks", createBookmark(handler))
	router.GET("/bookmarks/:simulation_id", listBookmarks(handler))
	router.DELETE("/bookmarks/:bookmark_id", deleteBookmark(handler))
}

// createBookmark godoc
// @Summary      Bookmark a message in a simulation
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateBookmarkRequest  true  "Bookmark details"
// @Success      201      {object}  bookmark.Bookmark
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      404      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/bookmarks [post]
func createBookmark(handler *handlers.BookmarkHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.CreateBookmarkRequest
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

// listBookmarks godoc
// @Summary      List a simulation's bookmarks
// @Tags         bookmarks
// @Produce      json
// @Param        simulation_id  path     int  true  "Simulation ID"
// @Success      200            {array}  bookmark.Bookmark
// @Router       /v1/bookmarks/{simulation_id} [get]
func listBookmarks(handler *handlers.BookmarkHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		simulationID, ok := uintParam(c, "simulation_id")
		if !ok {
			return
		}
		bookmarks, err := handler.ListBySimulation(c.Request.Context(), simulationID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, bookmarks)
	}
}

// deleteBookmark godoc
// @Summary      Delete a bookmark
// @Tags         bookmarks
// @Produce      json
// @Param        bookmark_id  path      int  true  "Bookmark ID"
// @Success      200          {object}  map[string]string
// @Failure      404          {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/bookmarks/{bookmark_id} [delete]
func deleteBookmark(handler *handlers.BookmarkHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookmarkID, ok := uintParam(c, "bookmark_id")
		if !ok {
			return
		}
		if err := handler.Delete(c.Request.Context(), bookmarkID); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "bookmark deleted"})
	}
}
