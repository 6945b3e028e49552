package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parley-server/services/negotiation-api/internal/interfaces/httpserver/handlers"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/requests"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/responses"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

func registerCaseRoutes(router gin.IRouter, handler *handlers.CaseHandler) {
	router.POST("/cases", createCase(handler))
	router.GET("/cases", listCases(handler))
	router.GET("/cases/:case_id", getCase(handler))
	router.PATCH("/cases/:case_id", updateCase(handler))
	router.DELETE("/cases/:case_id", deleteCase(handler))
}

// createCase godoc
// @Summary      Open a new legal case
// @Tags         cases
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateCaseRequest  true  "Case details"
// @Success      201      {object}  legalcase.CaseOverview
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/cases [post]
func createCase(handler *handlers.CaseHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.CreateCaseRequest
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

// listCases godoc
// @Summary      List all cases with their simulation counts
// @Tags         cases
// @Produce      json
// @Success      200  {array}  legalcase.CaseOverview
// @Router       /v1/cases [get]
func listCases(handler *handlers.CaseHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		cases, err := handler.List(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, cases)
	}
}

// getCase godoc
// @Summary      Fetch one case with background and simulations
// @Tags         cases
// @Produce      json
// @Param        case_id  path      int  true  "Case ID"
// @Success      200      {object}  legalcase.CaseDetail
// @Failure      404      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/cases/{case_id} [get]
func getCase(handler *handlers.CaseHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, ok := uintParam(c, "case_id")
		if !ok {
			return
		}
		detail, err := handler.Detail(c.Request.Context(), caseID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// updateCase godoc
// @Summary      Patch a case's background
// @Description  Merges the given fields into the background document and refreshes the summary.
// @Tags         cases
// @Accept       json
// @Produce      json
// @Param        case_id  path      int                         true  "Case ID"
// @Param        request  body      requests.UpdateCaseRequest  true  "Fields to merge"
// @Success      200      {object}  legalcase.CaseOverview
// @Failure      404      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/cases/{case_id} [patch]
func updateCase(handler *handlers.CaseHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, ok := uintParam(c, "case_id")
		if !ok {
			return
		}
		var req requests.UpdateCaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "")
			return
		}
		updated, err := handler.Update(c.Request.Context(), caseID, req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// deleteCase godoc
// @Summary      Delete a case and everything under it
// @Tags         cases
// @Produce      json
// @Param        case_id  path      int  true  "Case ID"
// @Success      200      {object}  map[string]string
// @Failure      404      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/cases/{case_id} [delete]
func deleteCase(handler *handlers.CaseHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, ok := uintParam(c, "case_id")
		if !ok {
			return
		}
		if err := handler.Delete(c.Request.Context(), caseID); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "case deleted"})
	}
}
