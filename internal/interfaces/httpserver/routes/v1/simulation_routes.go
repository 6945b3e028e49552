package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parley-server/services/negotiation-api/internal/interfaces/httpserver/handlers"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/requests"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/responses"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

func registerSimulationRoutes(router gin.IRouter, handler *handlers.SimulationHandler) {
	router.POST("/simulations", createSimulation(handler))
	router.GET("/simulations/:simulation_id", getSimulation(handler))
	router.DELETE("/simulations/:simulation_id", deleteSimulation(handler))
}

// createSimulation godoc
// @Summary      Start a new negotiation simulation
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateSimulationRequest  true  "Simulation details"
// @Success      201      {object}  simulation.Simulation
// @Failure      404      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/simulations [post]
func createSimulation(handler *handlers.SimulationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.CreateSimulationRequest
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

// getSimulation godoc
// @Summary      Fetch one simulation
// @Tags         simulations
// @Produce      json
// @Param        simulation_id  path      int  true  "Simulation ID"
// @Success      200            {object}  simulation.Simulation
// @Failure      404            {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/simulations/{simulation_id} [get]
func getSimulation(handler *handlers.SimulationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		simulationID, ok := uintParam(c, "simulation_id")
		if !ok {
			return
		}
		sim, err := handler.Get(c.Request.Context(), simulationID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, sim)
	}
}

// deleteSimulation godoc
// @Summary      Delete a simulation and its tree
// @Tags         simulations
// @Produce      json
// @Param        simulation_id  path      int  true  "Simulation ID"
// @Success      200            {object}  map[string]string
// @Failure      404            {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/simulations/{simulation_id} [delete]
func deleteSimulation(handler *handlers.SimulationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		simulationID, ok := uintParam(c, "simulation_id")
		if !ok {
			return
		}
		if err := handler.Delete(c.Request.Context(), simulationID); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "simulation deleted"})
	}
}
