package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"parley-server/services/negotiation-api/internal/interfaces/httpserver/handlers"
	"parley-server/services/negotiation-api/internal/interfaces/httpserver/responses"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all v1 routes under the /v1 prefix.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/v1")
	registerMessageRoutes(group, r.handlers.Messages)
	registerCaseRoutes(group, r.handlers.Cases)
	registerSimulationRoutes(group, r.handlers.Simulations)
	registerBookmarkRoutes(group, r.handlers.Bookmarks)
	registerAudioRoutes(group, r.handlers.Audio)
}

// uintParam parses a numeric path parameter, writing a 400 on failure.
func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, name+" must be a positive integer", "")
		return 0, false
	}
	return uint(value), true
}

// uintQuery parses an optional numeric query parameter.
func uintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, name+" must be a positive integer", "")
		return nil, false
	}
	v := uint(value)
	return &v, true
}
