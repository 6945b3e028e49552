package responses

import (
	"github.com/gin-gonic/gin"

	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// HandleError writes err as the standard error envelope, with the HTTP
// status derived from the platform error type.
func HandleError(c *gin.Context, err error) {
	perr := platformerrors.AsError(c.Request.Context(), platformerrors.LayerRoute, err, err.Error())
	status, body := platformerrors.NewHTTPErrorResponse(perr)
	c.JSON(status, body)
}

// HandleNewError builds a fresh platform error and writes it.
func HandleNewError(c *gin.Context, errType platformerrors.ErrorType, message string, code string) {
	err := platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, errType, message, nil, code)
	status, body := platformerrors.NewHTTPErrorResponse(err)
	c.JSON(status, body)
}
