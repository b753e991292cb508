package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/pkg/apperror"
)

// Response is the uniform envelope for every endpoint.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) Response {
	return Response{Status: "success", Data: data}
}

func NewErrorResponse(message string) Response {
	return Response{Status: "error", Message: message}
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, NewSuccessResponse(data))
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, NewSuccessResponse(data))
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps an application error to its HTTP status. Internal causes are
// logged and replaced by a generic message so no driver or query detail
// reaches the client.
func Error(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Code == apperror.CodeInternal {
		log.Error().
			Err(appErr.Err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
}

// BadRequest reports a binding or validation failure.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, NewErrorResponse("invalid request: "+err.Error()))
}
