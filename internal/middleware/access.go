package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/handler"
)

// Guard enforces row-level access on routes addressing one record. The rule
// lives on the route table, not in handlers, so a handler cannot forget it.
// The id is taken from the named path parameter.
func Guard(checker *access.Checker, resource access.Resource, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
			return
		}

		id, err := uuid.Parse(c.Param(param))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, handler.NewErrorResponse("invalid id"))
			return
		}

		if err := checker.Can(c.Request.Context(), identity, resource, id); err != nil {
			handler.Error(c, err)
			return
		}
		c.Next()
	}
}
