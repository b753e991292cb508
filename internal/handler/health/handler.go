package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	db *sqlx.DB
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{db: db}
}

// Health reports liveness plus a database ping.
func (h *Handler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unreachable"
	}

	c.JSON(status, gin.H{
		"status":   "ok",
		"database": dbStatus,
	})
}
