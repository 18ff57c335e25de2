package controller

import (
	"context"
	"net/http"
	"time"

	"kardly-server/models"
	"kardly-server/utils"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthController handles GET /health
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health reports whether the server and its database are reachable
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		_ = utils.WriteError(w, http.StatusServiceUnavailable, models.CodeDatabaseError, "Database unavailable")
		return
	}
	_ = utils.WriteSuccess(w, http.StatusOK, utils.Envelope{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
