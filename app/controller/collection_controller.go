package controller

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"kardly-server/app/auth"
	"kardly-server/models"
	"kardly-server/service"
	"kardly-server/utils"
)

// CollectionController handles HTTP requests for the user's collection flags
type CollectionController struct {
	log     *zap.Logger
	service service.CollectionServiceInterface
}

// NewCollectionController creates a new CollectionController
func NewCollectionController(log *zap.Logger, svc service.CollectionServiceInterface) *CollectionController {
	return &CollectionController{log: log, service: svc}
}

// ToggleOwned handles POST /api/collection/toggle-owned
func (c *CollectionController) ToggleOwned(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, models.CollectionOwned, "Added to collection", "Removed from collection")
}

// ToggleWishlist handles POST /api/collection/toggle-wishlist
func (c *CollectionController) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, models.CollectionWishlisted, "Added to wishlist", "Removed from wishlist")
}

func (c *CollectionController) toggle(w http.ResponseWriter, r *http.Request, flag models.CollectionFlag, onMsg, offMsg string) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		_ = utils.WriteError(w, http.StatusUnauthorized, models.CodeNoToken, "Authentication token is required")
		return
	}

	var req models.ToggleCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteError(w, http.StatusBadRequest, models.CodeValidationError, "Invalid request parameters")
		return
	}

	status, err := c.service.Toggle(r.Context(), p.UserID, req.PhotocardID, flag)
	if err != nil {
		outcome := service.Classify(err)
		if outcome.Code == models.CodeServerError {
			c.log.Error("failed to toggle collection flag", zap.String("flag", string(flag)), zap.Error(err))
			outcome.Message = "Failed to update collection"
		}
		_ = utils.WriteOutcome(w, outcome)
		return
	}

	message := offMsg
	if status.Value {
		message = onMsg
	}
	_ = utils.WriteSuccess(w, http.StatusOK, utils.Envelope{
		"photocard_id": status.PhotocardID,
		string(flag):   status.Value,
		"message":      message,
	})
}
