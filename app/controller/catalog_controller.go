package controller

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"kardly-server/models"
	"kardly-server/service"
	"kardly-server/utils"
)

// CatalogController handles HTTP requests for groups, members and albums
type CatalogController struct {
	log     *zap.Logger
	service service.CatalogServiceInterface
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(log *zap.Logger, svc service.CatalogServiceInterface) *CatalogController {
	return &CatalogController{log: log, service: svc}
}

// CreateGroup handles POST /api/groups/create
// Returns 201 for a new group and 200 with already_exists=true for an existing one
func (c *CatalogController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeFailure(w, service.NewInputError("Invalid group data"), "Failed to create group")
		return
	}

	group, existed, err := c.service.CreateGroup(r.Context(), req)
	if err != nil {
		c.writeFailure(w, err, "Failed to create group")
		return
	}

	_ = utils.WriteSuccess(w, createdStatus(existed), utils.Envelope{
		"group_id":       group.ID,
		"name":           group.Name,
		"image_url":      group.ImageURL,
		"is_active":      group.IsActive,
		"created_at":     group.CreatedAt,
		"already_exists": existed,
	})
}

// CreateMember handles POST /api/members/create
func (c *CatalogController) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeFailure(w, service.NewInputError("Invalid member data"), "Failed to create member")
		return
	}

	member, existed, err := c.service.CreateMember(r.Context(), req)
	if err != nil {
		c.writeFailure(w, err, "Failed to create member")
		return
	}

	_ = utils.WriteSuccess(w, createdStatus(existed), utils.Envelope{
		"member_id":      member.ID,
		"group_id":       member.GroupID,
		"name":           member.Name,
		"stage_name":     member.StageName,
		"image_url":      member.ImageURL,
		"is_active":      member.IsActive,
		"created_at":     member.CreatedAt,
		"already_exists": existed,
	})
}

// CreateAlbum handles POST /api/albums/create
func (c *CatalogController) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeFailure(w, service.NewInputError("Invalid album data"), "Failed to create album")
		return
	}

	album, existed, err := c.service.CreateAlbum(r.Context(), req)
	if err != nil {
		c.writeFailure(w, err, "Failed to create album")
		return
	}

	_ = utils.WriteSuccess(w, createdStatus(existed), utils.Envelope{
		"album_id":        album.ID,
		"group_id":        album.GroupID,
		"title":           album.Title,
		"cover_image_url": album.CoverImageURL,
		"created_at":      album.CreatedAt,
		"already_exists":  existed,
	})
}

// writeFailure replaces the generic server error message with one naming the operation
func (c *CatalogController) writeFailure(w http.ResponseWriter, err error, serverMessage string) {
	outcome := service.Classify(err)
	if outcome.Code == models.CodeServerError {
		c.log.Error(serverMessage, zap.Error(err))
		outcome.Message = serverMessage
	}
	_ = utils.WriteOutcome(w, outcome)
}

func createdStatus(existed bool) int {
	if existed {
		return http.StatusOK
	}
	return http.StatusCreated
}
