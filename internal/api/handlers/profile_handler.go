package handlers

import (
	"net/http"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

type UpsertProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Bio        *string `json:"bio,omitempty"`
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.Upsert", "invalid request body", err))
		return
	}

	// Load existing (if not found => create new)
	existing, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		if !utils.IsCode(err, utils.CodeNotFound) {
			writeError(c, err)
			return
		}
		existing = &models.Profile{UserID: userID}
	}

	// Apply partial updates
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Department != nil {
		existing.Department = *req.Department
	}
	if req.Year != nil {
		existing.Year = *req.Year
	}
	if req.Bio != nil {
		existing.Bio = req.Bio
	}

	p, err := h.svc.Upsert(c.Request.Context(), existing)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
