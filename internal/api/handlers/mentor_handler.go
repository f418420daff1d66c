package handlers

import (
	"net/http"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/gin-gonic/gin"
)

type MentorHandler struct {
	profiles services.ProfileService
	svc      services.MentorService
}

func NewMentorHandler(profiles services.ProfileService, svc services.MentorService) *MentorHandler {
	return &MentorHandler{profiles: profiles, svc: svc}
}

func (h *MentorHandler) Matches(c *gin.Context) {
	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return
	}

	res, err := h.svc.FindMentors(c.Request.Context(), p.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type RequestMentorshipRequest struct {
	MentorID        string   `json:"mentor_id"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}

func (h *MentorHandler) Request(c *gin.Context) {
	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return
	}

	var req RequestMentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MentorHandler.Request", "invalid request body", err))
		return
	}

	m, err := h.svc.RequestMentorship(c.Request.Context(), p.ID, req.MentorID, req.SimilarityScore)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *MentorHandler) List(c *gin.Context) {
	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return
	}

	rows, err := h.svc.ListRequested(c.Request.Context(), p.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mentorships": rows})
}
