package handlers

import (
	"net/http"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	profiles services.ProfileService
	svc      services.TeamService
}

func NewTeamHandler(profiles services.ProfileService, svc services.TeamService) *TeamHandler {
	return &TeamHandler{profiles: profiles, svc: svc}
}

type BuildTeamRequest struct {
	RequiredSkills []string `json:"required_skills"`
	TeamSize       int      `json:"team_size"`
}

func (h *TeamHandler) Build(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req BuildTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TeamHandler.Build", "invalid request body", err))
		return
	}

	res, err := h.svc.BuildTeam(c.Request.Context(), req.RequiredSkills, req.TeamSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type savedTeamResponse struct {
	Team    *models.Team        `json:"team"`
	Members []models.TeamMember `json:"members"`
}

func (h *TeamHandler) Save(c *gin.Context) {
	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return
	}

	var req services.SaveTeamInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TeamHandler.Save", "invalid request body", err))
		return
	}

	team, members, err := h.svc.SaveTeam(c.Request.Context(), p.ID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, savedTeamResponse{Team: team, Members: members})
}
