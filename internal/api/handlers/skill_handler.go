package handlers

import (
	"net/http"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	profiles services.ProfileService
	svc      services.SkillService
}

func NewSkillHandler(profiles services.ProfileService, svc services.SkillService) *SkillHandler {
	return &SkillHandler{profiles: profiles, svc: svc}
}

type skillsResponse struct {
	Skills []string `json:"skills"`
}

func (h *SkillHandler) List(c *gin.Context) {
	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return
	}

	rows, err := h.svc.ListSkills(c.Request.Context(), p.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := skillsResponse{Skills: make([]string, 0, len(rows))}
	for _, s := range rows {
		out.Skills = append(out.Skills, s.SkillName)
	}
	c.JSON(http.StatusOK, out)
}

type ReplaceSkillsRequest struct {
	Skills []string `json:"skills"`
}

func (h *SkillHandler) Replace(c *gin.Context) {
	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return
	}

	var req ReplaceSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SkillHandler.Replace", "invalid request body", err))
		return
	}

	rows, err := h.svc.ReplaceSkills(c.Request.Context(), p.ID, req.Skills)
	if err != nil {
		writeError(c, err)
		return
	}

	out := skillsResponse{Skills: make([]string, 0, len(rows))}
	for _, s := range rows {
		out.Skills = append(out.Skills, s.SkillName)
	}
	c.JSON(http.StatusOK, out)
}

// Reembed is admin-only; the profile comes from the path.
func (h *SkillHandler) Reembed(c *gin.Context) {
	profileID := c.Param("profile_id")
	if profileID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SkillHandler.Reembed", "missing profile_id", nil))
		return
	}

	rows, err := h.svc.Reembed(c.Request.Context(), profileID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile_id": profileID, "reembedded": len(rows)})
}
