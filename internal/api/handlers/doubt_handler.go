package handlers

import (
	"net/http"
	"strconv"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/gin-gonic/gin"
)

type DoubtHandler struct {
	profiles services.ProfileService
	svc      services.DoubtService
}

func NewDoubtHandler(profiles services.ProfileService, svc services.DoubtService) *DoubtHandler {
	return &DoubtHandler{profiles: profiles, svc: svc}
}

type CreateDoubtRequest struct {
	DoubtText string `json:"doubt_text"`
	Subject   string `json:"subject"`
}

// Create answers inline, or queues the doubt when ?async=true.
func (h *DoubtHandler) Create(c *gin.Context) {
	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return
	}

	var req CreateDoubtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DoubtHandler.Create", "invalid request body", err))
		return
	}

	async, _ := strconv.ParseBool(c.Query("async"))
	if async {
		sub, err := h.svc.Submit(c.Request.Context(), p.ID, req.DoubtText, req.Subject)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, sub)
		return
	}

	ans, err := h.svc.Ask(c.Request.Context(), p.ID, req.DoubtText, req.Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ans)
}

type SuggestMentorsRequest struct {
	Text string `json:"text"`
}

func (h *DoubtHandler) Suggest(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req SuggestMentorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DoubtHandler.Suggest", "invalid request body", err))
		return
	}

	mentors, err := h.svc.SuggestMentorsForDoubt(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggested_mentors": mentors})
}

func (h *DoubtHandler) Get(c *gin.Context) {
	d, ok := h.ownedDoubt(c, "DoubtHandler.Get")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DoubtHandler) Job(c *gin.Context) {
	d, ok := h.ownedDoubt(c, "DoubtHandler.Job")
	if !ok {
		return
	}

	job, err := h.svc.LatestJob(c.Request.Context(), d.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *DoubtHandler) ownedDoubt(c *gin.Context, op string) (*models.Doubt, bool) {
	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return nil, false
	}

	d, err := h.svc.Get(c.Request.Context(), c.Param("doubt_id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if d.ProfileID != p.ID {
		writeError(c, utils.E(utils.CodeForbidden, op, "forbidden", nil))
		return nil, false
	}
	return d, true
}
