package routes

import (
	"net/http"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/api/handlers"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	JWT middleware.JWTConfig

	Profile *handlers.ProfileHandler
	Skill   *handlers.SkillHandler
	Resume  *handlers.ResumeHandler
	Mentor  *handlers.MentorHandler
	Team    *handlers.TeamHandler
	Doubt   *handlers.DoubtHandler
	WS      *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.JWT))

	auth.GET("/profile/me", d.Profile.Me)
	auth.PUT("/profile", d.Profile.Upsert)

	auth.GET("/profile/skills", d.Skill.List)
	auth.PUT("/profile/skills", d.Skill.Replace)

	auth.POST("/profile/resume", d.Resume.Upload)
	auth.GET("/profile/resume", d.Resume.Download)

	auth.GET("/mentors/matches", d.Mentor.Matches)
	auth.POST("/mentorships", d.Mentor.Request)
	auth.GET("/mentorships", d.Mentor.List)

	auth.POST("/teams/build", d.Team.Build)
	auth.POST("/teams", d.Team.Save)

	auth.POST("/doubts", d.Doubt.Create)
	auth.POST("/doubts/suggest-mentors", d.Doubt.Suggest)
	auth.GET("/doubts/:doubt_id", d.Doubt.Get)
	auth.GET("/doubts/:doubt_id/job", d.Doubt.Job)

	// WebSocket
	auth.GET("/ws/doubts/:doubt_id", d.WS.DoubtWS)

	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/profiles/:profile_id/skills/reembed", d.Skill.Reembed)
}
