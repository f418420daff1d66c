package handlers

import (
	"errors"
	"net/http"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// requireProfile resolves the caller's profile; most routes act on behalf of
// a profile rather than the raw auth subject.
func requireProfile(c *gin.Context, profiles services.ProfileService) (*models.Profile, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return nil, false
	}

	p, err := profiles.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return p, true
}
