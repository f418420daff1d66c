package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	profiles services.ProfileService
	svc      services.ResumeService
}

func NewResumeHandler(profiles services.ProfileService, svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{profiles: profiles, svc: svc}
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	const op = "ResumeHandler.Upload"

	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}

	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "Resume must be a PDF", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes), then hand the full stream on
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	head = head[:n]
	ct := http.DetectContentType(head)

	row, err := h.svc.Upload(c.Request.Context(), p.ID, ct, fh.Size, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

func (h *ResumeHandler) Download(c *gin.Context) {
	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return
	}

	url, err := h.svc.DownloadURL(c.Request.Context(), p.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
