package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
	"tradejournal/internal/storage"
)

type ScreenshotHandler struct {
	Repo    repository.Repository
	Uploads *storage.Local
	Logger  *zap.Logger
}

func (h *ScreenshotHandler) Register(r *gin.Engine) {
	r.POST("/api/trades/:id/screenshots", h.upload)
	r.GET("/api/trades/:id/screenshots", h.list)

	g := r.Group("/api/screenshots")
	g.GET("/:id", h.download)
	g.DELETE("/:id", h.remove)
}

func validScreenshotType(t string) bool {
	switch t {
	case models.ScreenshotHTF, models.ScreenshotBefore, models.ScreenshotAfter, models.ScreenshotOther:
		return true
	}
	return false
}

func (h *ScreenshotHandler) upload(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tradeID := uint64Param(c, "id")
	if tradeID == 0 {
		Error(c, http.StatusBadRequest, "invalid trade id", nil)
		return
	}
	trade, err := h.Repo.GetTradeByID(c.Request.Context(), tradeID, user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if trade == nil {
		Error(c, http.StatusNotFound, "trade not found", nil)
		return
	}

	screenshotType := strings.TrimSpace(c.PostForm("screenshot_type"))
	if !validScreenshotType(screenshotType) {
		Error(c, http.StatusBadRequest, "screenshot_type must be HTF, BEFORE, AFTER or OTHER", nil)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	if !storage.AllowedContentType(fileHeader.Header.Get("Content-Type")) {
		Error(c, http.StatusBadRequest, "only JPEG, PNG and GIF images are allowed", nil)
		return
	}
	if h.Uploads.MaxBytes > 0 && fileHeader.Size > h.Uploads.MaxBytes {
		Error(c, http.StatusBadRequest, "file too large", nil)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		Error(c, http.StatusBadRequest, "unreadable upload", nil)
		return
	}
	defer src.Close()

	path, err := h.Uploads.Save(user.ID, tradeID, fileHeader.Filename, src)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	shot := &models.TradeScreenshot{
		TradeID:        tradeID,
		ScreenshotType: screenshotType,
		FilePath:       path,
	}
	if err := h.Repo.InsertScreenshot(c.Request.Context(), shot); err != nil {
		if rmErr := h.Uploads.Remove(path); rmErr != nil && h.Logger != nil {
			h.Logger.Warn("remove orphaned upload", zap.String("path", path), zap.Error(rmErr))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Created(c, shot)
}

func (h *ScreenshotHandler) list(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tradeID := uint64Param(c, "id")
	if tradeID == 0 {
		Error(c, http.StatusBadRequest, "invalid trade id", nil)
		return
	}
	trade, err := h.Repo.GetTradeByID(c.Request.Context(), tradeID, user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if trade == nil {
		Error(c, http.StatusNotFound, "trade not found", nil)
		return
	}
	shots, err := h.Repo.ListScreenshotsByTradeID(c.Request.Context(), tradeID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, shots, map[string]any{"total": len(shots)})
}

func (h *ScreenshotHandler) download(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid screenshot id", nil)
		return
	}
	shot, err := h.Repo.GetScreenshotByID(c.Request.Context(), id, user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if shot == nil {
		Error(c, http.StatusNotFound, "screenshot not found", nil)
		return
	}
	if !h.Uploads.Exists(shot.FilePath) {
		Error(c, http.StatusNotFound, "screenshot file not found", nil)
		return
	}
	c.File(h.Uploads.Abs(shot.FilePath))
}

func (h *ScreenshotHandler) remove(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid screenshot id", nil)
		return
	}
	shot, err := h.Repo.GetScreenshotByID(c.Request.Context(), id, user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if shot == nil {
		Error(c, http.StatusNotFound, "screenshot not found", nil)
		return
	}
	if err := h.Uploads.Remove(shot.FilePath); err != nil && h.Logger != nil {
		h.Logger.Warn("remove screenshot file", zap.String("path", shot.FilePath), zap.Error(err))
	}
	if err := h.Repo.DeleteScreenshot(c.Request.Context(), id); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	NoContent(c)
}
