package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/service"
)

type AnalysisHandler struct {
	Analytics *service.AnalyticsService
}

func (h *AnalysisHandler) Register(r *gin.Engine) {
	g := r.Group("/api/analysis")
	g.GET("/overview", h.overview)
	g.GET("/patterns", h.patterns)
	g.GET("/recommendations", h.recommendations)
	g.GET("/history", h.history)
}

func tradeFilter(c *gin.Context) service.TradeFilter {
	return service.TradeFilter{
		AccountID: uint64QueryPtr(c, "account_id"),
		Since:     timeQueryPtr(c, "start_date"),
		Until:     timeQueryPtr(c, "end_date"),
	}
}

func (h *AnalysisHandler) overview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := h.Analytics.Overview(c.Request.Context(), user.ID, tradeFilter(c))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

func (h *AnalysisHandler) patterns(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := h.Analytics.Patterns(c.Request.Context(), user.ID, tradeFilter(c))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

func (h *AnalysisHandler) recommendations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := h.Analytics.Recommendations(c.Request.Context(), user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

func (h *AnalysisHandler) history(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	analysisType := strings.TrimSpace(c.Query("analysis_type"))
	limit := intQuery(c, "limit", 10)
	items, err := h.Analytics.History(c.Request.Context(), user.ID, analysisType, limit)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"total": len(items)})
}
