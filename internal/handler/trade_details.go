package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// TradeDetailHandler manages the per-trade strategy checklist. A trade
// has at most one detail record.
type TradeDetailHandler struct {
	Repo repository.Repository
}

func (h *TradeDetailHandler) Register(r *gin.Engine) {
	r.POST("/api/trades/:id/details", h.create)
	r.GET("/api/trades/:id/details", h.get)
	r.PUT("/api/trades/:id/details", h.update)
}

type tradeDetailRequest struct {
	Step1Conditions string `json:"step_1_conditions"`
	Step2Bias       string `json:"step_2_bias"`
	Step3Narrative  string `json:"step_3_narrative"`
	Step4Execution  string `json:"step_4_execution"`
	Comments        string `json:"comments"`
}

func (h *TradeDetailHandler) ownedTrade(c *gin.Context) (uint64, bool) {
	user, ok := currentUser(c)
	if !ok {
		return 0, false
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid trade id", nil)
		return 0, false
	}
	trade, err := h.Repo.GetTradeByID(c.Request.Context(), id, user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return 0, false
	}
	if trade == nil {
		Error(c, http.StatusNotFound, "trade not found", nil)
		return 0, false
	}
	return id, true
}

func (h *TradeDetailHandler) create(c *gin.Context) {
	tradeID, ok := h.ownedTrade(c)
	if !ok {
		return
	}
	var req tradeDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	existing, err := h.Repo.GetTradeDetailByTradeID(c.Request.Context(), tradeID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if existing != nil {
		Error(c, http.StatusBadRequest, "trade details already exist for this trade", nil)
		return
	}
	detail := &models.TradeDetail{
		TradeID:         tradeID,
		Step1Conditions: req.Step1Conditions,
		Step2Bias:       req.Step2Bias,
		Step3Narrative:  req.Step3Narrative,
		Step4Execution:  req.Step4Execution,
		Comments:        req.Comments,
	}
	if err := h.Repo.InsertTradeDetail(c.Request.Context(), detail); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Created(c, detail)
}

func (h *TradeDetailHandler) get(c *gin.Context) {
	tradeID, ok := h.ownedTrade(c)
	if !ok {
		return
	}
	detail, err := h.Repo.GetTradeDetailByTradeID(c.Request.Context(), tradeID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if detail == nil {
		Error(c, http.StatusNotFound, "trade details not found", nil)
		return
	}
	Ok(c, detail, nil)
}

func (h *TradeDetailHandler) update(c *gin.Context) {
	tradeID, ok := h.ownedTrade(c)
	if !ok {
		return
	}
	var req tradeDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	detail, err := h.Repo.GetTradeDetailByTradeID(c.Request.Context(), tradeID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if detail == nil {
		Error(c, http.StatusNotFound, "trade details not found", nil)
		return
	}
	detail.Step1Conditions = req.Step1Conditions
	detail.Step2Bias = req.Step2Bias
	detail.Step3Narrative = req.Step3Narrative
	detail.Step4Execution = req.Step4Execution
	detail.Comments = req.Comments
	if err := h.Repo.SaveTradeDetail(c.Request.Context(), detail); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, detail, nil)
}
