package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

type GoalHandler struct {
	Repo  repository.Repository
	Goals *service.GoalService
}

func (h *GoalHandler) Register(r *gin.Engine) {
	g := r.Group("/api/goals")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

type createGoalRequest struct {
	PeriodType    string           `json:"period_type"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	ProfitTarget  *decimal.Decimal `json:"profit_target"`
	TradesTarget  *int             `json:"trades_target"`
	WinRateTarget *decimal.Decimal `json:"win_rate_target"`
	OtherTargets  string           `json:"other_targets"`
	Notes         string           `json:"notes"`
}

func (h *GoalHandler) create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	goal, err := h.Goals.Create(c.Request.Context(), user.ID, service.CreateGoalParams{
		PeriodType:    req.PeriodType,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		ProfitTarget:  req.ProfitTarget,
		TradesTarget:  req.TradesTarget,
		WinRateTarget: req.WinRateTarget,
		OtherTargets:  req.OtherTargets,
		Notes:         req.Notes,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Created(c, goal)
}

func (h *GoalHandler) list(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	params := repository.ListGoalsParams{
		UserID:    user.ID,
		StartDate: timeQueryPtr(c, "start_date"),
		EndDate:   timeQueryPtr(c, "end_date"),
	}
	if v := strings.TrimSpace(c.Query("period_type")); v != "" {
		params.PeriodType = &v
	}
	goals, err := h.Repo.ListGoals(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, goals, map[string]any{"total": len(goals)})
}

func (h *GoalHandler) get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid goal id", nil)
		return
	}
	goal, err := h.Repo.GetGoalByID(c.Request.Context(), id, user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if goal == nil {
		Error(c, http.StatusNotFound, "goal not found", nil)
		return
	}
	Ok(c, goal, nil)
}

type updateGoalRequest struct {
	PeriodType    *string          `json:"period_type"`
	StartDate     *time.Time       `json:"start_date"`
	EndDate       *time.Time       `json:"end_date"`
	ProfitTarget  *decimal.Decimal `json:"profit_target"`
	TradesTarget  *int             `json:"trades_target"`
	WinRateTarget *decimal.Decimal `json:"win_rate_target"`
	OtherTargets  *string          `json:"other_targets"`
	Notes         *string          `json:"notes"`
}

func (h *GoalHandler) update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid goal id", nil)
		return
	}
	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	goal, err := h.Goals.Update(c.Request.Context(), user.ID, id, service.UpdateGoalParams{
		PeriodType:    req.PeriodType,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		ProfitTarget:  req.ProfitTarget,
		TradesTarget:  req.TradesTarget,
		WinRateTarget: req.WinRateTarget,
		OtherTargets:  req.OtherTargets,
		Notes:         req.Notes,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, goal, nil)
}

func (h *GoalHandler) remove(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid goal id", nil)
		return
	}
	if err := h.Goals.Delete(c.Request.Context(), user.ID, id); err != nil {
		serviceError(c, err)
		return
	}
	NoContent(c)
}
