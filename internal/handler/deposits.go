package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

type DepositHandler struct {
	Repo     repository.Repository
	Deposits *service.DepositService
}

func (h *DepositHandler) Register(r *gin.Engine) {
	r.POST("/api/accounts/:id/deposits", h.create)
	r.GET("/api/accounts/:id/deposits", h.list)

	g := r.Group("/api/deposits")
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

type createDepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Notes  string          `json:"notes"`
}

func (h *DepositHandler) create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	accountID := uint64Param(c, "id")
	if accountID == 0 {
		Error(c, http.StatusBadRequest, "invalid account id", nil)
		return
	}
	var req createDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	deposit, err := h.Deposits.Create(c.Request.Context(), user.ID, accountID, service.CreateDepositParams{
		Amount: req.Amount,
		Date:   req.Date,
		Notes:  req.Notes,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Created(c, deposit)
}

func (h *DepositHandler) list(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	accountID := uint64Param(c, "id")
	if accountID == 0 {
		Error(c, http.StatusBadRequest, "invalid account id", nil)
		return
	}
	account, err := h.Repo.GetAccountByID(c.Request.Context(), accountID, user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if account == nil {
		Error(c, http.StatusNotFound, "account not found", nil)
		return
	}
	deposits, err := h.Repo.ListDepositsByAccountID(c.Request.Context(), accountID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, deposits, map[string]any{"total": len(deposits)})
}

func (h *DepositHandler) get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid deposit id", nil)
		return
	}
	deposit, err := h.Repo.GetDepositByID(c.Request.Context(), id, user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if deposit == nil {
		Error(c, http.StatusNotFound, "deposit not found", nil)
		return
	}
	Ok(c, deposit, nil)
}

type updateDepositRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Date   *time.Time       `json:"date"`
	Notes  *string          `json:"notes"`
}

func (h *DepositHandler) update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid deposit id", nil)
		return
	}
	var req updateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	deposit, err := h.Deposits.Update(c.Request.Context(), user.ID, id, service.UpdateDepositParams{
		Amount: req.Amount,
		Date:   req.Date,
		Notes:  req.Notes,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, deposit, nil)
}

func (h *DepositHandler) remove(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid deposit id", nil)
		return
	}
	if err := h.Deposits.Delete(c.Request.Context(), user.ID, id); err != nil {
		serviceError(c, err)
		return
	}
	NoContent(c)
}
