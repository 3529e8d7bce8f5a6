package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

type AccountHandler struct {
	Repo     repository.Repository
	Accounts *service.AccountService
}

func (h *AccountHandler) Register(r *gin.Engine) {
	g := r.Group("/api/accounts")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

type createAccountRequest struct {
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func (h *AccountHandler) create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	account, err := h.Accounts.Create(c.Request.Context(), user.ID, service.CreateAccountParams{
		Name:           req.Name,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Created(c, account)
}

func (h *AccountHandler) list(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	accounts, err := h.Repo.ListAccountsByUserID(c.Request.Context(), user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, accounts, map[string]any{"total": len(accounts)})
}

func (h *AccountHandler) get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid account id", nil)
		return
	}
	account, err := h.Repo.GetAccountByID(c.Request.Context(), id, user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if account == nil {
		Error(c, http.StatusNotFound, "account not found", nil)
		return
	}
	Ok(c, account, nil)
}

type updateAccountRequest struct {
	Name     *string `json:"name"`
	Currency *string `json:"currency"`
}

func (h *AccountHandler) update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid account id", nil)
		return
	}
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	account, err := h.Accounts.Update(c.Request.Context(), user.ID, id, service.UpdateAccountParams{
		Name:     req.Name,
		Currency: req.Currency,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, account, nil)
}

func (h *AccountHandler) remove(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid account id", nil)
		return
	}
	if err := h.Accounts.Delete(c.Request.Context(), user.ID, id); err != nil {
		serviceError(c, err)
		return
	}
	NoContent(c)
}
