package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradejournal/internal/repository"
	"tradejournal/internal/service"
	"tradejournal/internal/storage"
)

type TradeHandler struct {
	Repo    repository.Repository
	Trades  *service.TradeService
	Uploads *storage.Local
	Logger  *zap.Logger
}

func (h *TradeHandler) Register(r *gin.Engine) {
	r.POST("/api/accounts/:id/trades", h.create)
	r.GET("/api/accounts/:id/trades", h.list)

	g := r.Group("/api/trades")
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.PATCH("/:id/close", h.close)
	g.DELETE("/:id", h.remove)
}

type createTradeRequest struct {
	CurrencyPair string           `json:"currency_pair"`
	Direction    string           `json:"direction"`
	PositionSize decimal.Decimal  `json:"position_size"`
	EntryPrice   decimal.Decimal  `json:"entry_price"`
	StopLoss     *decimal.Decimal `json:"stop_loss"`
	TakeProfit   *decimal.Decimal `json:"take_profit"`
	DateOpen     time.Time        `json:"date_open"`
}

func (h *TradeHandler) create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	accountID := uint64Param(c, "id")
	if accountID == 0 {
		Error(c, http.StatusBadRequest, "invalid account id", nil)
		return
	}
	var req createTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	trade, err := h.Trades.Open(c.Request.Context(), user.ID, accountID, service.OpenTradeParams{
		CurrencyPair: req.CurrencyPair,
		Direction:    req.Direction,
		PositionSize: req.PositionSize,
		EntryPrice:   req.EntryPrice,
		StopLoss:     req.StopLoss,
		TakeProfit:   req.TakeProfit,
		DateOpen:     req.DateOpen,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Created(c, trade)
}

func (h *TradeHandler) list(c *gin.Context) {
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
	trades, err := h.Repo.ListTrades(c.Request.Context(), repository.ListTradesParams{
		UserID:    user.ID,
		AccountID: &accountID,
		Since:     timeQueryPtr(c, "since"),
		Until:     timeQueryPtr(c, "until"),
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, trades, map[string]any{"total": len(trades)})
}

func (h *TradeHandler) get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid trade id", nil)
		return
	}
	trade, err := h.Repo.GetTradeByID(c.Request.Context(), id, user.ID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if trade == nil {
		Error(c, http.StatusNotFound, "trade not found", nil)
		return
	}
	Ok(c, trade, nil)
}

type updateTradeRequest struct {
	DateOpen     *time.Time       `json:"date_open"`
	CurrencyPair *string          `json:"currency_pair"`
	Direction    *string          `json:"direction"`
	PositionSize *decimal.Decimal `json:"position_size"`
	EntryPrice   *decimal.Decimal `json:"entry_price"`
	StopLoss     *decimal.Decimal `json:"stop_loss"`
	TakeProfit   *decimal.Decimal `json:"take_profit"`
}

func (h *TradeHandler) update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid trade id", nil)
		return
	}
	var req updateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	trade, err := h.Trades.Update(c.Request.Context(), user.ID, id, service.UpdateTradeParams{
		DateOpen:     req.DateOpen,
		CurrencyPair: req.CurrencyPair,
		Direction:    req.Direction,
		PositionSize: req.PositionSize,
		EntryPrice:   req.EntryPrice,
		StopLoss:     req.StopLoss,
		TakeProfit:   req.TakeProfit,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, trade, nil)
}

type closeTradeRequest struct {
	DateClosed time.Time       `json:"date_closed"`
	ExitPrice  decimal.Decimal `json:"exit_price"`
	WinLoss    string          `json:"win_loss"`
}

func (h *TradeHandler) close(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid trade id", nil)
		return
	}
	var req closeTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	trade, err := h.Trades.Close(c.Request.Context(), user.ID, id, service.CloseTradeParams{
		DateClosed: req.DateClosed,
		ExitPrice:  req.ExitPrice,
		WinLoss:    req.WinLoss,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, trade, nil)
}

func (h *TradeHandler) remove(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid trade id", nil)
		return
	}
	screenshotPaths, err := h.Trades.Delete(c.Request.Context(), user.ID, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	// The rows are gone; orphaned files are only worth a warning.
	if h.Uploads != nil {
		for _, p := range screenshotPaths {
			if err := h.Uploads.Remove(p); err != nil && h.Logger != nil {
				h.Logger.Warn("remove screenshot file", zap.String("path", p), zap.Error(err))
			}
		}
	}
	NoContent(c)
}
