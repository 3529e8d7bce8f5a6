package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradejournal/internal/ledger"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// Scales for finalized fields: amounts and prices carry 8 fractional
// digits, percentages and the risk/reward ratio carry 2. Rounding happens
// once, when the field is finalized, never again on read.
const (
	amountScale = 8
	ratioScale  = 2
)

type TradeService struct {
	Repo   repository.Repository
	Ledger *ledger.Ledger
	Logger *zap.Logger
}

type OpenTradeParams struct {
	CurrencyPair string
	Direction    string
	PositionSize decimal.Decimal
	EntryPrice   decimal.Decimal
	StopLoss     *decimal.Decimal
	TakeProfit   *decimal.Decimal
	DateOpen     time.Time
}

type UpdateTradeParams struct {
	DateOpen     *time.Time
	CurrencyPair *string
	Direction    *string
	PositionSize *decimal.Decimal
	EntryPrice   *decimal.Decimal
	StopLoss     *decimal.Decimal
	TakeProfit   *decimal.Decimal
}

type CloseTradeParams struct {
	DateClosed time.Time
	ExitPrice  decimal.Decimal
	WinLoss    string
}

func validDirection(d string) bool {
	return d == models.DirectionLong || d == models.DirectionShort
}

// Open creates a trade in the OPEN state. Risk/reward is computed here when
// both stop and target are present; no ledger effect is applied until close.
func (s *TradeService) Open(ctx context.Context, userID, accountID uint64, p OpenTradeParams) (*models.Trade, error) {
	if !validDirection(p.Direction) {
		return nil, fmt.Errorf("%w: direction must be LONG or SHORT", ErrValidation)
	}
	if p.CurrencyPair == "" {
		return nil, fmt.Errorf("%w: currency_pair is required", ErrValidation)
	}
	if p.PositionSize.Sign() <= 0 {
		return nil, fmt.Errorf("%w: position_size must be positive", ErrValidation)
	}
	if p.EntryPrice.Sign() <= 0 {
		return nil, fmt.Errorf("%w: entry_price must be positive", ErrValidation)
	}
	if p.DateOpen.IsZero() {
		return nil, fmt.Errorf("%w: date_open is required", ErrValidation)
	}

	account, err := s.Repo.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account", ErrNotFound)
	}

	trade := &models.Trade{
		AccountID:    accountID,
		CurrencyPair: p.CurrencyPair,
		Direction:    p.Direction,
		PositionSize: p.PositionSize.Round(amountScale),
		EntryPrice:   p.EntryPrice.Round(amountScale),
		StopLoss:     roundPtr(p.StopLoss, amountScale),
		TakeProfit:   roundPtr(p.TakeProfit, amountScale),
		DateOpen:     p.DateOpen,
		WinLoss:      models.WinLossOpen,
	}
	trade.RiskReward = computeRiskReward(trade.Direction, trade.EntryPrice, trade.StopLoss, trade.TakeProfit)

	if err := s.Repo.InsertTrade(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// Update overwrites open-trade fields. Financial fields (direction, sizes,
// prices) are locked down once the trade closed: editing them would
// desynchronize risk/reward and realized P&L from the ledger effect that was
// already applied. Risk/reward is recomputed from the post-update values
// whenever any of its inputs change.
func (s *TradeService) Update(ctx context.Context, userID, tradeID uint64, p UpdateTradeParams) (*models.Trade, error) {
	trade, err := s.Repo.GetTradeByID(ctx, tradeID, userID)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, fmt.Errorf("%w: trade", ErrNotFound)
	}

	financial := p.Direction != nil || p.PositionSize != nil || p.EntryPrice != nil ||
		p.StopLoss != nil || p.TakeProfit != nil
	if trade.Closed() && financial {
		return nil, fmt.Errorf("%w: financial fields cannot change after close", ErrInvalidState)
	}

	if p.Direction != nil {
		if !validDirection(*p.Direction) {
			return nil, fmt.Errorf("%w: direction must be LONG or SHORT", ErrValidation)
		}
		trade.Direction = *p.Direction
	}
	if p.PositionSize != nil {
		if p.PositionSize.Sign() <= 0 {
			return nil, fmt.Errorf("%w: position_size must be positive", ErrValidation)
		}
		trade.PositionSize = p.PositionSize.Round(amountScale)
	}
	if p.EntryPrice != nil {
		if p.EntryPrice.Sign() <= 0 {
			return nil, fmt.Errorf("%w: entry_price must be positive", ErrValidation)
		}
		trade.EntryPrice = p.EntryPrice.Round(amountScale)
	}
	if p.StopLoss != nil {
		trade.StopLoss = roundPtr(p.StopLoss, amountScale)
	}
	if p.TakeProfit != nil {
		trade.TakeProfit = roundPtr(p.TakeProfit, amountScale)
	}
	if p.DateOpen != nil {
		trade.DateOpen = *p.DateOpen
	}
	if p.CurrencyPair != nil {
		if *p.CurrencyPair == "" {
			return nil, fmt.Errorf("%w: currency_pair cannot be empty", ErrValidation)
		}
		trade.CurrencyPair = *p.CurrencyPair
	}

	if p.Direction != nil || p.EntryPrice != nil || p.StopLoss != nil || p.TakeProfit != nil {
		trade.RiskReward = computeRiskReward(trade.Direction, trade.EntryPrice, trade.StopLoss, trade.TakeProfit)
	}

	if err := s.Repo.SaveTrade(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// Close moves the trade OPEN -> WIN/LOSS exactly once. Realized P&L, the
// ledger delta, and the balance_after snapshot commit in one transaction;
// the account row lock serializes concurrent closes against the same
// account so neither balance write is lost.
func (s *TradeService) Close(ctx context.Context, userID, tradeID uint64, p CloseTradeParams) (*models.Trade, error) {
	if p.WinLoss != models.WinLossWin && p.WinLoss != models.WinLossLoss {
		return nil, fmt.Errorf("%w: win_loss must be WIN or LOSS", ErrValidation)
	}
	if p.ExitPrice.Sign() <= 0 {
		return nil, fmt.Errorf("%w: exit_price must be positive", ErrValidation)
	}
	if p.DateClosed.IsZero() {
		return nil, fmt.Errorf("%w: date_closed is required", ErrValidation)
	}

	var closed *models.Trade
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		trade, err := s.Repo.GetTradeByIDTx(ctx, tx, tradeID, userID)
		if err != nil {
			return err
		}
		if trade == nil {
			return fmt.Errorf("%w: trade", ErrNotFound)
		}

		account, err := s.Ledger.Acquire(ctx, tx, trade.AccountID, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("%w: account", ErrNotFound)
		}

		// Re-read after the lock: a concurrent close may have committed
		// while we waited for the account row.
		trade, err = s.Repo.GetTradeByIDTx(ctx, tx, tradeID, userID)
		if err != nil {
			return err
		}
		if trade == nil {
			return fmt.Errorf("%w: trade", ErrNotFound)
		}
		if trade.Closed() {
			return fmt.Errorf("%w: trade already closed", ErrInvalidState)
		}

		exit := p.ExitPrice.Round(amountScale)
		res := computeCloseResult(trade.Direction, trade.PositionSize, trade.EntryPrice, exit)

		dateClosed := p.DateClosed
		trade.DateClosed = &dateClosed
		trade.ExitPrice = &exit
		trade.WinLoss = p.WinLoss
		trade.ProfitAmount = res.profitAmount
		trade.LossAmount = res.lossAmount
		trade.ProfitPercentage = res.profitPct
		trade.LossPercentage = res.lossPct

		if err := s.Ledger.ApplyDelta(ctx, tx, account, res.delta); err != nil {
			return err
		}
		// Point-in-time snapshot of the post-close balance; never
		// recomputed after this.
		balanceAfter := account.CurrentBalance
		trade.BalanceAfter = &balanceAfter

		if err := s.Repo.SaveTradeTx(ctx, tx, trade); err != nil {
			return err
		}
		closed = trade
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("trade closed",
			zap.Uint64("trade_id", closed.ID),
			zap.Uint64("account_id", closed.AccountID),
			zap.String("win_loss", closed.WinLoss),
			zap.String("delta", closeDelta(closed).String()),
		)
	}
	return closed, nil
}

// Delete removes a trade. A closed trade's stored ledger effect is undone
// first, in the same transaction as the delete: subtract profit_amount or
// add back loss_amount. This is a compensating action on the stored numbers,
// not a replay of close in reverse. An OPEN trade never touched the ledger,
// so nothing is reversed. Returns the screenshot file paths that belonged to
// the trade so the caller can drop them from storage after commit.
func (s *TradeService) Delete(ctx context.Context, userID, tradeID uint64) ([]string, error) {
	trade, err := s.Repo.GetTradeByID(ctx, tradeID, userID)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, fmt.Errorf("%w: trade", ErrNotFound)
	}

	shots, err := s.Repo.ListScreenshotsByTradeID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(shots))
	for _, shot := range shots {
		paths = append(paths, shot.FilePath)
	}

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		trade, err := s.Repo.GetTradeByIDTx(ctx, tx, tradeID, userID)
		if err != nil {
			return err
		}
		if trade == nil {
			return fmt.Errorf("%w: trade", ErrNotFound)
		}

		if trade.Closed() {
			account, err := s.Ledger.Acquire(ctx, tx, trade.AccountID, userID)
			if err != nil {
				return err
			}
			if account == nil {
				return fmt.Errorf("%w: account", ErrNotFound)
			}
			if err := s.Ledger.ApplyDelta(ctx, tx, account, closeDelta(trade).Neg()); err != nil {
				return err
			}
		}
		return s.Repo.DeleteTradeTx(ctx, tx, tradeID)
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// computeRiskReward returns reward/risk at 2 decimals, or nil when either
// level is missing or the stop sits on the wrong side of entry (risk <= 0).
func computeRiskReward(direction string, entry decimal.Decimal, stop, take *decimal.Decimal) *decimal.Decimal {
	if stop == nil || take == nil {
		return nil
	}
	var risk, reward decimal.Decimal
	if direction == models.DirectionLong {
		risk = entry.Sub(*stop)
		reward = take.Sub(entry)
	} else {
		risk = stop.Sub(entry)
		reward = entry.Sub(*take)
	}
	if risk.Sign() <= 0 {
		return nil
	}
	rr := reward.Div(risk).Round(ratioScale)
	return &rr
}

type closeResult struct {
	profitAmount *decimal.Decimal
	lossAmount   *decimal.Decimal
	profitPct    *decimal.Decimal
	lossPct      *decimal.Decimal

	// delta is the signed ledger effect: +profit or -loss.
	delta decimal.Decimal
}

// computeCloseResult realizes P&L from exact decimal prices. An exit at
// entry lands in the loss branch with zero amounts, which keeps the
// exactly-one-of-profit/loss invariant through the loss side.
func computeCloseResult(direction string, size, entry, exit decimal.Decimal) closeResult {
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)

	var r closeResult
	var profitable bool
	if direction == models.DirectionLong {
		profitable = exit.GreaterThan(entry)
	} else {
		profitable = exit.LessThan(entry)
	}

	if profitable {
		var amount, pct decimal.Decimal
		if direction == models.DirectionLong {
			amount = size.Mul(exit.Sub(entry))
			pct = exit.Div(entry).Sub(one).Mul(hundred)
		} else {
			amount = size.Mul(entry.Sub(exit))
			pct = one.Sub(exit.Div(entry)).Mul(hundred)
		}
		amount = amount.Round(amountScale)
		pct = pct.Round(ratioScale)
		r.profitAmount = &amount
		r.profitPct = &pct
		r.delta = amount
		return r
	}

	var amount, pct decimal.Decimal
	if direction == models.DirectionLong {
		amount = size.Mul(entry.Sub(exit))
		pct = one.Sub(exit.Div(entry)).Mul(hundred)
	} else {
		amount = size.Mul(exit.Sub(entry))
		pct = exit.Div(entry).Sub(one).Mul(hundred)
	}
	amount = amount.Round(amountScale)
	pct = pct.Round(ratioScale)
	r.lossAmount = &amount
	r.lossPct = &pct
	r.delta = amount.Neg()
	return r
}

// closeDelta reads the signed ledger effect a closed trade applied.
func closeDelta(t *models.Trade) decimal.Decimal {
	if t.ProfitAmount != nil {
		return *t.ProfitAmount
	}
	if t.LossAmount != nil {
		return t.LossAmount.Neg()
	}
	return decimal.Zero
}

func roundPtr(d *decimal.Decimal, scale int32) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := d.Round(scale)
	return &v
}
