package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradejournal/internal/ledger"
	"tradejournal/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dptr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTradeService(repo *stubRepo) *TradeService {
	return &TradeService{
		Repo:   repo,
		Ledger: &ledger.Ledger{Repo: repo},
		Logger: zap.NewNop(),
	}
}

func TestComputeRiskReward(t *testing.T) {
	cases := []struct {
		name      string
		direction string
		entry     string
		stop      *decimal.Decimal
		take      *decimal.Decimal
		want      string
		wantNil   bool
	}{
		{name: "long 1:3", direction: models.DirectionLong, entry: "100", stop: dptr("90"), take: dptr("130"), want: "3"},
		{name: "short 1:2", direction: models.DirectionShort, entry: "100", stop: dptr("110"), take: dptr("80"), want: "2"},
		{name: "fractional", direction: models.DirectionLong, entry: "1.2", stop: dptr("1.19"), take: dptr("1.215"), want: "1.5"},
		{name: "rounded to 2", direction: models.DirectionLong, entry: "100", stop: dptr("97"), take: dptr("110"), want: "3.33"},
		{name: "stop wrong side long", direction: models.DirectionLong, entry: "100", stop: dptr("110"), take: dptr("130"), wantNil: true},
		{name: "stop at entry", direction: models.DirectionShort, entry: "100", stop: dptr("100"), take: dptr("90"), wantNil: true},
		{name: "no stop", direction: models.DirectionLong, entry: "100", take: dptr("130"), wantNil: true},
		{name: "no take", direction: models.DirectionLong, entry: "100", stop: dptr("90"), wantNil: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computeRiskReward(tc.direction, dec(tc.entry), tc.stop, tc.take)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("expected nil risk/reward, got %s", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s, got nil", tc.want)
			}
			if !got.Equal(dec(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestComputeCloseResultLongProfit(t *testing.T) {
	res := computeCloseResult(models.DirectionLong, dec("10000"), dec("1.2000"), dec("1.2080"))
	if res.profitAmount == nil || !res.profitAmount.Equal(dec("80")) {
		t.Fatalf("expected profit 80, got %v", res.profitAmount)
	}
	if res.lossAmount != nil {
		t.Fatalf("loss amount must be nil on a profitable close, got %s", res.lossAmount)
	}
	if res.profitPct == nil || !res.profitPct.Equal(dec("0.67")) {
		t.Fatalf("expected profit pct 0.67, got %v", res.profitPct)
	}
	if !res.delta.Equal(dec("80")) {
		t.Fatalf("expected delta +80, got %s", res.delta)
	}
}

func TestComputeCloseResultLongLoss(t *testing.T) {
	res := computeCloseResult(models.DirectionLong, dec("10000"), dec("1.2000"), dec("1.1900"))
	if res.lossAmount == nil || !res.lossAmount.Equal(dec("100")) {
		t.Fatalf("expected loss 100, got %v", res.lossAmount)
	}
	if res.profitAmount != nil {
		t.Fatalf("profit amount must be nil on a losing close, got %s", res.profitAmount)
	}
	if res.lossPct == nil || !res.lossPct.Equal(dec("0.83")) {
		t.Fatalf("expected loss pct 0.83, got %v", res.lossPct)
	}
	if !res.delta.Equal(dec("-100")) {
		t.Fatalf("expected delta -100, got %s", res.delta)
	}
}

func TestComputeCloseResultShortMirrors(t *testing.T) {
	profit := computeCloseResult(models.DirectionShort, dec("10000"), dec("1.2000"), dec("1.1900"))
	if profit.profitAmount == nil || !profit.profitAmount.Equal(dec("100")) {
		t.Fatalf("expected short profit 100, got %v", profit.profitAmount)
	}
	loss := computeCloseResult(models.DirectionShort, dec("10000"), dec("1.2000"), dec("1.2080"))
	if loss.lossAmount == nil || !loss.lossAmount.Equal(dec("80")) {
		t.Fatalf("expected short loss 80, got %v", loss.lossAmount)
	}
	if !loss.delta.Equal(dec("-80")) {
		t.Fatalf("expected delta -80, got %s", loss.delta)
	}
}

func TestComputeCloseResultExitAtEntry(t *testing.T) {
	res := computeCloseResult(models.DirectionLong, dec("10000"), dec("1.2"), dec("1.2"))
	if res.profitAmount != nil {
		t.Fatalf("profit amount must be nil at break-even, got %s", res.profitAmount)
	}
	if res.lossAmount == nil || !res.lossAmount.IsZero() {
		t.Fatalf("expected zero loss amount at break-even, got %v", res.lossAmount)
	}
	if !res.delta.IsZero() {
		t.Fatalf("expected zero delta at break-even, got %s", res.delta)
	}
}

func TestOpenTrade(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newTradeService(repo)
	ctx := context.Background()

	trade, err := svc.Open(ctx, 1, account.ID, OpenTradeParams{
		CurrencyPair: "EUR/USD",
		Direction:    models.DirectionLong,
		PositionSize: dec("10000"),
		EntryPrice:   dec("1.2000"),
		StopLoss:     dptr("1.1900"),
		TakeProfit:   dptr("1.2300"),
		DateOpen:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if trade.WinLoss != models.WinLossOpen {
		t.Fatalf("expected OPEN state, got %s", trade.WinLoss)
	}
	if trade.RiskReward == nil || !trade.RiskReward.Equal(dec("3")) {
		t.Fatalf("expected risk/reward 3, got %v", trade.RiskReward)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1000")) {
		t.Fatalf("opening a trade must not touch the balance")
	}
}

func TestOpenTradeValidation(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newTradeService(repo)
	ctx := context.Background()

	_, err := svc.Open(ctx, 1, account.ID, OpenTradeParams{
		CurrencyPair: "EUR/USD",
		Direction:    "SIDEWAYS",
		PositionSize: dec("1"),
		EntryPrice:   dec("1"),
		DateOpen:     time.Now().UTC(),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad direction, got %v", err)
	}

	_, err = svc.Open(ctx, 1, 999, OpenTradeParams{
		CurrencyPair: "EUR/USD",
		Direction:    models.DirectionLong,
		PositionSize: dec("1"),
		EntryPrice:   dec("1"),
		DateOpen:     time.Now().UTC(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing account, got %v", err)
	}
}

func openTestTrade(t *testing.T, svc *TradeService, accountID uint64) *models.Trade {
	t.Helper()
	trade, err := svc.Open(context.Background(), 1, accountID, OpenTradeParams{
		CurrencyPair: "EUR/USD",
		Direction:    models.DirectionLong,
		PositionSize: dec("10000"),
		EntryPrice:   dec("1.2000"),
		DateOpen:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return trade
}

func TestCloseTradeAppliesLedgerOnce(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newTradeService(repo)
	ctx := context.Background()
	trade := openTestTrade(t, svc, account.ID)

	closed, err := svc.Close(ctx, 1, trade.ID, CloseTradeParams{
		DateClosed: time.Now().UTC(),
		ExitPrice:  dec("1.2080"),
		WinLoss:    models.WinLossWin,
	})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.ProfitAmount == nil || !closed.ProfitAmount.Equal(dec("80")) {
		t.Fatalf("expected profit 80, got %v", closed.ProfitAmount)
	}
	if closed.BalanceAfter == nil || !closed.BalanceAfter.Equal(dec("1080")) {
		t.Fatalf("expected balance_after 1080, got %v", closed.BalanceAfter)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1080")) {
		t.Fatalf("expected account balance 1080, got %s", repo.accounts[account.ID].CurrentBalance)
	}

	_, err = svc.Close(ctx, 1, trade.ID, CloseTradeParams{
		DateClosed: time.Now().UTC(),
		ExitPrice:  dec("1.2080"),
		WinLoss:    models.WinLossWin,
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second close, got %v", err)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1080")) {
		t.Fatalf("second close must not move the balance, got %s", repo.accounts[account.ID].CurrentBalance)
	}
}

func TestCloseTradeValidation(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newTradeService(repo)
	trade := openTestTrade(t, svc, account.ID)

	_, err := svc.Close(context.Background(), 1, trade.ID, CloseTradeParams{
		DateClosed: time.Now().UTC(),
		ExitPrice:  dec("1.21"),
		WinLoss:    "MAYBE",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad win_loss, got %v", err)
	}
}

func TestDeleteClosedTradeReversesLedger(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newTradeService(repo)
	ctx := context.Background()
	trade := openTestTrade(t, svc, account.ID)

	if _, err := svc.Close(ctx, 1, trade.ID, CloseTradeParams{
		DateClosed: time.Now().UTC(),
		ExitPrice:  dec("1.1900"),
		WinLoss:    models.WinLossLoss,
	}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("900")) {
		t.Fatalf("expected balance 900 after loss, got %s", repo.accounts[account.ID].CurrentBalance)
	}

	repo.screenshots[500] = &models.TradeScreenshot{
		ID: 500, TradeID: trade.ID, ScreenshotType: models.ScreenshotAfter, FilePath: "1/1/a.png",
	}

	paths, err := svc.Delete(ctx, 1, trade.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(paths) != 1 || paths[0] != "1/1/a.png" {
		t.Fatalf("expected screenshot path back, got %v", paths)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1000")) {
		t.Fatalf("expected loss added back on delete, got %s", repo.accounts[account.ID].CurrentBalance)
	}
	if _, ok := repo.trades[trade.ID]; ok {
		t.Fatalf("trade row should be gone")
	}
	if _, ok := repo.screenshots[500]; ok {
		t.Fatalf("screenshot rows should be gone with the trade")
	}
}

func TestDeleteOpenTradeLeavesBalance(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newTradeService(repo)
	trade := openTestTrade(t, svc, account.ID)

	if _, err := svc.Delete(context.Background(), 1, trade.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1000")) {
		t.Fatalf("deleting an open trade must not move the balance, got %s", repo.accounts[account.ID].CurrentBalance)
	}
}

func TestUpdateClosedTradeFinancialFieldsRejected(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newTradeService(repo)
	ctx := context.Background()
	trade := openTestTrade(t, svc, account.ID)

	if _, err := svc.Close(ctx, 1, trade.ID, CloseTradeParams{
		DateClosed: time.Now().UTC(),
		ExitPrice:  dec("1.2080"),
		WinLoss:    models.WinLossWin,
	}); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err := svc.Update(ctx, 1, trade.ID, UpdateTradeParams{EntryPrice: dptr("1.3")})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for financial edit after close, got %v", err)
	}

	pair := "GBP/USD"
	updated, err := svc.Update(ctx, 1, trade.ID, UpdateTradeParams{CurrencyPair: &pair})
	if err != nil {
		t.Fatalf("non-financial edit after close should pass: %v", err)
	}
	if updated.CurrencyPair != "GBP/USD" {
		t.Fatalf("expected updated pair, got %s", updated.CurrencyPair)
	}
}

func TestUpdateRecomputesRiskReward(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newTradeService(repo)
	ctx := context.Background()

	trade, err := svc.Open(ctx, 1, account.ID, OpenTradeParams{
		CurrencyPair: "EUR/USD",
		Direction:    models.DirectionLong,
		PositionSize: dec("10000"),
		EntryPrice:   dec("100"),
		StopLoss:     dptr("90"),
		TakeProfit:   dptr("130"),
		DateOpen:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	updated, err := svc.Update(ctx, 1, trade.ID, UpdateTradeParams{TakeProfit: dptr("120")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.RiskReward == nil || !updated.RiskReward.Equal(dec("2")) {
		t.Fatalf("expected recomputed risk/reward 2, got %v", updated.RiskReward)
	}
}
