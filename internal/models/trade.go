package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DirectionLong  = "LONG"
	DirectionShort = "SHORT"
)

// Trade states. A trade opens as OPEN and moves exactly once to WIN or LOSS;
// there is no transition back.
const (
	WinLossOpen = "OPEN"
	WinLossWin  = "WIN"
	WinLossLoss = "LOSS"
)

// Trade is a single journal entry. DateClosed is set if and only if WinLoss
// is WIN or LOSS, and exactly one of ProfitAmount/LossAmount is set once
// closed. BalanceAfter is the account balance snapshot taken right after the
// close applied to the ledger; it is never recomputed.
type Trade struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID uint64 `gorm:"not null;index" json:"account_id"`

	CurrencyPair string `gorm:"type:varchar(20);not null;index" json:"currency_pair"`
	Direction    string `gorm:"type:varchar(10);not null" json:"direction"`

	PositionSize decimal.Decimal  `gorm:"type:numeric(18,8);not null" json:"position_size"`
	EntryPrice   decimal.Decimal  `gorm:"type:numeric(18,8);not null" json:"entry_price"`
	StopLoss     *decimal.Decimal `gorm:"type:numeric(18,8)" json:"stop_loss,omitempty"`
	TakeProfit   *decimal.Decimal `gorm:"type:numeric(18,8)" json:"take_profit,omitempty"`
	ExitPrice    *decimal.Decimal `gorm:"type:numeric(18,8)" json:"exit_price,omitempty"`
	RiskReward   *decimal.Decimal `gorm:"type:numeric(10,2)" json:"risk_reward,omitempty"`

	DateOpen   time.Time  `gorm:"type:timestamptz;not null;index" json:"date_open"`
	DateClosed *time.Time `gorm:"type:timestamptz" json:"date_closed,omitempty"`

	WinLoss string `gorm:"type:varchar(10);not null;default:'OPEN';index" json:"win_loss"`

	ProfitAmount     *decimal.Decimal `gorm:"type:numeric(18,8)" json:"profit_amount,omitempty"`
	LossAmount       *decimal.Decimal `gorm:"type:numeric(18,8)" json:"loss_amount,omitempty"`
	ProfitPercentage *decimal.Decimal `gorm:"type:numeric(10,2)" json:"profit_percentage,omitempty"`
	LossPercentage   *decimal.Decimal `gorm:"type:numeric(10,2)" json:"loss_percentage,omitempty"`
	BalanceAfter     *decimal.Decimal `gorm:"type:numeric(18,8)" json:"balance_after,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Trade) TableName() string {
	return "trades"
}

// Closed reports whether the trade left the OPEN state.
func (t *Trade) Closed() bool {
	return t.DateClosed != nil
}
