package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account carries the per-account running balance. CurrentBalance is the
// single ledger value: initial_balance plus every applied deposit and
// realized trade P&L. It is only mutated inside a transaction that also
// persists the record justifying the change.
type Account struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"not null;index" json:"user_id"`

	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Currency string `gorm:"type:varchar(10);not null" json:"currency"`

	InitialBalance decimal.Decimal `gorm:"type:numeric(18,8);not null" json:"initial_balance"`
	CurrentBalance decimal.Decimal `gorm:"type:numeric(18,8);not null" json:"current_balance"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}
