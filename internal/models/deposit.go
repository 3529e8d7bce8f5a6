package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Deposit struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID uint64 `gorm:"not null;index" json:"account_id"`

	Amount decimal.Decimal `gorm:"type:numeric(18,8);not null" json:"amount"`
	Date   time.Time       `gorm:"type:timestamptz;not null" json:"date"`
	Notes  string          `gorm:"type:text" json:"notes,omitempty"`
}

func (Deposit) TableName() string {
	return "deposits"
}
