package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
	PeriodYearly  = "YEARLY"
)

// Goal is a pure record of per-period targets; nothing is derived from it.
type Goal struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"not null;index" json:"user_id"`

	PeriodType string    `gorm:"type:varchar(20);not null" json:"period_type"`
	StartDate  time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null" json:"end_date"`

	ProfitTarget  *decimal.Decimal `gorm:"type:numeric(10,2)" json:"profit_target,omitempty"`
	TradesTarget  *int             `gorm:"type:integer" json:"trades_target,omitempty"`
	WinRateTarget *decimal.Decimal `gorm:"type:numeric(5,2)" json:"win_rate_target,omitempty"`
	OtherTargets  string           `gorm:"type:text" json:"other_targets,omitempty"`
	Notes         string           `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (Goal) TableName() string {
	return "goals"
}
