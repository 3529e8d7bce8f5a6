package models

// TradeDetail is the free-text journal sheet attached to a trade. At most
// one per trade, enforced by the unique index on trade_id.
type TradeDetail struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TradeID uint64 `gorm:"not null;uniqueIndex" json:"trade_id"`

	Step1Conditions string `gorm:"column:step_1_conditions;type:text" json:"step_1_conditions,omitempty"`
	Step2Bias       string `gorm:"column:step_2_bias;type:text" json:"step_2_bias,omitempty"`
	Step3Narrative  string `gorm:"column:step_3_narrative;type:text" json:"step_3_narrative,omitempty"`
	Step4Execution  string `gorm:"column:step_4_execution;type:text" json:"step_4_execution,omitempty"`
	Comments        string `gorm:"type:text" json:"comments,omitempty"`
}

func (TradeDetail) TableName() string {
	return "trade_details"
}
