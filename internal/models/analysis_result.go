package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisResult is an append-only snapshot of a computed analytics payload.
// Rows are written once and never updated; the trade set stays the source of
// truth and must be able to reproduce any snapshot.
type AnalysisResult struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"not null;index" json:"user_id"`

	AnalysisType string         `gorm:"type:varchar(50);not null;index" json:"analysis_type"`
	ResultData   datatypes.JSON `gorm:"type:jsonb;not null" json:"result_data"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (AnalysisResult) TableName() string {
	return "analysis_results"
}
