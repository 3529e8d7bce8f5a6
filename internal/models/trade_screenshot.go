package models

import (
	"time"
)

const (
	ScreenshotHTF    = "HTF"
	ScreenshotBefore = "BEFORE"
	ScreenshotAfter  = "AFTER"
	ScreenshotOther  = "OTHER"
)

// TradeScreenshot references a file owned by the screenshot store; FilePath
// is opaque to everything but internal/storage.
type TradeScreenshot struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TradeID uint64 `gorm:"not null;index" json:"trade_id"`

	ScreenshotType string `gorm:"type:varchar(20);not null" json:"screenshot_type"`
	FilePath       string `gorm:"type:varchar(255);not null" json:"file_path"`

	UploadedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"uploaded_at"`
}

func (TradeScreenshot) TableName() string {
	return "trade_screenshots"
}
