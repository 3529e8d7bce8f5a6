package db

import (
	"tradejournal/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Deposit{},
		&models.Trade{},
		&models.TradeDetail{},
		&models.TradeScreenshot{},
		&models.Goal{},
		&models.AnalysisResult{},
	)
}
