package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

type Store struct {
	db *gorm.DB
}

var _ repository.Repository = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- users -------------------------------------------------------------------

func (s *Store) InsertUser(ctx context.Context, item *models.User) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateUserLastLogin(ctx context.Context, id uint64, at time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

func (s *Store) ListUserIDs(ctx context.Context) ([]uint64, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []uint64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Order("id asc").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// --- accounts ----------------------------------------------------------------

func (s *Store) InsertAccount(ctx context.Context, item *models.Account) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListAccountsByUserID(ctx context.Context, userID uint64) ([]models.Account, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Account
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetAccountByID(ctx context.Context, id, userID uint64) (*models.Account, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Account
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateAccountFields(ctx context.Context, id uint64, updates map[string]any) error {
	if s == nil || s.db == nil || len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (s *Store) DeleteAccount(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Account{}).Error
}

func (s *Store) CountTradesByAccountID(ctx context.Context, accountID uint64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("account_id = ?", accountID).
		Count(&total).Error
	return total, err
}

func (s *Store) CountDepositsByAccountID(ctx context.Context, accountID uint64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Deposit{}).
		Where("account_id = ?", accountID).
		Count(&total).Error
	return total, err
}

// GetAccountForUpdateTx takes a row-level lock so concurrent closes,
// deletions, and deposits against the same account serialize instead of
// racing the balance read-modify-write.
func (s *Store) GetAccountForUpdateTx(ctx context.Context, tx *gorm.DB, id, userID uint64) (*models.Account, error) {
	if tx == nil {
		return nil, nil
	}
	var item models.Account
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateAccountBalanceTx(ctx context.Context, tx *gorm.DB, id uint64, balance decimal.Decimal) error {
	if tx == nil {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("current_balance", balance).Error
}

// --- deposits ----------------------------------------------------------------

func (s *Store) InsertDepositTx(ctx context.Context, tx *gorm.DB, item *models.Deposit) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) GetDepositByID(ctx context.Context, id, userID uint64) (*models.Deposit, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Deposit
	err := s.db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = deposits.account_id").
		Where("deposits.id = ? AND accounts.user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetDepositByIDTx(ctx context.Context, tx *gorm.DB, id, userID uint64) (*models.Deposit, error) {
	if tx == nil {
		return nil, nil
	}
	var item models.Deposit
	err := tx.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = deposits.account_id").
		Where("deposits.id = ? AND accounts.user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListDepositsByAccountID(ctx context.Context, accountID uint64) ([]models.Deposit, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Deposit
	if err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateDepositTx(ctx context.Context, tx *gorm.DB, item *models.Deposit) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteDepositTx(ctx context.Context, tx *gorm.DB, id uint64) error {
	if tx == nil {
		return nil
	}
	return tx.WithContext(ctx).Where("id = ?", id).Delete(&models.Deposit{}).Error
}

// --- trades ------------------------------------------------------------------

func (s *Store) InsertTrade(ctx context.Context, item *models.Trade) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetTradeByID(ctx context.Context, id, userID uint64) (*models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Trade
	err := s.db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = trades.account_id").
		Where("trades.id = ? AND accounts.user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetTradeByIDTx(ctx context.Context, tx *gorm.DB, id, userID uint64) (*models.Trade, error) {
	if tx == nil {
		return nil, nil
	}
	var item models.Trade
	err := tx.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = trades.account_id").
		Where("trades.id = ? AND accounts.user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListTradesByAccountID(ctx context.Context, accountID uint64) ([]models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Trade
	if err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date_open desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Joins("JOIN accounts ON accounts.id = trades.account_id").
		Where("accounts.user_id = ?", params.UserID)
	if params.AccountID != nil {
		query = query.Where("trades.account_id = ?", *params.AccountID)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("trades.date_open >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("trades.date_open <= ?", *params.Until)
	}
	var items []models.Trade
	if err := query.Order("trades.date_open asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SaveTrade(ctx context.Context, item *models.Trade) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) SaveTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Save(item).Error
}

// DeleteTradeTx removes the trade together with its detail sheet and
// screenshot rows; screenshot files are the storage layer's problem.
func (s *Store) DeleteTradeTx(ctx context.Context, tx *gorm.DB, id uint64) error {
	if tx == nil {
		return nil
	}
	if err := tx.WithContext(ctx).Where("trade_id = ?", id).Delete(&models.TradeDetail{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("trade_id = ?", id).Delete(&models.TradeScreenshot{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Where("id = ?", id).Delete(&models.Trade{}).Error
}

// --- trade details -----------------------------------------------------------

func (s *Store) InsertTradeDetail(ctx context.Context, item *models.TradeDetail) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetTradeDetailByTradeID(ctx context.Context, tradeID uint64) (*models.TradeDetail, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.TradeDetail
	err := s.db.WithContext(ctx).Where("trade_id = ?", tradeID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveTradeDetail(ctx context.Context, item *models.TradeDetail) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

// --- screenshots -------------------------------------------------------------

func (s *Store) InsertScreenshot(ctx context.Context, item *models.TradeScreenshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListScreenshotsByTradeID(ctx context.Context, tradeID uint64) ([]models.TradeScreenshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.TradeScreenshot
	if err := s.db.WithContext(ctx).
		Where("trade_id = ?", tradeID).
		Order("uploaded_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetScreenshotByID(ctx context.Context, id, userID uint64) (*models.TradeScreenshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.TradeScreenshot
	err := s.db.WithContext(ctx).
		Joins("JOIN trades ON trades.id = trade_screenshots.trade_id").
		Joins("JOIN accounts ON accounts.id = trades.account_id").
		Where("trade_screenshots.id = ? AND accounts.user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) DeleteScreenshot(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TradeScreenshot{}).Error
}

// --- goals -------------------------------------------------------------------

func (s *Store) InsertGoal(ctx context.Context, item *models.Goal) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListGoals(ctx context.Context, params repository.ListGoalsParams) ([]models.Goal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.Goal{}).
		Where("user_id = ?", params.UserID)
	if params.PeriodType != nil && strings.TrimSpace(*params.PeriodType) != "" {
		query = query.Where("period_type = ?", strings.TrimSpace(*params.PeriodType))
	}
	if params.StartDate != nil && !params.StartDate.IsZero() {
		query = query.Where("start_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil && !params.EndDate.IsZero() {
		query = query.Where("end_date <= ?", *params.EndDate)
	}
	var items []models.Goal
	if err := query.Order("start_date desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetGoalByID(ctx context.Context, id, userID uint64) (*models.Goal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Goal
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveGoal(ctx context.Context, item *models.Goal) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteGoal(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Goal{}).Error
}

// --- analysis snapshots ------------------------------------------------------

func (s *Store) InsertAnalysisResult(ctx context.Context, item *models.AnalysisResult) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListAnalysisResults(ctx context.Context, params repository.ListAnalysisResultsParams) ([]models.AnalysisResult, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.AnalysisResult{}).
		Where("user_id = ?", params.UserID)
	if params.AnalysisType != nil && strings.TrimSpace(*params.AnalysisType) != "" {
		query = query.Where("analysis_type = ?", strings.TrimSpace(*params.AnalysisType))
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	var items []models.AnalysisResult
	if err := query.Order("created_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
