package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradejournal/internal/models"
)

type ListTradesParams struct {
	UserID    uint64
	AccountID *uint64
	Since     *time.Time
	Until     *time.Time
}

type ListGoalsParams struct {
	UserID     uint64
	PeriodType *string
	StartDate  *time.Time
	EndDate    *time.Time
}

type ListAnalysisResultsParams struct {
	UserID       uint64
	AnalysisType *string
	Limit        int
}

// Repository is the persistence boundary. Get* lookups that take a userID
// enforce ownership in the query and return (nil, nil) when the row is
// absent or owned by someone else. Methods with a Tx suffix must run inside
// a transaction handed out by InTx: every ledger-coupled mutation commits
// atomically with the balance update that justifies it.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// users
	InsertUser(ctx context.Context, item *models.User) error
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserLastLogin(ctx context.Context, id uint64, at time.Time) error
	ListUserIDs(ctx context.Context) ([]uint64, error)

	// accounts
	InsertAccount(ctx context.Context, item *models.Account) error
	ListAccountsByUserID(ctx context.Context, userID uint64) ([]models.Account, error)
	GetAccountByID(ctx context.Context, id, userID uint64) (*models.Account, error)
	UpdateAccountFields(ctx context.Context, id uint64, updates map[string]any) error
	DeleteAccount(ctx context.Context, id uint64) error
	CountTradesByAccountID(ctx context.Context, accountID uint64) (int64, error)
	CountDepositsByAccountID(ctx context.Context, accountID uint64) (int64, error)
	GetAccountForUpdateTx(ctx context.Context, tx *gorm.DB, id, userID uint64) (*models.Account, error)
	UpdateAccountBalanceTx(ctx context.Context, tx *gorm.DB, id uint64, balance decimal.Decimal) error

	// deposits
	InsertDepositTx(ctx context.Context, tx *gorm.DB, item *models.Deposit) error
	GetDepositByID(ctx context.Context, id, userID uint64) (*models.Deposit, error)
	GetDepositByIDTx(ctx context.Context, tx *gorm.DB, id, userID uint64) (*models.Deposit, error)
	ListDepositsByAccountID(ctx context.Context, accountID uint64) ([]models.Deposit, error)
	UpdateDepositTx(ctx context.Context, tx *gorm.DB, item *models.Deposit) error
	DeleteDepositTx(ctx context.Context, tx *gorm.DB, id uint64) error

	// trades
	InsertTrade(ctx context.Context, item *models.Trade) error
	GetTradeByID(ctx context.Context, id, userID uint64) (*models.Trade, error)
	GetTradeByIDTx(ctx context.Context, tx *gorm.DB, id, userID uint64) (*models.Trade, error)
	ListTradesByAccountID(ctx context.Context, accountID uint64) ([]models.Trade, error)
	ListTrades(ctx context.Context, params ListTradesParams) ([]models.Trade, error)
	SaveTrade(ctx context.Context, item *models.Trade) error
	SaveTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error
	DeleteTradeTx(ctx context.Context, tx *gorm.DB, id uint64) error

	// trade details
	InsertTradeDetail(ctx context.Context, item *models.TradeDetail) error
	GetTradeDetailByTradeID(ctx context.Context, tradeID uint64) (*models.TradeDetail, error)
	SaveTradeDetail(ctx context.Context, item *models.TradeDetail) error

	// screenshots
	InsertScreenshot(ctx context.Context, item *models.TradeScreenshot) error
	ListScreenshotsByTradeID(ctx context.Context, tradeID uint64) ([]models.TradeScreenshot, error)
	GetScreenshotByID(ctx context.Context, id, userID uint64) (*models.TradeScreenshot, error)
	DeleteScreenshot(ctx context.Context, id uint64) error

	// goals
	InsertGoal(ctx context.Context, item *models.Goal) error
	ListGoals(ctx context.Context, params ListGoalsParams) ([]models.Goal, error)
	GetGoalByID(ctx context.Context, id, userID uint64) (*models.Goal, error)
	SaveGoal(ctx context.Context, item *models.Goal) error
	DeleteGoal(ctx context.Context, id uint64) error

	// analysis snapshots
	InsertAnalysisResult(ctx context.Context, item *models.AnalysisResult) error
	ListAnalysisResults(ctx context.Context, params ListAnalysisResultsParams) ([]models.AnalysisResult, error)
}
