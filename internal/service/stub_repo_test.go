package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// stubRepo is an in-memory Repository. It mirrors the ownership and
// not-found semantics of the real store: misses come back (nil, nil).
// Reads hand out copies so writes only land via the Save/Update methods.
type stubRepo struct {
	users       map[uint64]*models.User
	accounts    map[uint64]*models.Account
	deposits    map[uint64]*models.Deposit
	trades      map[uint64]*models.Trade
	details     map[uint64]*models.TradeDetail
	screenshots map[uint64]*models.TradeScreenshot
	goals       map[uint64]*models.Goal
	analyses    []models.AnalysisResult

	nextID uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:       map[uint64]*models.User{},
		accounts:    map[uint64]*models.Account{},
		deposits:    map[uint64]*models.Deposit{},
		trades:      map[uint64]*models.Trade{},
		details:     map[uint64]*models.TradeDetail{},
		screenshots: map[uint64]*models.TradeScreenshot{},
		goals:       map[uint64]*models.Goal{},
	}
}

func (r *stubRepo) id() uint64 {
	r.nextID++
	return r.nextID
}

func (r *stubRepo) addAccount(userID uint64, balance string) *models.Account {
	b := decimal.RequireFromString(balance)
	a := &models.Account{
		ID:             r.id(),
		UserID:         userID,
		Name:           "main",
		Currency:       "USD",
		InitialBalance: b,
		CurrentBalance: b,
	}
	r.accounts[a.ID] = a
	return a
}

func (r *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// users

func (r *stubRepo) InsertUser(ctx context.Context, item *models.User) error {
	item.ID = r.id()
	r.users[item.ID] = item
	return nil
}

func (r *stubRepo) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *stubRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) UpdateUserLastLogin(ctx context.Context, id uint64, at time.Time) error {
	if u, ok := r.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (r *stubRepo) ListUserIDs(ctx context.Context) ([]uint64, error) {
	out := make([]uint64, 0, len(r.users))
	for id := range r.users {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// accounts

func (r *stubRepo) InsertAccount(ctx context.Context, item *models.Account) error {
	item.ID = r.id()
	cp := *item
	r.accounts[item.ID] = &cp
	return nil
}

func (r *stubRepo) ListAccountsByUserID(ctx context.Context, userID uint64) ([]models.Account, error) {
	var out []models.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubRepo) GetAccountByID(ctx context.Context, id, userID uint64) (*models.Account, error) {
	if a, ok := r.accounts[id]; ok && a.UserID == userID {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *stubRepo) UpdateAccountFields(ctx context.Context, id uint64, updates map[string]any) error {
	a, ok := r.accounts[id]
	if !ok {
		return nil
	}
	if v, ok := updates["name"].(string); ok {
		a.Name = v
	}
	if v, ok := updates["currency"].(string); ok {
		a.Currency = v
	}
	return nil
}

func (r *stubRepo) DeleteAccount(ctx context.Context, id uint64) error {
	delete(r.accounts, id)
	return nil
}

func (r *stubRepo) CountTradesByAccountID(ctx context.Context, accountID uint64) (int64, error) {
	var n int64
	for _, t := range r.trades {
		if t.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *stubRepo) CountDepositsByAccountID(ctx context.Context, accountID uint64) (int64, error) {
	var n int64
	for _, d := range r.deposits {
		if d.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *stubRepo) GetAccountForUpdateTx(ctx context.Context, tx *gorm.DB, id, userID uint64) (*models.Account, error) {
	return r.GetAccountByID(ctx, id, userID)
}

func (r *stubRepo) UpdateAccountBalanceTx(ctx context.Context, tx *gorm.DB, id uint64, balance decimal.Decimal) error {
	if a, ok := r.accounts[id]; ok {
		a.CurrentBalance = balance
	}
	return nil
}

// deposits

func (r *stubRepo) InsertDepositTx(ctx context.Context, tx *gorm.DB, item *models.Deposit) error {
	item.ID = r.id()
	cp := *item
	r.deposits[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetDepositByID(ctx context.Context, id, userID uint64) (*models.Deposit, error) {
	d, ok := r.deposits[id]
	if !ok {
		return nil, nil
	}
	if a, ok := r.accounts[d.AccountID]; !ok || a.UserID != userID {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *stubRepo) GetDepositByIDTx(ctx context.Context, tx *gorm.DB, id, userID uint64) (*models.Deposit, error) {
	return r.GetDepositByID(ctx, id, userID)
}

func (r *stubRepo) ListDepositsByAccountID(ctx context.Context, accountID uint64) ([]models.Deposit, error) {
	var out []models.Deposit
	for _, d := range r.deposits {
		if d.AccountID == accountID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubRepo) UpdateDepositTx(ctx context.Context, tx *gorm.DB, item *models.Deposit) error {
	cp := *item
	r.deposits[item.ID] = &cp
	return nil
}

func (r *stubRepo) DeleteDepositTx(ctx context.Context, tx *gorm.DB, id uint64) error {
	delete(r.deposits, id)
	return nil
}

// trades

func (r *stubRepo) InsertTrade(ctx context.Context, item *models.Trade) error {
	item.ID = r.id()
	cp := *item
	r.trades[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetTradeByID(ctx context.Context, id, userID uint64) (*models.Trade, error) {
	t, ok := r.trades[id]
	if !ok {
		return nil, nil
	}
	if a, ok := r.accounts[t.AccountID]; !ok || a.UserID != userID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *stubRepo) GetTradeByIDTx(ctx context.Context, tx *gorm.DB, id, userID uint64) (*models.Trade, error) {
	return r.GetTradeByID(ctx, id, userID)
}

func (r *stubRepo) ListTradesByAccountID(ctx context.Context, accountID uint64) ([]models.Trade, error) {
	var out []models.Trade
	for _, t := range r.trades {
		if t.AccountID == accountID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubRepo) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error) {
	var out []models.Trade
	for _, t := range r.trades {
		a, ok := r.accounts[t.AccountID]
		if !ok || a.UserID != params.UserID {
			continue
		}
		if params.AccountID != nil && t.AccountID != *params.AccountID {
			continue
		}
		if params.Since != nil && t.DateOpen.Before(*params.Since) {
			continue
		}
		if params.Until != nil && t.DateOpen.After(*params.Until) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateOpen.Before(out[j].DateOpen) })
	return out, nil
}

func (r *stubRepo) SaveTrade(ctx context.Context, item *models.Trade) error {
	cp := *item
	r.trades[item.ID] = &cp
	return nil
}

func (r *stubRepo) SaveTradeTx(ctx context.Context, tx *gorm.DB, item *models.Trade) error {
	return r.SaveTrade(ctx, item)
}

func (r *stubRepo) DeleteTradeTx(ctx context.Context, tx *gorm.DB, id uint64) error {
	for sid, s := range r.screenshots {
		if s.TradeID == id {
			delete(r.screenshots, sid)
		}
	}
	for did, d := range r.details {
		if d.TradeID == id {
			delete(r.details, did)
		}
	}
	delete(r.trades, id)
	return nil
}

// trade details

func (r *stubRepo) InsertTradeDetail(ctx context.Context, item *models.TradeDetail) error {
	item.ID = r.id()
	cp := *item
	r.details[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetTradeDetailByTradeID(ctx context.Context, tradeID uint64) (*models.TradeDetail, error) {
	for _, d := range r.details {
		if d.TradeID == tradeID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) SaveTradeDetail(ctx context.Context, item *models.TradeDetail) error {
	cp := *item
	r.details[item.ID] = &cp
	return nil
}

// screenshots

func (r *stubRepo) InsertScreenshot(ctx context.Context, item *models.TradeScreenshot) error {
	item.ID = r.id()
	cp := *item
	r.screenshots[item.ID] = &cp
	return nil
}

func (r *stubRepo) ListScreenshotsByTradeID(ctx context.Context, tradeID uint64) ([]models.TradeScreenshot, error) {
	var out []models.TradeScreenshot
	for _, s := range r.screenshots {
		if s.TradeID == tradeID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubRepo) GetScreenshotByID(ctx context.Context, id, userID uint64) (*models.TradeScreenshot, error) {
	s, ok := r.screenshots[id]
	if !ok {
		return nil, nil
	}
	t, ok := r.trades[s.TradeID]
	if !ok {
		return nil, nil
	}
	if a, ok := r.accounts[t.AccountID]; !ok || a.UserID != userID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *stubRepo) DeleteScreenshot(ctx context.Context, id uint64) error {
	delete(r.screenshots, id)
	return nil
}

// goals

func (r *stubRepo) InsertGoal(ctx context.Context, item *models.Goal) error {
	item.ID = r.id()
	cp := *item
	r.goals[item.ID] = &cp
	return nil
}

func (r *stubRepo) ListGoals(ctx context.Context, params repository.ListGoalsParams) ([]models.Goal, error) {
	var out []models.Goal
	for _, g := range r.goals {
		if g.UserID != params.UserID {
			continue
		}
		if params.PeriodType != nil && g.PeriodType != *params.PeriodType {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (r *stubRepo) GetGoalByID(ctx context.Context, id, userID uint64) (*models.Goal, error) {
	if g, ok := r.goals[id]; ok && g.UserID == userID {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (r *stubRepo) SaveGoal(ctx context.Context, item *models.Goal) error {
	cp := *item
	r.goals[item.ID] = &cp
	return nil
}

func (r *stubRepo) DeleteGoal(ctx context.Context, id uint64) error {
	delete(r.goals, id)
	return nil
}

// analysis snapshots

func (r *stubRepo) InsertAnalysisResult(ctx context.Context, item *models.AnalysisResult) error {
	item.ID = r.id()
	r.analyses = append(r.analyses, *item)
	return nil
}

func (r *stubRepo) ListAnalysisResults(ctx context.Context, params repository.ListAnalysisResultsParams) ([]models.AnalysisResult, error) {
	var out []models.AnalysisResult
	for i := len(r.analyses) - 1; i >= 0; i-- {
		a := r.analyses[i]
		if a.UserID != params.UserID {
			continue
		}
		if params.AnalysisType != nil && a.AnalysisType != *params.AnalysisType {
			continue
		}
		out = append(out, a)
		if params.Limit > 0 && len(out) >= params.Limit {
			break
		}
	}
	return out, nil
}

var _ repository.Repository = (*stubRepo)(nil)
