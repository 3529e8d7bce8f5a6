package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

type AccountService struct {
	Repo repository.Repository
}

type CreateAccountParams struct {
	Name           string
	Currency       string
	InitialBalance decimal.Decimal
}

type UpdateAccountParams struct {
	Name     *string
	Currency *string
}

// Create opens an account with current_balance equal to initial_balance.
func (s *AccountService) Create(ctx context.Context, userID uint64, p CreateAccountParams) (*models.Account, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrValidation)
	}
	if p.InitialBalance.Sign() < 0 {
		return nil, fmt.Errorf("%w: initial_balance cannot be negative", ErrValidation)
	}

	account := &models.Account{
		UserID:         userID,
		Name:           p.Name,
		Currency:       p.Currency,
		InitialBalance: p.InitialBalance.Round(amountScale),
		CurrentBalance: p.InitialBalance.Round(amountScale),
	}
	if err := s.Repo.InsertAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Update changes name/currency only; balances move through deposits and
// trade closes, never through this path.
func (s *AccountService) Update(ctx context.Context, userID, accountID uint64, p UpdateAccountParams) (*models.Account, error) {
	account, err := s.Repo.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account", ErrNotFound)
	}

	updates := map[string]any{}
	if p.Name != nil {
		if *p.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		account.Name = *p.Name
		updates["name"] = *p.Name
	}
	if p.Currency != nil {
		if *p.Currency == "" {
			return nil, fmt.Errorf("%w: currency cannot be empty", ErrValidation)
		}
		account.Currency = *p.Currency
		updates["currency"] = *p.Currency
	}
	if err := s.Repo.UpdateAccountFields(ctx, accountID, updates); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete refuses while trades or deposits still reference the account;
// their ledger effects would be orphaned otherwise.
func (s *AccountService) Delete(ctx context.Context, userID, accountID uint64) error {
	account, err := s.Repo.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNotFound)
	}

	trades, err := s.Repo.CountTradesByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	deposits, err := s.Repo.CountDepositsByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if trades > 0 || deposits > 0 {
		return fmt.Errorf("%w: account has existing trades or deposits", ErrInvalidState)
	}
	return s.Repo.DeleteAccount(ctx, accountID)
}
