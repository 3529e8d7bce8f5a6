package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradejournal/internal/ledger"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

type DepositService struct {
	Repo   repository.Repository
	Ledger *ledger.Ledger
}

type CreateDepositParams struct {
	Amount decimal.Decimal
	Date   time.Time
	Notes  string
}

type UpdateDepositParams struct {
	Amount *decimal.Decimal
	Date   *time.Time
	Notes  *string
}

// Create records a deposit and raises the account balance by its amount in
// one transaction.
func (s *DepositService) Create(ctx context.Context, userID, accountID uint64, p CreateDepositParams) (*models.Deposit, error) {
	if p.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if p.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	deposit := &models.Deposit{
		AccountID: accountID,
		Amount:    p.Amount.Round(amountScale),
		Date:      p.Date,
		Notes:     p.Notes,
	}
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		account, err := s.Ledger.Acquire(ctx, tx, accountID, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("%w: account", ErrNotFound)
		}
		if err := s.Repo.InsertDepositTx(ctx, tx, deposit); err != nil {
			return err
		}
		return s.Ledger.ApplyDelta(ctx, tx, account, deposit.Amount)
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// Update overwrites deposit fields. When the amount changes, the ledger
// moves by (new - old) computed from the pre-update stored amount, so the
// prior balance effect is reversed and the new one applied in a single
// delta.
func (s *DepositService) Update(ctx context.Context, userID, depositID uint64, p UpdateDepositParams) (*models.Deposit, error) {
	if p.Amount != nil && p.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	var updated *models.Deposit
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		deposit, err := s.Repo.GetDepositByIDTx(ctx, tx, depositID, userID)
		if err != nil {
			return err
		}
		if deposit == nil {
			return fmt.Errorf("%w: deposit", ErrNotFound)
		}

		if p.Amount != nil {
			account, err := s.Ledger.Acquire(ctx, tx, deposit.AccountID, userID)
			if err != nil {
				return err
			}
			if account == nil {
				return fmt.Errorf("%w: account", ErrNotFound)
			}
			// Re-read under the account lock: the delta below must be
			// computed from the committed pre-update amount.
			deposit, err = s.Repo.GetDepositByIDTx(ctx, tx, depositID, userID)
			if err != nil {
				return err
			}
			if deposit == nil {
				return fmt.Errorf("%w: deposit", ErrNotFound)
			}
			newAmount := p.Amount.Round(amountScale)
			if !newAmount.Equal(deposit.Amount) {
				if err := s.Ledger.ApplyDelta(ctx, tx, account, newAmount.Sub(deposit.Amount)); err != nil {
					return err
				}
			}
			deposit.Amount = newAmount
		}
		if p.Date != nil {
			deposit.Date = *p.Date
		}
		if p.Notes != nil {
			deposit.Notes = *p.Notes
		}

		if err := s.Repo.UpdateDepositTx(ctx, tx, deposit); err != nil {
			return err
		}
		updated = deposit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete reverses the deposit's balance effect and removes the row in one
// transaction, so a failure between the two rolls both back.
func (s *DepositService) Delete(ctx context.Context, userID, depositID uint64) error {
	return s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		deposit, err := s.Repo.GetDepositByIDTx(ctx, tx, depositID, userID)
		if err != nil {
			return err
		}
		if deposit == nil {
			return fmt.Errorf("%w: deposit", ErrNotFound)
		}
		account, err := s.Ledger.Acquire(ctx, tx, deposit.AccountID, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("%w: account", ErrNotFound)
		}
		deposit, err = s.Repo.GetDepositByIDTx(ctx, tx, depositID, userID)
		if err != nil {
			return err
		}
		if deposit == nil {
			return fmt.Errorf("%w: deposit", ErrNotFound)
		}
		if err := s.Ledger.ApplyDelta(ctx, tx, account, deposit.Amount.Neg()); err != nil {
			return err
		}
		return s.Repo.DeleteDepositTx(ctx, tx, depositID)
	})
}
