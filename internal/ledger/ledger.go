package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// Ledger owns the per-account running balance. Both methods must be called
// inside the same transaction as the record mutation that justifies the
// balance change; there is no standalone "adjust balance" path.
type Ledger struct {
	Repo repository.Repository
}

// Acquire loads the account under a row-level write lock, serializing every
// balance read-modify-write against the same account for the duration of tx.
// Returns (nil, nil) when the account is absent or not owned by userID.
func (l *Ledger) Acquire(ctx context.Context, tx *gorm.DB, accountID, userID uint64) (*models.Account, error) {
	if l == nil || l.Repo == nil {
		return nil, nil
	}
	return l.Repo.GetAccountForUpdateTx(ctx, tx, accountID, userID)
}

// ApplyDelta adds the signed amount to the locked account's balance and
// persists it. The caller validated ownership when acquiring the lock.
func (l *Ledger) ApplyDelta(ctx context.Context, tx *gorm.DB, account *models.Account, delta decimal.Decimal) error {
	if l == nil || l.Repo == nil || account == nil {
		return nil
	}
	account.CurrentBalance = account.CurrentBalance.Add(delta)
	return l.Repo.UpdateAccountBalanceTx(ctx, tx, account.ID, account.CurrentBalance)
}
