package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradejournal/internal/ledger"
)

func newDepositService(repo *stubRepo) *DepositService {
	return &DepositService{Repo: repo, Ledger: &ledger.Ledger{Repo: repo}}
}

func TestCreateDepositRaisesBalance(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newDepositService(repo)

	deposit, err := svc.Create(context.Background(), 1, account.ID, CreateDepositParams{
		Amount: dec("200"),
		Date:   time.Now().UTC(),
		Notes:  "monthly top-up",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !deposit.Amount.Equal(dec("200")) {
		t.Fatalf("expected amount 200, got %s", deposit.Amount)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1200")) {
		t.Fatalf("expected balance 1200, got %s", repo.accounts[account.ID].CurrentBalance)
	}
}

func TestCreateDepositValidation(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newDepositService(repo)

	_, err := svc.Create(context.Background(), 1, account.ID, CreateDepositParams{
		Amount: dec("0"),
		Date:   time.Now().UTC(),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for zero amount, got %v", err)
	}

	_, err = svc.Create(context.Background(), 1, 999, CreateDepositParams{
		Amount: dec("10"),
		Date:   time.Now().UTC(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing account, got %v", err)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1000")) {
		t.Fatalf("failed creates must not move the balance, got %s", repo.accounts[account.ID].CurrentBalance)
	}
}

func TestUpdateDepositMovesBalanceByDifference(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newDepositService(repo)
	ctx := context.Background()

	deposit, err := svc.Create(ctx, 1, account.ID, CreateDepositParams{
		Amount: dec("200"),
		Date:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, 1, deposit.ID, UpdateDepositParams{Amount: dptr("350")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Amount.Equal(dec("350")) {
		t.Fatalf("expected amount 350, got %s", updated.Amount)
	}
	// 1000 + 200, then +150 for the 200 -> 350 change.
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1350")) {
		t.Fatalf("expected balance 1350, got %s", repo.accounts[account.ID].CurrentBalance)
	}
}

func TestUpdateDepositSameAmountLeavesBalance(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newDepositService(repo)
	ctx := context.Background()

	deposit, err := svc.Create(ctx, 1, account.ID, CreateDepositParams{
		Amount: dec("200"),
		Date:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	notes := "corrected note"
	if _, err := svc.Update(ctx, 1, deposit.ID, UpdateDepositParams{Amount: dptr("200"), Notes: &notes}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1200")) {
		t.Fatalf("unchanged amount must not move the balance, got %s", repo.accounts[account.ID].CurrentBalance)
	}
}

func TestDeleteDepositRemovesEffect(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newDepositService(repo)
	ctx := context.Background()

	deposit, err := svc.Create(ctx, 1, account.ID, CreateDepositParams{
		Amount: dec("200"),
		Date:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, 1, deposit.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1000")) {
		t.Fatalf("expected balance back at 1000, got %s", repo.accounts[account.ID].CurrentBalance)
	}
	if _, ok := repo.deposits[deposit.ID]; ok {
		t.Fatalf("deposit row should be gone")
	}
}

func TestDepositOwnershipEnforced(t *testing.T) {
	repo := newStubRepo()
	account := repo.addAccount(1, "1000")
	svc := newDepositService(repo)
	ctx := context.Background()

	deposit, err := svc.Create(ctx, 1, account.ID, CreateDepositParams{
		Amount: dec("200"),
		Date:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Delete(ctx, 2, deposit.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if !repo.accounts[account.ID].CurrentBalance.Equal(dec("1200")) {
		t.Fatalf("foreign delete must not move the balance, got %s", repo.accounts[account.ID].CurrentBalance)
	}
}
