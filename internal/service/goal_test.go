package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradejournal/internal/models"
)

func TestCreateGoal(t *testing.T) {
	repo := newStubRepo()
	svc := &GoalService{Repo: repo}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	goal, err := svc.Create(context.Background(), 1, CreateGoalParams{
		PeriodType:   models.PeriodMonthly,
		StartDate:    start,
		EndDate:      start.AddDate(0, 1, 0),
		ProfitTarget: dptr("500"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if goal.ID == 0 {
		t.Fatalf("expected assigned id")
	}
}

func TestCreateGoalValidation(t *testing.T) {
	repo := newStubRepo()
	svc := &GoalService{Repo: repo}
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Create(ctx, 1, CreateGoalParams{
		PeriodType: "QUARTERLY", StartDate: start, EndDate: start.AddDate(0, 1, 0),
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad period type, got %v", err)
	}

	if _, err := svc.Create(ctx, 1, CreateGoalParams{
		PeriodType: models.PeriodWeekly, StartDate: start, EndDate: start,
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation when start is not before end, got %v", err)
	}

	if _, err := svc.Create(ctx, 1, CreateGoalParams{
		PeriodType: models.PeriodWeekly, StartDate: start.AddDate(0, 1, 0), EndDate: start,
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for inverted range, got %v", err)
	}
}

func TestUpdateGoalRevalidatesRange(t *testing.T) {
	repo := newStubRepo()
	svc := &GoalService{Repo: repo}
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	goal, err := svc.Create(ctx, 1, CreateGoalParams{
		PeriodType: models.PeriodMonthly,
		StartDate:  start,
		EndDate:    start.AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	badEnd := start.AddDate(0, -1, 0)
	if _, err := svc.Update(ctx, 1, goal.ID, UpdateGoalParams{EndDate: &badEnd}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation when the update inverts the range, got %v", err)
	}

	newEnd := start.AddDate(0, 2, 0)
	updated, err := svc.Update(ctx, 1, goal.ID, UpdateGoalParams{EndDate: &newEnd})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.EndDate.Equal(newEnd) {
		t.Fatalf("expected extended end date, got %s", updated.EndDate)
	}
}

func TestGoalOwnership(t *testing.T) {
	repo := newStubRepo()
	svc := &GoalService{Repo: repo}
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	goal, err := svc.Create(ctx, 1, CreateGoalParams{
		PeriodType: models.PeriodYearly,
		StartDate:  start,
		EndDate:    start.AddDate(1, 0, 0),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, 2, goal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := svc.Delete(ctx, 1, goal.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}
