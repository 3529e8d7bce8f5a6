package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

type GoalService struct {
	Repo repository.Repository
}

type CreateGoalParams struct {
	PeriodType    string
	StartDate     time.Time
	EndDate       time.Time
	ProfitTarget  *decimal.Decimal
	TradesTarget  *int
	WinRateTarget *decimal.Decimal
	OtherTargets  string
	Notes         string
}

type UpdateGoalParams struct {
	PeriodType    *string
	StartDate     *time.Time
	EndDate       *time.Time
	ProfitTarget  *decimal.Decimal
	TradesTarget  *int
	WinRateTarget *decimal.Decimal
	OtherTargets  *string
	Notes         *string
}

func validPeriodType(p string) bool {
	switch p {
	case models.PeriodWeekly, models.PeriodMonthly, models.PeriodYearly:
		return true
	}
	return false
}

func (s *GoalService) Create(ctx context.Context, userID uint64, p CreateGoalParams) (*models.Goal, error) {
	if !validPeriodType(p.PeriodType) {
		return nil, fmt.Errorf("%w: period_type must be WEEKLY, MONTHLY or YEARLY", ErrValidation)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date and end_date are required", ErrValidation)
	}
	if !p.StartDate.Before(p.EndDate) {
		return nil, fmt.Errorf("%w: start_date must be before end_date", ErrValidation)
	}

	goal := &models.Goal{
		UserID:        userID,
		PeriodType:    p.PeriodType,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		ProfitTarget:  p.ProfitTarget,
		TradesTarget:  p.TradesTarget,
		WinRateTarget: p.WinRateTarget,
		OtherTargets:  p.OtherTargets,
		Notes:         p.Notes,
	}
	if err := s.Repo.InsertGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Update(ctx context.Context, userID, goalID uint64, p UpdateGoalParams) (*models.Goal, error) {
	goal, err := s.Repo.GetGoalByID(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, fmt.Errorf("%w: goal", ErrNotFound)
	}

	if p.PeriodType != nil {
		if !validPeriodType(*p.PeriodType) {
			return nil, fmt.Errorf("%w: period_type must be WEEKLY, MONTHLY or YEARLY", ErrValidation)
		}
		goal.PeriodType = *p.PeriodType
	}
	if p.StartDate != nil {
		goal.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		goal.EndDate = *p.EndDate
	}
	if !goal.StartDate.Before(goal.EndDate) {
		return nil, fmt.Errorf("%w: start_date must be before end_date", ErrValidation)
	}
	if p.ProfitTarget != nil {
		goal.ProfitTarget = p.ProfitTarget
	}
	if p.TradesTarget != nil {
		goal.TradesTarget = p.TradesTarget
	}
	if p.WinRateTarget != nil {
		goal.WinRateTarget = p.WinRateTarget
	}
	if p.OtherTargets != nil {
		goal.OtherTargets = *p.OtherTargets
	}
	if p.Notes != nil {
		goal.Notes = *p.Notes
	}

	if err := s.Repo.SaveGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID uint64) error {
	goal, err := s.Repo.GetGoalByID(ctx, goalID, userID)
	if err != nil {
		return err
	}
	if goal == nil {
		return fmt.Errorf("%w: goal", ErrNotFound)
	}
	return s.Repo.DeleteGoal(ctx, goalID)
}
