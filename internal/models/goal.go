package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/taskbalance/backend/internal/currency"
)

// GoalPriority orders goals for display.
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// Valid reports whether the priority is one of the known priorities.
func (p GoalPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// SortWeight returns the sort position of the priority. Lower weight
// sorts first.
func (p GoalPriority) SortWeight() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Goal is a savings goal funded by percentage-of-savings allocations.
//
// A goal does not store a running amount. Its funded amount is derived
// on read from the live annual savings figure and the goal's allocated
// percentage, so it tracks every ledger change without any propagation
// step. Completion is derived the same way.
type Goal struct {
	DefaultModel
	UserID       uuid.UUID `gorm:"uniqueIndex:goal_user_name"`
	User         User
	Name         string `gorm:"uniqueIndex:goal_user_name"`
	Note         string
	TargetAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Currency     currency.Code
	Priority     GoalPriority
	Archived     bool
}

var (
	ErrGoalTargetNotPositive = errors.New("goal target amounts must be larger than zero")
	ErrGoalPriorityInvalid   = errors.New("the goal priority must be low, medium or high")
	ErrGoalNameNotUnique     = errors.New("this goal name is already in use")
)

func (g *Goal) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Note = strings.TrimSpace(g.Note)

	if g.Priority == "" {
		g.Priority = PriorityMedium
	}

	if !g.Priority.Valid() {
		return ErrGoalPriorityInvalid
	}

	if !g.Currency.Valid() {
		return currency.ErrUnknownCurrency
	}

	return nil
}

func (g *Goal) AfterSave(_ *gorm.DB) error {
	if !g.TargetAmount.IsPositive() {
		return ErrGoalTargetNotPositive
	}

	return nil
}

// AllocatedPercentage returns the sum of all contribution percentages
// for the goal. The contribution write checks keep it in [0, 100].
func (g Goal) AllocatedPercentage(db *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.
		Table("goal_contributions").
		Select("SUM(percentage)").
		Where("deleted_at IS NULL").
		Where("goal_id = ?", g.ID).
		Find(&sum).
		Error
	if err != nil {
		return decimal.Zero, err
	}

	if !sum.Valid {
		return decimal.Zero, nil
	}

	return sum.Decimal, nil
}

// Headroom returns the percentage still available for new
// contributions, floored at 0.
func (g Goal) Headroom(db *gorm.DB) (decimal.Decimal, error) {
	allocated, err := g.AllocatedPercentage(db)
	if err != nil {
		return decimal.Zero, err
	}

	headroom := decimal.NewFromInt(100).Sub(allocated)
	if headroom.IsNegative() {
		return decimal.Zero, nil
	}

	return headroom, nil
}

// FundedAmount derives the goal's current funded amount in the goal's
// currency: the allocated percentage applied to the annual savings
// figure, converted from the base currency.
//
// The result is never stored. It changes automatically whenever the
// savings figure or the allocation changes.
func (g Goal) FundedAmount(db *gorm.DB, annualSavings decimal.Decimal, base currency.Code, table currency.RateTable) (decimal.Decimal, error) {
	allocated, err := g.AllocatedPercentage(db)
	if err != nil {
		return decimal.Zero, err
	}

	inBase := annualSavings.Mul(allocated).Div(decimal.NewFromInt(100))
	return currency.Convert(inBase, base, g.Currency, table), nil
}

// Completed reports whether the derived funded amount reaches the
// target.
func (g Goal) Completed(funded decimal.Decimal) bool {
	return funded.GreaterThanOrEqual(g.TargetAmount)
}
