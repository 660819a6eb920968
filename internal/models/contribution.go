package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GoalContribution allocates a percentage of the annual savings figure
// to a goal. It is not a currency amount: a goal funded at 10% tracks
// 10% of whatever the savings figure currently is.
type GoalContribution struct {
	DefaultModel
	GoalID     uuid.UUID
	Goal       Goal
	Percentage decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date       time.Time
	Note       string
}

var (
	ErrContributionNotPositive     = errors.New("contribution percentages must be larger than zero")
	ErrContributionExceedsHeadroom = errors.New("this contribution exceeds the percentage still available for the goal")
)

func (c *GoalContribution) BeforeSave(_ *gorm.DB) error {
	c.Note = strings.TrimSpace(c.Note)

	if c.Date.IsZero() {
		c.Date = time.Now().In(time.UTC)
	} else {
		c.Date = c.Date.In(time.UTC)
	}

	return nil
}

// BeforeCreate enforces the allocation cap: the sum of all percentages
// for a goal never exceeds 100. A contribution that would break the cap
// is rejected and leaves the allocation unchanged.
func (c *GoalContribution) BeforeCreate(tx *gorm.DB) error {
	err := c.DefaultModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	if !c.Percentage.IsPositive() {
		return ErrContributionNotPositive
	}

	var goal Goal
	err = tx.First(&goal, c.GoalID).Error
	if err != nil {
		return err
	}

	headroom, err := goal.Headroom(tx)
	if err != nil {
		return err
	}

	if c.Percentage.GreaterThan(headroom) {
		return ErrContributionExceedsHeadroom
	}

	return nil
}

// BeforeUpdate re-checks the allocation cap when the percentage
// changes. The contribution's own current percentage counts as
// available headroom since it is being replaced.
func (c *GoalContribution) BeforeUpdate(tx *gorm.DB) error {
	if !tx.Statement.Changed("Percentage") {
		return nil
	}

	update, ok := tx.Statement.Dest.(GoalContribution)
	if !ok {
		return nil
	}

	if !update.Percentage.IsPositive() {
		return ErrContributionNotPositive
	}

	var goal Goal
	err := tx.First(&goal, c.GoalID).Error
	if err != nil {
		return err
	}

	headroom, err := goal.Headroom(tx)
	if err != nil {
		return err
	}

	if update.Percentage.GreaterThan(headroom.Add(c.Percentage)) {
		return ErrContributionExceedsHeadroom
	}

	return nil
}

// AfterFind updates the timestamps and the date to use UTC as timezone.
func (c *GoalContribution) AfterFind(tx *gorm.DB) (err error) {
	err = c.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	c.Date = c.Date.In(time.UTC)
	return
}
