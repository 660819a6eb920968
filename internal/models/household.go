package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/taskbalance/backend/internal/types"
)

// Household groups users that share transactions.
type Household struct {
	DefaultModel
	Name string
	Note string
}

// HouseholdRole determines what a member may do in a household.
type HouseholdRole string

const (
	RoleOwner  HouseholdRole = "owner"
	RoleMember HouseholdRole = "member"
)

// HouseholdMember connects a user to a household.
type HouseholdMember struct {
	DefaultModel
	HouseholdID uuid.UUID `gorm:"uniqueIndex:member_household_user"`
	Household   Household
	UserID      uuid.UUID `gorm:"uniqueIndex:member_household_user"`
	User        User
	Role        HouseholdRole
}

var (
	ErrHouseholdNameEmpty = errors.New("the household name must not be empty")
	ErrAlreadyMember      = errors.New("this user is already a member of the household")
	ErrNotAMember         = errors.New("this user is not a member of the household")
)

func (h *Household) BeforeSave(_ *gorm.DB) error {
	h.Name = strings.TrimSpace(h.Name)
	h.Note = strings.TrimSpace(h.Note)

	if h.Name == "" {
		return ErrHouseholdNameEmpty
	}

	return nil
}

func (m *HouseholdMember) BeforeCreate(tx *gorm.DB) error {
	err := m.DefaultModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	if m.Role == "" {
		m.Role = RoleMember
	}

	// Household and user have to exist
	err = tx.First(&Household{}, m.HouseholdID).Error
	if err != nil {
		return err
	}

	return tx.First(&User{}, m.UserID).Error
}

// Members returns all members of the household with their users loaded.
func (h Household) Members(db *gorm.DB) ([]HouseholdMember, error) {
	var members []HouseholdMember

	err := db.
		Preload("User").
		Where(&HouseholdMember{HouseholdID: h.ID}).
		Order("created_at ASC").
		Find(&members).
		Error
	if err != nil {
		return nil, err
	}

	return members, nil
}

// IsMember reports whether the user is a member of the household.
func IsMember(db *gorm.DB, householdID, userID uuid.UUID) (bool, error) {
	var count int64

	err := db.
		Model(&HouseholdMember{}).
		Where(&HouseholdMember{HouseholdID: householdID, UserID: userID}).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// MemberContribution is one member's share of a household summary.
type MemberContribution struct {
	UserID     uuid.UUID       `json:"userId" example:"65392deb-5e92-4268-b114-297faad6cdce"` // The member
	Name       string          `json:"name" example:"Morre"`                                   // Display name of the member
	Income     decimal.Decimal `json:"income" example:"2317.34"`                               // The member's shared income this month
	Expenses   decimal.Decimal `json:"expenses" example:"1425.12"`                             // The member's shared expenses this month
	Balance    decimal.Decimal `json:"balance" example:"892.22"`                               // Income minus expenses
	Percentage decimal.Decimal `json:"percentage" example:"52.5"`                              // The member's share of the household income in percent
}

// HouseholdSummary is the derived household-wide view over the shared
// ledger. It is computed on demand and never stored.
type HouseholdSummary struct {
	HouseholdID    uuid.UUID            `json:"householdId" example:"1e777d24-3f5b-4c43-8000-04f65f895578"` // The household
	Month          types.Month          `json:"month" example:"2026-05-01T00:00:00.000000Z"`                // Month the calculations are made for
	TotalIncome    decimal.Decimal      `json:"totalIncome" example:"4200"`                                 // Shared income of all members this month
	TotalExpenses  decimal.Decimal      `json:"totalExpenses" example:"3100.50"`                            // Shared expenses of all members this month
	MonthlySavings decimal.Decimal      `json:"monthlySavings" example:"1099.50"`                           // Income minus expenses this month
	AnnualSavings  decimal.Decimal      `json:"annualSavings" example:"13194"`                              // Income minus expenses for the month's year
	Members        []MemberContribution `json:"members"`                                                    // Per-member breakdown
}

// Summary computes the household summary for a month.
//
// A member's percentage is their share of the total household income.
// When the household has no income in the month, all percentages are
// zero.
func (h Household) Summary(db *gorm.DB, month types.Month) (HouseholdSummary, error) {
	summary := HouseholdSummary{
		HouseholdID: h.ID,
		Month:       month,
	}

	members, err := h.Members(db)
	if err != nil {
		return HouseholdSummary{}, err
	}

	summary.Members = make([]MemberContribution, 0, len(members))
	for _, member := range members {
		income, err := HouseholdMonthlySum(db, h.ID, member.UserID, Income, month)
		if err != nil {
			return HouseholdSummary{}, err
		}

		expenses, err := HouseholdMonthlySum(db, h.ID, member.UserID, Expense, month)
		if err != nil {
			return HouseholdSummary{}, err
		}

		summary.Members = append(summary.Members, MemberContribution{
			UserID:   member.UserID,
			Name:     member.User.Name,
			Income:   income,
			Expenses: expenses,
			Balance:  income.Sub(expenses),
		})

		summary.TotalIncome = summary.TotalIncome.Add(income)
		summary.TotalExpenses = summary.TotalExpenses.Add(expenses)
	}

	summary.MonthlySavings = summary.TotalIncome.Sub(summary.TotalExpenses)

	// Percentages stay zero when there is no income to divide up
	if summary.TotalIncome.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for i := range summary.Members {
			summary.Members[i].Percentage = summary.Members[i].Income.Div(summary.TotalIncome).Mul(hundred)
		}
	}

	yearlyIncome, err := HouseholdYearlySum(db, h.ID, uuid.Nil, Income, month.Year())
	if err != nil {
		return HouseholdSummary{}, err
	}

	yearlyExpenses, err := HouseholdYearlySum(db, h.ID, uuid.Nil, Expense, month.Year())
	if err != nil {
		return HouseholdSummary{}, err
	}

	summary.AnnualSavings = yearlyIncome.Sub(yearlyExpenses)

	return summary, nil
}

// InvitationStatus is the state of a household invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// Invitation invites a user into a household by email address. It is a
// one-shot transition from pending to accepted or rejected. Expired
// invitations stay visible, they just cannot be accepted anymore.
type Invitation struct {
	DefaultModel
	HouseholdID uuid.UUID
	Household   Household
	Email       string
	Status      InvitationStatus
	ExpiresAt   time.Time
}

// invitationValidity is how long an invitation can be accepted.
const invitationValidity = 14 * 24 * time.Hour

var (
	ErrInvitationNotPending = errors.New("this invitation has already been accepted or rejected")
	ErrInvitationExpired    = errors.New("this invitation has expired")
)

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	err := i.DefaultModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	i.Email = strings.ToLower(strings.TrimSpace(i.Email))
	if i.Email == "" {
		return ErrEmailInvalid
	}

	if i.Status == "" {
		i.Status = InvitationPending
	}

	if i.ExpiresAt.IsZero() {
		i.ExpiresAt = time.Now().In(time.UTC).Add(invitationValidity)
	}

	return tx.First(&Household{}, i.HouseholdID).Error
}

// Accept makes the user a member of the household and marks the
// invitation as accepted. Accepting is only possible while the
// invitation is pending and not past its expiry.
func (i *Invitation) Accept(db *gorm.DB, user User, now time.Time) error {
	if i.Status != InvitationPending {
		return ErrInvitationNotPending
	}

	if now.After(i.ExpiresAt) {
		return ErrInvitationExpired
	}

	return db.Transaction(func(tx *gorm.DB) error {
		member := HouseholdMember{
			HouseholdID: i.HouseholdID,
			UserID:      user.ID,
			Role:        RoleMember,
		}

		err := tx.Create(&member).Error
		if err != nil {
			return err
		}

		i.Status = InvitationAccepted
		return tx.Model(i).Select("Status").Updates(Invitation{Status: InvitationAccepted}).Error
	})
}

// Reject marks the invitation as rejected. Rejecting an expired
// invitation is allowed.
func (i *Invitation) Reject(db *gorm.DB) error {
	if i.Status != InvitationPending {
		return ErrInvitationNotPending
	}

	i.Status = InvitationRejected
	return db.Model(i).Select("Status").Updates(Invitation{Status: InvitationRejected}).Error
}
