package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/taskbalance/backend/internal/currency"
	"github.com/taskbalance/backend/internal/types"
)

// TransactionType determines whether a transaction adds to or subtracts
// from the ledger.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether the type is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction is a single income or expense record.
//
// Amount and Currency are the normalized form: OriginalAmount converted
// to the base currency through the rate table at creation time. They are
// snapshots and never recomputed when rates change later. An explicit
// edit of the original amount or currency re-snapshots them.
type Transaction struct {
	DefaultModel
	UserID           uuid.UUID
	User             User
	Type             TransactionType
	Amount           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Currency         currency.Code
	OriginalAmount   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	OriginalCurrency currency.Code
	Category         string
	Note             string
	Date             time.Time
	Shared           bool
	HouseholdID      *uuid.UUID
	Household        Household
}

var (
	ErrTransactionTypeInvalid       = errors.New("the transaction type must be income or expense")
	ErrTransactionAmountNotPositive = errors.New("transaction amounts must be larger than zero")
	ErrSharedWithoutHousehold       = errors.New("a shared transaction must reference a household")
)

// AfterFind updates the timestamps and the date to use UTC as timezone.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return
}

// BeforeSave
//   - trims whitespace from string fields
//   - sets the timezone for the Date to UTC
//   - verifies that personal and household ledger storage stay mutually
//     exclusive
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Category = strings.TrimSpace(t.Category)
	t.Note = strings.TrimSpace(t.Note)

	if !t.Type.Valid() {
		return ErrTransactionTypeInvalid
	}

	if !t.OriginalCurrency.Valid() {
		return currency.ErrUnknownCurrency
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	// Ensure that the household ID is nil and not a pointer to a nil
	// UUID when it is unset
	if t.HouseholdID != nil && *t.HouseholdID == uuid.Nil {
		t.HouseholdID = nil
	}

	// A transaction is stored in exactly one ledger
	if t.Shared && t.HouseholdID == nil {
		return ErrSharedWithoutHousehold
	}
	if !t.Shared {
		t.HouseholdID = nil
	}

	return nil
}

// BeforeCreate snapshots the normalized amount through the current rate
// table and fills in the category from the user's category rules.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	err := t.DefaultModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	if !t.OriginalAmount.IsPositive() {
		return ErrTransactionAmountNotPositive
	}

	t.Amount, t.Currency, err = normalize(tx, t.OriginalAmount, t.OriginalCurrency)
	if err != nil {
		return err
	}

	if t.Category == "" {
		category, err := matchCategory(tx, t.UserID, t.Note)
		if err != nil {
			return err
		}
		t.Category = category
	}

	return nil
}

// BeforeUpdate re-snapshots the normalized amount with the current rate
// table, but only when the original amount or currency change. All other
// updates leave the normalized fields untouched.
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	if !tx.Statement.Changed("OriginalAmount") && !tx.Statement.Changed("OriginalCurrency") {
		return nil
	}

	var toSave Transaction
	switch dest := tx.Statement.Dest.(type) {
	case Transaction:
		toSave = dest
	case *Transaction:
		toSave = *dest
	default:
		// Raw column updates, e.g. migration backfills, set the
		// normalized fields themselves
		return nil
	}

	amount := t.OriginalAmount
	if tx.Statement.Changed("OriginalAmount") {
		amount = toSave.OriginalAmount
	}

	code := t.OriginalCurrency
	if tx.Statement.Changed("OriginalCurrency") {
		code = toSave.OriginalCurrency
	}

	if !amount.IsPositive() {
		return ErrTransactionAmountNotPositive
	}

	if !code.Valid() {
		return currency.ErrUnknownCurrency
	}

	normalized, base, err := normalize(tx, amount, code)
	if err != nil {
		return err
	}

	// Field-restricted updates would drop the snapshot columns again
	if len(tx.Statement.Selects) > 0 {
		tx.Statement.Selects = append(tx.Statement.Selects, "Amount", "Currency")
	}

	tx.Statement.SetColumn("Amount", normalized)
	tx.Statement.SetColumn("Currency", base)
	return nil
}

// normalize converts an amount to the current base currency using the
// current rate table.
func normalize(tx *gorm.DB, amount decimal.Decimal, code currency.Code) (decimal.Decimal, currency.Code, error) {
	settings, err := Settings(tx)
	if err != nil {
		return decimal.Zero, "", err
	}

	table, err := Rates(tx)
	if err != nil {
		return decimal.Zero, "", err
	}

	return currency.Convert(amount, code, settings.BaseCurrency, table), settings.BaseCurrency, nil
}

// transactionSum sums the normalized amounts of all transactions of one
// type in [from, to), restricted by the conditions in where. A nil
// shared pointer sums over both ledgers.
//
// The shared flag is a separate parameter since gorm ignores false
// values in struct conditions.
func transactionSum(db *gorm.DB, typ TransactionType, shared *bool, from, to time.Time, where *Transaction) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	query := db.
		Table("transactions").
		Select("SUM(amount)").
		Where("deleted_at IS NULL").
		Where("type = ?", typ).
		Where("date >= ? AND date < ?", from, to).
		Where(where)

	if shared != nil {
		query = query.Where("shared = ?", *shared)
	}

	err := query.Find(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}

	// No matching transactions
	if !sum.Valid {
		return decimal.Zero, nil
	}

	return sum.Decimal, nil
}

// personal and shared select one of the two ledgers in sums.
var (
	personal = false
	shared   = true
)

// MonthlySum returns the sum of a user's personal transactions of one
// type in a calendar month.
func MonthlySum(db *gorm.DB, userID uuid.UUID, typ TransactionType, month types.Month) (decimal.Decimal, error) {
	from := time.Time(month)
	to := time.Time(month.AddDate(0, 1))

	return transactionSum(db, typ, &personal, from, to, &Transaction{UserID: userID})
}

// YearlySum returns the sum of a user's personal transactions of one
// type in a calendar year.
func YearlySum(db *gorm.DB, userID uuid.UUID, typ TransactionType, year types.Year) (decimal.Decimal, error) {
	return transactionSum(db, typ, &personal, year.First(), year.Next().First(), &Transaction{UserID: userID})
}

// HouseholdMonthlySum returns the sum of a household's shared
// transactions of one type in a calendar month. Set ownerID to restrict
// the sum to the transactions a single member contributed.
func HouseholdMonthlySum(db *gorm.DB, householdID uuid.UUID, ownerID uuid.UUID, typ TransactionType, month types.Month) (decimal.Decimal, error) {
	from := time.Time(month)
	to := time.Time(month.AddDate(0, 1))

	where := &Transaction{HouseholdID: &householdID, UserID: ownerID}
	return transactionSum(db, typ, &shared, from, to, where)
}

// HouseholdYearlySum is the yearly variant of HouseholdMonthlySum.
func HouseholdYearlySum(db *gorm.DB, householdID uuid.UUID, ownerID uuid.UUID, typ TransactionType, year types.Year) (decimal.Decimal, error) {
	where := &Transaction{HouseholdID: &householdID, UserID: ownerID}
	return transactionSum(db, typ, &shared, year.First(), year.Next().First(), where)
}

// AnnualSavings returns a user's income minus expenses for a calendar
// year, over all transactions the user owns, personal and shared. This
// is the live figure percentage based goal contributions are applied
// to.
func AnnualSavings(db *gorm.DB, userID uuid.UUID, year types.Year) (decimal.Decimal, error) {
	from := year.First()
	to := year.Next().First()
	where := &Transaction{UserID: userID}

	income, err := transactionSum(db, Income, nil, from, to, where)
	if err != nil {
		return decimal.Zero, err
	}

	expenses, err := transactionSum(db, Expense, nil, from, to, where)
	if err != nil {
		return decimal.Zero, err
	}

	return income.Sub(expenses), nil
}
