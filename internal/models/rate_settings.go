package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/taskbalance/backend/internal/currency"
)

// RateSettings is the single row of exchange rate configuration.
//
// Rates themselves live in ExchangeRate rows and stay pivot-relative:
// changing the base currency only changes this row, never the rate
// table.
type RateSettings struct {
	// There is exactly one settings row
	ID             uint `gorm:"primaryKey" json:"-"`
	BaseCurrency   currency.Code
	RatesUpdatedAt time.Time
}

// ExchangeRate is the stored rate for one currency: how many pivot
// currency units one unit of it is worth.
type ExchangeRate struct {
	Timestamps
	Currency currency.Code   `gorm:"primaryKey"`
	Rate     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// rateStaleness is how old the rate table may get before a refresh is
// due.
const rateStaleness = 24 * time.Hour

var ErrRateExists = errors.New("there already is a rate for this currency")

// defaultRates seeds a fresh database. The first successful refresh
// replaces them.
var defaultRates = currency.RateTable{
	currency.UYU: decimal.NewFromInt(1),
	currency.USD: decimal.RequireFromString("42.5"),
	currency.EUR: decimal.RequireFromString("46.8"),
}

// seedRateSettings creates the settings row and the initial rate table
// on first start.
func seedRateSettings(db *gorm.DB) error {
	var count int64
	err := db.Model(&RateSettings{}).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	settings := RateSettings{
		ID:             1,
		BaseCurrency:   currency.Pivot,
		RatesUpdatedAt: time.Now().In(time.UTC),
	}

	err = db.Create(&settings).Error
	if err != nil {
		return err
	}

	for _, code := range currency.Codes {
		err = db.Create(&ExchangeRate{Currency: code, Rate: defaultRates[code]}).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// Settings returns the exchange rate settings.
func Settings(db *gorm.DB) (RateSettings, error) {
	var settings RateSettings
	err := db.First(&settings, 1).Error
	return settings, err
}

// Rates returns the stored rate table, validated.
func Rates(db *gorm.DB) (currency.RateTable, error) {
	var rates []ExchangeRate

	err := db.Find(&rates).Error
	if err != nil {
		return nil, err
	}

	table := make(currency.RateTable, len(rates))
	for _, rate := range rates {
		table[rate.Currency] = rate.Rate
	}

	err = table.Validate()
	if err != nil {
		return nil, err
	}

	return table, nil
}

// NeedsRefresh reports whether the rate table is stale at the given
// time.
func (s RateSettings) NeedsRefresh(now time.Time) bool {
	return now.Sub(s.RatesUpdatedAt) >= rateStaleness
}

// ReplaceRates swaps in a full replacement rate table. The table is
// validated first so that a broken refresh can never shadow a working
// one.
func ReplaceRates(db *gorm.DB, table currency.RateTable, now time.Time) error {
	err := table.Validate()
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, code := range currency.Codes {
			err := tx.Model(&ExchangeRate{Currency: code}).Update("rate", table[code]).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&RateSettings{ID: 1}).Update("rates_updated_at", now.In(time.UTC)).Error
	})
}

// SetBaseCurrency changes the base currency for normalization. Stored
// rates are pivot-relative and stay untouched.
func SetBaseCurrency(db *gorm.DB, code currency.Code) error {
	if !code.Valid() {
		return currency.ErrUnknownCurrency
	}

	return db.Model(&RateSettings{ID: 1}).Update("base_currency", code).Error
}
