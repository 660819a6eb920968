package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/taskbalance/backend/internal/currency"
)

// DB is the database used by the backend.
var DB *gorm.DB

// Connect opens the SQLite database and configures the connection pool.
func Connect(dsn string) error {
	config := &gorm.Config{
		// Generated timestamps are always UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: &logger{
			Logger: log.Logger,
		},
	}

	dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)
	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// This is done to prevent SQLITE_BUSY errors
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	// Query callbacks
	err = db.Callback().Query().After("*").Register("taskbalance:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("taskbalance:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	// Create callbacks
	err = db.Callback().Create().After("*").Register("taskbalance:after_create", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("taskbalance:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	// Update callbacks
	err = db.Callback().Update().After("*").Register("taskbalance:after_update", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("taskbalance:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	// Delete callbacks
	err = db.Callback().Delete().After("*").Register("taskbalance:after_delete_general", generalCallback)
	if err != nil {
		return err
	}

	err = migrate(db)
	if err != nil {
		return err
	}

	DB = db
	return nil
}

// migrate migrates the database schema, seeds the exchange rate
// settings and backfills data written by earlier app versions.
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		User{},
		Household{},
		HouseholdMember{},
		Invitation{},
		RateSettings{},
		ExchangeRate{},
		Transaction{},
		Goal{},
		GoalContribution{},
		CategoryRule{},
	)
	if err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	err = seedRateSettings(db)
	if err != nil {
		return err
	}

	return migrateLegacyCurrencies(db)
}

// migrateLegacyCurrencies backfills the original currency for
// transactions written before the field existed. Those records were
// always entered in the pivot currency, so they default to it.
func migrateLegacyCurrencies(db *gorm.DB) error {
	// Hooks are skipped, the zero-value model would not validate
	result := db.Session(&gorm.Session{SkipHooks: true}).
		Model(&Transaction{}).
		Where("original_currency = ''").
		Updates(map[string]any{"original_currency": currency.Pivot, "currency": currency.Pivot})
	if result.Error != nil {
		return fmt.Errorf("currency backfill failed: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		log.Info().
			Int64("transactions", result.RowsAffected).
			Str("currency", string(currency.Pivot)).
			Msg("backfilled missing currencies")
	}

	return nil
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Replace pluralized "ies" with "y"
		match := regexp.MustCompile("ies$")
		name = match.ReplaceAllString(name, "y")

		// Remove plural "s"
		name = strings.TrimRight(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for
// create and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// Email addresses identify users
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: users.email") {
		db.Error = ErrEmailInUse
	}

	// A user can only be a member of a household once
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: household_members.household_id, household_members.user_id") {
		db.Error = ErrAlreadyMember
	}

	// Goal names need to be unique per user
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: goals.user_id, goals.name") {
		db.Error = ErrGoalNameNotUnique
	}

	// One rate per currency
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: exchange_rates.currency") {
		db.Error = ErrRateExists
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module, see
	// https://cs.opensource.google/go/go/+/master:src/database/sql/sql.go;l=1298;drc=0d018b49e33b1383dc0ae5cc968e800dffeeaf7d
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		// A general error where we cannot provide more useful information
		// to the end user. We log it so that server admins can debug.
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral

		return
	}
}
