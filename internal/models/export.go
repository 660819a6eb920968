package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExportData is a full dump of one user's data, used for device backup
// and for moving to another instance.
type ExportData struct {
	User          User               `json:"user"`
	Households    []Household        `json:"households"`
	Transactions  []Transaction      `json:"transactions"`
	Goals         []Goal             `json:"goals"`
	Contributions []GoalContribution `json:"contributions"`
	CategoryRules []CategoryRule     `json:"categoryRules"`
	RateSettings  RateSettings       `json:"rateSettings"`
	Rates         []ExchangeRate     `json:"rates"`
}

// Export collects all data the user owns or is a member of.
func Export(db *gorm.DB, userID uuid.UUID) (ExportData, error) {
	var data ExportData

	err := db.First(&data.User, userID).Error
	if err != nil {
		return ExportData{}, err
	}

	err = db.
		Joins("JOIN household_members ON household_members.household_id = households.id AND household_members.deleted_at IS NULL").
		Where("household_members.user_id = ?", userID).
		Find(&data.Households).
		Error
	if err != nil {
		return ExportData{}, err
	}

	err = db.Where(&Transaction{UserID: userID}).Find(&data.Transactions).Error
	if err != nil {
		return ExportData{}, err
	}

	err = db.Where(&Goal{UserID: userID}).Find(&data.Goals).Error
	if err != nil {
		return ExportData{}, err
	}

	err = db.
		Joins("JOIN goals ON goals.id = goal_contributions.goal_id AND goals.deleted_at IS NULL").
		Where("goals.user_id = ?", userID).
		Find(&data.Contributions).
		Error
	if err != nil {
		return ExportData{}, err
	}

	err = db.Where(&CategoryRule{UserID: userID}).Find(&data.CategoryRules).Error
	if err != nil {
		return ExportData{}, err
	}

	data.RateSettings, err = Settings(db)
	if err != nil {
		return ExportData{}, err
	}

	err = db.Find(&data.Rates).Error
	if err != nil {
		return ExportData{}, err
	}

	return data, nil
}

// DeleteUserData removes everything the user owns. Household-shared
// records of other members stay untouched.
func DeleteUserData(db *gorm.DB, userID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("goal_id IN (?)", tx.Model(&Goal{}).Select("id").Where("user_id = ?", userID)).
			Delete(&GoalContribution{}).
			Error
		if err != nil {
			return err
		}

		for _, model := range []any{&Transaction{}, &Goal{}, &CategoryRule{}} {
			err := tx.Where("user_id = ?", userID).Delete(model).Error
			if err != nil {
				return err
			}
		}

		err = tx.Where("user_id = ?", userID).Delete(&HouseholdMember{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&User{}, userID).Error
	})
}
