package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// CategoryRule automatically categorizes new transactions. When a
// transaction is created without a category, the rules of its owner are
// checked in priority order and the first whose glob pattern matches
// the transaction note fills in the category.
type CategoryRule struct {
	DefaultModel
	UserID   uuid.UUID
	User     User
	Priority uint
	Match    string
	Category string
}

func (r *CategoryRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	r.Category = strings.TrimSpace(r.Category)

	return nil
}

// matchCategory returns the category of the first matching rule, or ""
// when no rule matches.
func matchCategory(tx *gorm.DB, userID uuid.UUID, note string) (string, error) {
	var rules []CategoryRule

	err := tx.
		Where(&CategoryRule{UserID: userID}).
		Order("priority ASC").
		Find(&rules).
		Error
	if err != nil {
		return "", err
	}

	for _, rule := range rules {
		if glob.Glob(rule.Match, note) {
			return rule.Category, nil
		}
	}

	return "", nil
}
