package models

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an account that owns transactions, goals and contributions.
type User struct {
	DefaultModel
	Name         string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
}

var (
	ErrEmailInUse         = errors.New("this email address is already in use")
	ErrEmailInvalid       = errors.New("the email address must not be empty")
	ErrPasswordTooShort   = errors.New("the password must be at least 8 characters long")
	ErrCredentialsInvalid = errors.New("no user exists for this combination of email address and password")
)

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if u.Email == "" {
		return ErrEmailInvalid
	}

	return nil
}

// SetPassword hashes the password and stores the hash on the user.
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies the password against the stored hash.
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserByCredentials returns the user for an email and password
// combination. It does not reveal whether the email or the password was
// wrong.
func UserByCredentials(db *gorm.DB, email, password string) (User, error) {
	var user User

	err := db.Where(&User{Email: strings.ToLower(strings.TrimSpace(email))}).First(&user).Error
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return User{}, ErrCredentialsInvalid
		}
		return User{}, err
	}

	if !user.CheckPassword(password) {
		return User{}, ErrCredentialsInvalid
	}

	return user, nil
}
