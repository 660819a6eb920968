package models_test

import (
	"github.com/taskbalance/backend/internal/models"
)

func (suite *TestSuiteStandard) TestUserPassword() {
	user := suite.createTestUser(models.User{})

	suite.Assert().True(user.CheckPassword("correct horse battery staple"))
	suite.Assert().False(user.CheckPassword("incorrect zebra"))
}

func (suite *TestSuiteStandard) TestUserPasswordTooShort() {
	var user models.User

	err := user.SetPassword("hunter2")
	suite.Assert().ErrorIs(err, models.ErrPasswordTooShort)
}

func (suite *TestSuiteStandard) TestUserEmailNormalized() {
	user := models.User{
		Name:  "Carla",
		Email: "  Carla@Example.COM ",
	}
	suite.Require().Nil(user.SetPassword("correct horse battery staple"))
	suite.Require().Nil(models.DB.Create(&user).Error)

	suite.Assert().Equal("carla@example.com", user.Email)
}

func (suite *TestSuiteStandard) TestUserEmailUnique() {
	user := suite.createTestUser(models.User{})

	duplicate := models.User{
		Name:  "Impostor",
		Email: user.Email,
	}
	suite.Require().Nil(duplicate.SetPassword("correct horse battery staple"))

	err := models.DB.Create(&duplicate).Error
	suite.Assert().ErrorIs(err, models.ErrEmailInUse)
}

// TestUserByCredentials verifies that a wrong email and a wrong
// password are indistinguishable to the caller.
func (suite *TestSuiteStandard) TestUserByCredentials() {
	user := suite.createTestUser(models.User{})

	found, err := models.UserByCredentials(models.DB, user.Email, "correct horse battery staple")
	suite.Require().Nil(err)
	suite.Assert().Equal(user.ID, found.ID)

	_, err = models.UserByCredentials(models.DB, user.Email, "wrong password")
	suite.Assert().ErrorIs(err, models.ErrCredentialsInvalid)

	_, err = models.UserByCredentials(models.DB, "ghost@example.com", "correct horse battery staple")
	suite.Assert().ErrorIs(err, models.ErrCredentialsInvalid)
}
