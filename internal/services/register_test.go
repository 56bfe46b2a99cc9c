package services_test

import (
	"testing"

	"questboard/backend/internal/models"
	"questboard/backend/internal/services"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type RegisterTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service services.RegisterService
}

func (suite *RegisterTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	suite.Require().NoError(db.AutoMigrate(&models.Profile{}))

	suite.db = db
	suite.service = services.NewRegisterService()
}

func (suite *RegisterTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM profiles")
}

func (suite *RegisterTestSuite) TestRegisterUser() {
	profile, err := suite.service.RegisterUser(suite.db, services.RegistrationRequest{
		Email:    "new@test.com",
		Password: "password123",
		Username: "newplayer",
	})
	suite.Require().NoError(err)
	suite.Equal("new@test.com", profile.Email)
	suite.Equal("newplayer", profile.Username)
	suite.NotEqual("password123", profile.Password, "password is stored hashed")
	suite.Zero(profile.Score)
	suite.True(profile.SocialReady())
}

func (suite *RegisterTestSuite) TestRegisterUserWithoutUsername() {
	profile, err := suite.service.RegisterUser(suite.db, services.RegistrationRequest{
		Email:    "anon@test.com",
		Password: "password123",
	})
	suite.Require().NoError(err)
	suite.False(profile.SocialReady())
}

func (suite *RegisterTestSuite) TestRegisterUserDuplicateEmail() {
	_, err := suite.service.RegisterUser(suite.db, services.RegistrationRequest{
		Email:    "dup@test.com",
		Password: "password123",
	})
	suite.Require().NoError(err)

	_, err = suite.service.RegisterUser(suite.db, services.RegistrationRequest{
		Email:    "dup@test.com",
		Password: "password456",
	})
	suite.EqualError(err, "email already exists")
}

func (suite *RegisterTestSuite) TestRegisterUserDuplicateUsername() {
	_, err := suite.service.RegisterUser(suite.db, services.RegistrationRequest{
		Email:    "first@test.com",
		Password: "password123",
		Username: "taken",
	})
	suite.Require().NoError(err)

	_, err = suite.service.RegisterUser(suite.db, services.RegistrationRequest{
		Email:    "second@test.com",
		Password: "password123",
		Username: "taken",
	})
	suite.EqualError(err, "username already exists")
}

func TestRegisterTestSuite(t *testing.T) {
	suite.Run(t, new(RegisterTestSuite))
}
