package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chromacord/api/internal/config"
	"github.com/chromacord/api/internal/entity"
	"github.com/chromacord/api/internal/modules/user/dto"
	userRepo "github.com/chromacord/api/internal/modules/user/repository"
	"github.com/chromacord/api/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	cfg     *config.Config
	service AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&entity.User{})
	suite.Require().NoError(err)

	suite.cfg = &config.Config{
		JWTSecret: "test-secret",
		JWTTTL:    2 * time.Hour,
	}
	suite.service = NewAuthService(userRepo.NewUserRepository(suite.db), suite.cfg)
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthServiceTestSuite) createLocalUser(name, email, password string) *entity.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	suite.Require().NoError(err)
	hashStr := string(hash)
	loginMethod := "local"

	user := &entity.User{
		OpenID:       "local:" + name,
		Name:         &name,
		Email:        &email,
		PasswordHash: &hashStr,
		LoginMethod:  &loginMethod,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *AuthServiceTestSuite) TestLogin_SignsTokenWithConfiguredSecretAndTTL() {
	user := suite.createLocalUser("mona", "mona@example.com", "hunter2-hunter2")

	res, err := suite.service.Login(context.Background(), dto.LoginInput{
		Email:    "mona@example.com",
		Password: "hunter2-hunter2",
	})
	suite.Require().NoError(err)
	suite.Require().NotEmpty(res.Token)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(suite.cfg.JWTSecret), nil
	})
	suite.Require().NoError(err)
	suite.Require().True(token.Valid)

	assert.Equal(suite.T(), fmt.Sprintf("%d", user.ID), claims.Subject)
	assert.WithinDuration(suite.T(), time.Now().Add(suite.cfg.JWTTTL), claims.ExpiresAt.Time, time.Minute)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPasswordRejected() {
	suite.createLocalUser("mona", "mona@example.com", "hunter2-hunter2")

	_, err := suite.service.Login(context.Background(), dto.LoginInput{
		Email:    "mona@example.com",
		Password: "not-the-password",
	})
	assert.Error(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestMe_UnknownUser() {
	_, err := suite.service.Me(context.Background(), 999)
	assert.ErrorIs(suite.T(), err, apperror.ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestTotalUsers() {
	suite.createLocalUser("mona", "mona@example.com", "hunter2-hunter2")
	suite.createLocalUser("vincent", "vincent@example.com", "hunter2-hunter2")

	count, err := suite.service.TotalUsers(context.Background())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), count)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
