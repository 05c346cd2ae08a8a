package profile

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/chromacord/api/internal/entity"
	activityRepo "github.com/chromacord/api/internal/modules/activity/repository"
	activity "github.com/chromacord/api/internal/modules/activity/service"
	profileDto "github.com/chromacord/api/internal/modules/profile/dto"
	userRepo "github.com/chromacord/api/internal/modules/user/repository"
	"github.com/chromacord/api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeImageStorage struct {
	uploads int
	deleted []string
}

func (f *fakeImageStorage) UploadImage(_ context.Context, _ io.Reader, folder, fileName string) (string, error) {
	f.uploads++
	return fmt.Sprintf("https://cdn.example.com/%s/%s", folder, fileName), nil
}

func (f *fakeImageStorage) DeleteImage(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type ProfileServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	storage *fakeImageStorage
	service ProfileService
}

func (suite *ProfileServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&entity.User{}, &entity.ActivityLog{}, &entity.Trophy{})
	suite.Require().NoError(err)

	activitySvc := activity.NewActivityService(activityRepo.NewActivityRepository(suite.db))
	suite.storage = &fakeImageStorage{}
	suite.service = NewProfileService(userRepo.NewUserRepository(suite.db), activitySvc, suite.storage)
}

func (suite *ProfileServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProfileServiceTestSuite) createTestUser(name string, points int) *entity.User {
	email := name + "@example.com"
	user := &entity.User{OpenID: "local:" + name, Name: &name, Email: &email, ActivityPoints: points}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ProfileServiceTestSuite) TestGet_OwnIncludesEmail() {
	mona := suite.createTestUser("mona", 75)

	res, err := suite.service.Get(context.Background(), mona.ID, true)
	suite.Require().NoError(err)
	suite.Require().NotNil(res.Email)
	assert.Equal(suite.T(), "mona@example.com", *res.Email)
	assert.Equal(suite.T(), activity.TitleApprentice, res.TitleStatus.Title)
	assert.Equal(suite.T(), 75, res.ActivityPoints)
}

func (suite *ProfileServiceTestSuite) TestGet_OtherHidesEmail() {
	mona := suite.createTestUser("mona", 0)

	res, err := suite.service.Get(context.Background(), mona.ID, false)
	suite.Require().NoError(err)
	assert.Nil(suite.T(), res.Email)
}

func (suite *ProfileServiceTestSuite) TestGet_MissingNotFound() {
	_, err := suite.service.Get(context.Background(), 999, true)
	assert.ErrorIs(suite.T(), err, apperror.ErrNotFound)
}

func (suite *ProfileServiceTestSuite) TestUpdate_NameAndBio() {
	mona := suite.createTestUser("mona", 0)

	name := "Mona L."
	bio := "I paint with hex codes"
	res, err := suite.service.Update(context.Background(), mona.ID, profileDto.UpdateProfileInput{
		Name: &name,
		Bio:  &bio,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(res.Name)
	assert.Equal(suite.T(), "Mona L.", *res.Name)
	suite.Require().NotNil(res.Bio)
	assert.Equal(suite.T(), "I paint with hex codes", *res.Bio)
}

func (suite *ProfileServiceTestSuite) TestUploadAvatar_RejectsWrongType() {
	mona := suite.createTestUser("mona", 0)

	_, err := suite.service.UploadAvatar(context.Background(), mona.ID, AvatarUpload{
		Reader:      strings.NewReader("not an image"),
		FileName:    "malware.exe",
		ContentType: "application/octet-stream",
		Size:        128,
	})
	assert.ErrorIs(suite.T(), err, apperror.ErrInvalidInput)
	assert.Equal(suite.T(), 0, suite.storage.uploads)

	var stored entity.User
	suite.Require().NoError(suite.db.First(&stored, mona.ID).Error)
	assert.Nil(suite.T(), stored.Avatar)
}

func (suite *ProfileServiceTestSuite) TestUploadAvatar_RejectsOversized() {
	mona := suite.createTestUser("mona", 0)

	_, err := suite.service.UploadAvatar(context.Background(), mona.ID, AvatarUpload{
		Reader:      strings.NewReader("x"),
		FileName:    "big.png",
		ContentType: "image/png",
		Size:        MaxAvatarSize + 1,
	})
	assert.ErrorIs(suite.T(), err, apperror.ErrInvalidInput)
	assert.Equal(suite.T(), 0, suite.storage.uploads)
}

func (suite *ProfileServiceTestSuite) TestUploadAvatar_StoresAndReplacesOld() {
	mona := suite.createTestUser("mona", 0)
	old := "https://cdn.example.com/avatars/old.webp"
	suite.Require().NoError(suite.db.Model(&entity.User{}).Where("id = ?", mona.ID).Update("avatar", old).Error)

	url, err := suite.service.UploadAvatar(context.Background(), mona.ID, AvatarUpload{
		Reader:      strings.NewReader("png bytes"),
		FileName:    "new.png",
		ContentType: "image/png",
		Size:        9,
	})
	suite.Require().NoError(err)
	assert.Contains(suite.T(), url, "avatars")

	var stored entity.User
	suite.Require().NoError(suite.db.First(&stored, mona.ID).Error)
	suite.Require().NotNil(stored.Avatar)
	assert.Equal(suite.T(), url, *stored.Avatar)
	assert.Equal(suite.T(), []string{old}, suite.storage.deleted)
}

func (suite *ProfileServiceTestSuite) TestTrophiesAndActivity() {
	mona := suite.createTestUser("mona", 45)

	// cross the Apprentice threshold to earn a trophy
	activitySvc := activity.NewActivityService(activityRepo.NewActivityRepository(suite.db))
	activitySvc.Record(context.Background(), mona.ID, activity.ActionFriendAdded)

	trophies, err := suite.service.Trophies(context.Background(), mona.ID)
	suite.Require().NoError(err)
	suite.Require().Len(trophies, 1)
	assert.Equal(suite.T(), activity.TitleApprentice, trophies[0].TrophyName)

	logs, err := suite.service.Activity(context.Background(), mona.ID, 10)
	suite.Require().NoError(err)
	assert.Len(suite.T(), logs, 1)
}

func TestProfileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}
