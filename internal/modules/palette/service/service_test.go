package palette

import (
	"context"
	"testing"

	"github.com/chromacord/api/internal/entity"
	activityRepo "github.com/chromacord/api/internal/modules/activity/repository"
	activity "github.com/chromacord/api/internal/modules/activity/service"
	paletteDto "github.com/chromacord/api/internal/modules/palette/dto"
	paletteRepo "github.com/chromacord/api/internal/modules/palette/repository"
	userRepo "github.com/chromacord/api/internal/modules/user/repository"
	"github.com/chromacord/api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type PaletteServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service PaletteService
}

func (suite *PaletteServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&entity.User{},
		&entity.Palette{},
		&entity.SharedPalette{},
		&entity.ActivityLog{},
		&entity.Trophy{},
	)
	suite.Require().NoError(err)

	activitySvc := activity.NewActivityService(activityRepo.NewActivityRepository(suite.db))
	suite.service = NewPaletteService(
		paletteRepo.NewPaletteRepository(suite.db),
		userRepo.NewUserRepository(suite.db),
		activitySvc,
		nil,
	)
}

func (suite *PaletteServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *PaletteServiceTestSuite) createTestUser(name string) *entity.User {
	user := &entity.User{OpenID: "local:" + name, Name: &name}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *PaletteServiceTestSuite) createPalette(userID uint, name string, public bool) *paletteDto.PaletteResponse {
	res, err := suite.service.Create(context.Background(), userID, paletteDto.CreatePaletteInput{
		Name:     name,
		Colors:   []string{"#FF5733", "#33FF57", "#3357FF"},
		IsPublic: public,
	})
	suite.Require().NoError(err)
	return res
}

func (suite *PaletteServiceTestSuite) TestCreate_RoundTripsColors() {
	user := suite.createTestUser("mona")

	created := suite.createPalette(user.ID, "Sunset", false)
	assert.Equal(suite.T(), []string{"#FF5733", "#33FF57", "#3357FF"}, created.Colors)

	got, err := suite.service.Get(context.Background(), created.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Sunset", got.Name)
	assert.Equal(suite.T(), created.Colors, got.Colors)
}

func (suite *PaletteServiceTestSuite) TestCreate_EarnsPoints() {
	user := suite.createTestUser("mona")

	suite.createPalette(user.ID, "Sunset", false)

	var updated entity.User
	suite.Require().NoError(suite.db.First(&updated, user.ID).Error)
	assert.Equal(suite.T(), activity.PointsPaletteCreated, updated.ActivityPoints)
}

func (suite *PaletteServiceTestSuite) TestCreate_StripsMarkup() {
	user := suite.createTestUser("mona")

	res, err := suite.service.Create(context.Background(), user.ID, paletteDto.CreatePaletteInput{
		Name:   "<script>alert(1)</script>Ocean",
		Colors: []string{"#0000FF"},
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Ocean", res.Name)
}

func (suite *PaletteServiceTestSuite) TestListPublic_FiltersPrivate() {
	user := suite.createTestUser("mona")
	suite.createPalette(user.ID, "Public", true)
	suite.createPalette(user.ID, "Private", false)

	palettes, err := suite.service.ListPublic(context.Background(), 10)
	suite.Require().NoError(err)
	suite.Require().Len(palettes, 1)
	assert.Equal(suite.T(), "Public", palettes[0].Name)
}

func (suite *PaletteServiceTestSuite) TestGet_MissingReturnsNotFound() {
	_, err := suite.service.Get(context.Background(), 999)
	assert.ErrorIs(suite.T(), err, apperror.ErrNotFound)
}

func (suite *PaletteServiceTestSuite) TestUpdate_NonOwnerForbidden() {
	owner := suite.createTestUser("mona")
	other := suite.createTestUser("vincent")
	created := suite.createPalette(owner.ID, "Sunset", false)

	name := "Stolen"
	err := suite.service.Update(context.Background(), other.ID, created.ID, paletteDto.UpdatePaletteInput{Name: &name})
	assert.ErrorIs(suite.T(), err, apperror.ErrForbidden)

	got, err := suite.service.Get(context.Background(), created.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Sunset", got.Name)
}

func (suite *PaletteServiceTestSuite) TestUpdate_OwnerChangesFields() {
	owner := suite.createTestUser("mona")
	created := suite.createPalette(owner.ID, "Sunset", false)

	name := "Dawn"
	public := true
	err := suite.service.Update(context.Background(), owner.ID, created.ID, paletteDto.UpdatePaletteInput{
		Name:     &name,
		Colors:   []string{"#FFFFFF"},
		IsPublic: &public,
	})
	suite.Require().NoError(err)

	got, err := suite.service.Get(context.Background(), created.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Dawn", got.Name)
	assert.Equal(suite.T(), []string{"#FFFFFF"}, got.Colors)
	assert.True(suite.T(), got.IsPublic)
}

func (suite *PaletteServiceTestSuite) TestDelete_NonOwnerForbidden() {
	owner := suite.createTestUser("mona")
	other := suite.createTestUser("vincent")
	created := suite.createPalette(owner.ID, "Sunset", false)

	err := suite.service.Delete(context.Background(), other.ID, created.ID)
	assert.ErrorIs(suite.T(), err, apperror.ErrForbidden)

	err = suite.service.Delete(context.Background(), owner.ID, created.ID)
	suite.Require().NoError(err)

	_, err = suite.service.Get(context.Background(), created.ID)
	assert.ErrorIs(suite.T(), err, apperror.ErrNotFound)
}

func (suite *PaletteServiceTestSuite) TestLike_PrivatePaletteOfOthersForbidden() {
	owner := suite.createTestUser("mona")
	other := suite.createTestUser("vincent")
	private := suite.createPalette(owner.ID, "Private", false)
	public := suite.createPalette(owner.ID, "Public", true)

	err := suite.service.Like(context.Background(), other.ID, private.ID)
	assert.ErrorIs(suite.T(), err, apperror.ErrForbidden)

	suite.Require().NoError(suite.service.Like(context.Background(), other.ID, public.ID))
	suite.Require().NoError(suite.service.Like(context.Background(), other.ID, public.ID))

	got, err := suite.service.Get(context.Background(), public.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 2, got.Likes)
}

func (suite *PaletteServiceTestSuite) TestShare_OnlyOwnerAndExistingReceiver() {
	owner := suite.createTestUser("mona")
	receiver := suite.createTestUser("vincent")
	created := suite.createPalette(owner.ID, "Sunset", false)

	err := suite.service.Share(context.Background(), receiver.ID, created.ID, owner.ID)
	assert.ErrorIs(suite.T(), err, apperror.ErrForbidden)

	err = suite.service.Share(context.Background(), owner.ID, created.ID, 999)
	assert.ErrorIs(suite.T(), err, apperror.ErrNotFound)

	suite.Require().NoError(suite.service.Share(context.Background(), owner.ID, created.ID, receiver.ID))

	shared, err := suite.service.ListShared(context.Background(), receiver.ID)
	suite.Require().NoError(err)
	suite.Require().Len(shared, 1)
	assert.Equal(suite.T(), "Sunset", shared[0].Name)
	assert.NotNil(suite.T(), shared[0].SharedAt)
}

func (suite *PaletteServiceTestSuite) TestListOwn_OnlyOwnPalettes() {
	mona := suite.createTestUser("mona")
	vincent := suite.createTestUser("vincent")
	suite.createPalette(mona.ID, "Sunset", false)
	suite.createPalette(vincent.ID, "Ocean", true)

	palettes, err := suite.service.ListOwn(context.Background(), mona.ID)
	suite.Require().NoError(err)
	suite.Require().Len(palettes, 1)
	assert.Equal(suite.T(), "Sunset", palettes[0].Name)
}

func (suite *PaletteServiceTestSuite) TestSearch_WithoutBackendReturnsEmpty() {
	res, err := suite.service.Search(context.Background(), "sunset", 10)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), res)
}

func TestPaletteServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaletteServiceTestSuite))
}
