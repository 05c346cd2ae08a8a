package leaderboard

import (
	"context"
	"testing"

	"github.com/chromacord/api/internal/entity"
	activity "github.com/chromacord/api/internal/modules/activity/service"
	leaderboardRepo "github.com/chromacord/api/internal/modules/leaderboard/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type LeaderboardServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service LeaderboardService
}

func (suite *LeaderboardServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.AutoMigrate(&entity.User{}))

	suite.service = NewLeaderboardService(leaderboardRepo.NewLeaderboardRepository(suite.db))
}

func (suite *LeaderboardServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *LeaderboardServiceTestSuite) createTestUser(name string, points int) *entity.User {
	user := &entity.User{OpenID: "local:" + name, Name: &name, ActivityPoints: points}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *LeaderboardServiceTestSuite) TestTop_RanksByPoints() {
	suite.createTestUser("bronze", 10)
	gold := suite.createTestUser("gold", 600)
	silver := suite.createTestUser("silver", 250)

	entries, err := suite.service.Top(context.Background(), 10)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)

	assert.Equal(suite.T(), 1, entries[0].Rank)
	assert.Equal(suite.T(), gold.ID, entries[0].User.ID)
	assert.Equal(suite.T(), activity.TitleMaster, entries[0].TitleStatus.Title)

	assert.Equal(suite.T(), 2, entries[1].Rank)
	assert.Equal(suite.T(), silver.ID, entries[1].User.ID)
	assert.Equal(suite.T(), activity.TitleArtist, entries[1].TitleStatus.Title)

	assert.Equal(suite.T(), 3, entries[2].Rank)
}

func (suite *LeaderboardServiceTestSuite) TestTop_RespectsLimit() {
	for i, name := range []string{"a", "b", "c"} {
		suite.createTestUser(name, (i+1)*100)
	}

	entries, err := suite.service.Top(context.Background(), 2)
	suite.Require().NoError(err)
	assert.Len(suite.T(), entries, 2)
}

func (suite *LeaderboardServiceTestSuite) TestTop_DefaultLimitOnBadInput() {
	suite.createTestUser("solo", 1)

	entries, err := suite.service.Top(context.Background(), -5)
	suite.Require().NoError(err)
	assert.Len(suite.T(), entries, 1)
}

func TestLeaderboardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LeaderboardServiceTestSuite))
}
