package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chromacord/api/internal/entity"
	activityRepo "github.com/chromacord/api/internal/modules/activity/repository"
	activity "github.com/chromacord/api/internal/modules/activity/service"
	paletteDto "github.com/chromacord/api/internal/modules/palette/dto"
	paletteRepo "github.com/chromacord/api/internal/modules/palette/repository"
	paletteService "github.com/chromacord/api/internal/modules/palette/service"
	userRepo "github.com/chromacord/api/internal/modules/user/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type PaletteHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *PaletteHandlerTestSuite) SetupTest() {
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
	svc := paletteService.NewPaletteService(
		paletteRepo.NewPaletteRepository(suite.db),
		userRepo.NewUserRepository(suite.db),
		activitySvc,
		nil,
	)
	h := NewPaletteHandler(svc)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	// stands in for the JWT middleware: user id arrives via header
	authStub := func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set("user_id", id)
		}
		c.Next()
	}

	api := suite.router.Group("/api", authStub)
	api.GET("/palettes/public", h.ListPublic)
	api.POST("/palettes", h.Create)
	api.GET("/palettes", h.ListOwn)
	api.GET("/palettes/:id", h.Get)
	api.PUT("/palettes/:id", h.Update)
	api.DELETE("/palettes/:id", h.Delete)
	api.POST("/palettes/:id/like", h.Like)
	api.POST("/palettes/:id/share", h.Share)
	api.GET("/palettes/shared", h.ListShared)
}

func (suite *PaletteHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *PaletteHandlerTestSuite) createTestUser(name string) *entity.User {
	user := &entity.User{OpenID: "local:" + name, Name: &name}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *PaletteHandlerTestSuite) request(method, url string, body interface{}, userID uint) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User", fmt.Sprintf("%d", userID))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PaletteHandlerTestSuite) TestCreate_Success() {
	user := suite.createTestUser("mona")

	w := suite.request("POST", "/api/palettes", paletteDto.CreatePaletteInput{
		Name:   "Sunset",
		Colors: []string{"#FF5733"},
	}, user.ID)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var res paletteDto.PaletteResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(suite.T(), "Sunset", res.Name)
	assert.Equal(suite.T(), []string{"#FF5733"}, res.Colors)
}

func (suite *PaletteHandlerTestSuite) TestCreate_InvalidHexRejected() {
	user := suite.createTestUser("mona")

	w := suite.request("POST", "/api/palettes", map[string]interface{}{
		"name":   "Broken",
		"colors": []string{"not-a-color"},
	}, user.ID)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *PaletteHandlerTestSuite) TestCreate_Unauthorized() {
	w := suite.request("POST", "/api/palettes", paletteDto.CreatePaletteInput{
		Name:   "Sunset",
		Colors: []string{"#FF5733"},
	}, 0)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *PaletteHandlerTestSuite) TestGet_InvalidID() {
	user := suite.createTestUser("mona")

	w := suite.request("GET", "/api/palettes/abc", nil, user.ID)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *PaletteHandlerTestSuite) TestGet_Missing() {
	user := suite.createTestUser("mona")

	w := suite.request("GET", "/api/palettes/999", nil, user.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *PaletteHandlerTestSuite) TestUpdate_NonOwnerForbidden() {
	owner := suite.createTestUser("mona")
	other := suite.createTestUser("vincent")

	w := suite.request("POST", "/api/palettes", paletteDto.CreatePaletteInput{
		Name:   "Sunset",
		Colors: []string{"#FF5733"},
	}, owner.ID)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created paletteDto.PaletteResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	w = suite.request("PUT", fmt.Sprintf("/api/palettes/%d", created.ID), map[string]interface{}{
		"name": "Stolen",
	}, other.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *PaletteHandlerTestSuite) TestListPublic_NoAuthNeeded() {
	w := suite.request("GET", "/api/palettes/public", nil, 0)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func TestPaletteHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PaletteHandlerTestSuite))
}
