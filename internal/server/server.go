package server

import (
	"log"
	"strings"
	"time"

	"github.com/chromacord/api/internal/config"
	"github.com/chromacord/api/internal/jobs"
	"github.com/chromacord/api/internal/middleware"
	"github.com/chromacord/api/pkg/storage"

	activityRepo "github.com/chromacord/api/internal/modules/activity/repository"
	activityService "github.com/chromacord/api/internal/modules/activity/service"

	chatBroker "github.com/chromacord/api/internal/modules/chat/broker"
	chatHttp "github.com/chromacord/api/internal/modules/chat/delivery/http"
	chatRepo "github.com/chromacord/api/internal/modules/chat/repository"
	chatService "github.com/chromacord/api/internal/modules/chat/service"

	friendHttp "github.com/chromacord/api/internal/modules/friend/delivery/http"
	friendRepo "github.com/chromacord/api/internal/modules/friend/repository"
	friendService "github.com/chromacord/api/internal/modules/friend/service"

	leaderboardHttp "github.com/chromacord/api/internal/modules/leaderboard/delivery/http"
	leaderboardRepo "github.com/chromacord/api/internal/modules/leaderboard/repository"
	leaderboardService "github.com/chromacord/api/internal/modules/leaderboard/service"

	messageHttp "github.com/chromacord/api/internal/modules/message/delivery/http"
	messageRepo "github.com/chromacord/api/internal/modules/message/repository"
	messageService "github.com/chromacord/api/internal/modules/message/service"

	paletteHttp "github.com/chromacord/api/internal/modules/palette/delivery/http"
	paletteRepo "github.com/chromacord/api/internal/modules/palette/repository"
	paletteService "github.com/chromacord/api/internal/modules/palette/service"

	profileHttp "github.com/chromacord/api/internal/modules/profile/delivery/http"
	profileService "github.com/chromacord/api/internal/modules/profile/service"

	searchService "github.com/chromacord/api/internal/modules/search/service"

	userHttp "github.com/chromacord/api/internal/modules/user/delivery/http"
	userRepo "github.com/chromacord/api/internal/modules/user/repository"
	userService "github.com/chromacord/api/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *jobs.Scheduler
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)

	var imageStorage storage.ImageStorage
	if cfg.CloudinaryCloudName != "" {
		var err error
		imageStorage, err = storage.NewCloudinaryStorage()
		if err != nil {
			log.Fatalf("failed to initialize cloudinary storage: %v", err)
		}
	}

	var searchSvc searchService.SearchService
	if cfg.MeiliSearchHost != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient := meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = searchService.NewMeiliSearchService(meiliClient)
	}

	activitySvc := activityService.NewActivityService(activityRepo.NewActivityRepository(db))

	authSvc := userService.NewAuthService(users, cfg)
	authHandler := userHttp.NewAuthHandler(authSvc)

	profileSvc := profileService.NewProfileService(users, activitySvc, imageStorage)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	paletteSvc := paletteService.NewPaletteService(paletteRepo.NewPaletteRepository(db), users, activitySvc, searchSvc)
	paletteHandler := paletteHttp.NewPaletteHandler(paletteSvc)

	friendSvc := friendService.NewFriendService(friendRepo.NewFriendRepository(db), users, activitySvc, redisClient, cfg.RateLimitFriendRequest)
	friendHandler := friendHttp.NewFriendHandler(friendSvc)

	messageSvc := messageService.NewMessageService(messageRepo.NewMessageRepository(db), users)
	messageHandler := messageHttp.NewMessageHandler(messageSvc)

	// Redis relays chat across instances; a single instance falls back to
	// the in-process hub.
	var b chatBroker.Broker
	if redisClient != nil {
		b = chatBroker.NewRedisBroker(redisClient)
	} else {
		b = chatBroker.NewHub()
	}
	chatSvc := chatService.NewChatService(chatRepo.NewChatRepository(db), users, activitySvc, b)
	chatHandler := chatHttp.NewChatHandler(chatSvc)

	leaderboardSvc := leaderboardService.NewLeaderboardService(leaderboardRepo.NewLeaderboardRepository(db))
	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardSvc)

	scheduler := jobs.NewScheduler()
	scheduler.Register(jobs.NewTitleRefreshJob(db))
	scheduler.Start()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(users, cfg.JWTSecret)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/google/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
		auth.POST("/logout", authHandler.Logout)
	}

	api.GET("/palettes/public", paletteHandler.ListPublic)
	api.GET("/palettes/search", paletteHandler.Search)
	api.GET("/palettes/:id", paletteHandler.Get)
	api.GET("/chat/messages", chatHandler.History)
	api.GET("/leaderboard", leaderboardHandler.Top)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/stats", authHandler.Stats)
			adminGroup.DELETE("/chat/messages/:id", chatHandler.DeleteMessage)
		}

		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/profile", profileHandler.Get)
		protected.PUT("/profile", profileHandler.Update)
		protected.POST("/profile/avatar", profileHandler.UploadAvatar)
		protected.GET("/profile/trophies", profileHandler.Trophies)
		protected.GET("/profile/activity", profileHandler.Activity)

		protected.POST("/palettes", paletteHandler.Create)
		protected.GET("/palettes", paletteHandler.ListOwn)
		protected.GET("/palettes/shared", paletteHandler.ListShared)
		protected.PUT("/palettes/:id", paletteHandler.Update)
		protected.DELETE("/palettes/:id", paletteHandler.Delete)
		protected.POST("/palettes/:id/share", paletteHandler.Share)
		protected.POST("/palettes/:id/like", paletteHandler.Like)

		protected.GET("/friends", friendHandler.ListFriends)
		protected.GET("/friends/requests", friendHandler.ListRequests)
		protected.POST("/friends/requests", friendHandler.SendRequest)
		protected.PUT("/friends/requests/:id/accept", friendHandler.Accept)
		protected.PUT("/friends/requests/:id/reject", friendHandler.Reject)

		protected.POST("/messages", messageHandler.Send)
		protected.GET("/messages/:id", messageHandler.Conversation)
		protected.PUT("/messages/:id/read", messageHandler.MarkRead)

		protected.GET("/chat/ws", chatHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   scheduler,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Stop() {
	s.scheduler.Stop()
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
