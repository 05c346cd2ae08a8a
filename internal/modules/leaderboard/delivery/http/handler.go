package handler

import (
	"net/http"
	"strconv"

	leaderboard "github.com/chromacord/api/internal/modules/leaderboard/service"
	"github.com/chromacord/api/pkg/response"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardService leaderboard.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService leaderboard.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (h *LeaderboardHandler) Top(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	res, err := h.leaderboardService.Top(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
