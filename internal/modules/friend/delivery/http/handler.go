package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/chromacord/api/internal/modules/friend/dto"
	friend "github.com/chromacord/api/internal/modules/friend/service"
	"github.com/chromacord/api/pkg/apperror"
	"github.com/chromacord/api/pkg/response"
	"github.com/chromacord/api/pkg/validator"
	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	friendService friend.FriendService
}

func NewFriendHandler(friendService friend.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.SendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.friendService.SendRequest(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *FriendHandler) ListRequests(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.friendService.ListRequests(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *FriendHandler) Accept(c *gin.Context) {
	h.respond(c, func(userID, requestID uint, ctx *gin.Context) error {
		return h.friendService.Accept(ctx.Request.Context(), userID, requestID)
	})
}

func (h *FriendHandler) Reject(c *gin.Context) {
	h.respond(c, func(userID, requestID uint, ctx *gin.Context) error {
		return h.friendService.Reject(ctx.Request.Context(), userID, requestID)
	})
}

func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.friendService.ListFriends(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *FriendHandler) respond(c *gin.Context, decide func(userID, requestID uint, c *gin.Context) error) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ResponseError(c, fmt.Errorf("%w: invalid request id", apperror.ErrBadRequest))
		return
	}

	if err := decide(userID, uint(requestID), c); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
