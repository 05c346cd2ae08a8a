package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/chromacord/api/internal/modules/message/dto"
	message "github.com/chromacord/api/internal/modules/message/service"
	"github.com/chromacord/api/pkg/apperror"
	"github.com/chromacord/api/pkg/response"
	"github.com/chromacord/api/pkg/validator"
	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService message.MessageService
}

func NewMessageHandler(messageService message.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.messageService.Send(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *MessageHandler) Conversation(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	friendID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ResponseError(c, fmt.Errorf("%w: invalid friend id", apperror.ErrBadRequest))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	res, err := h.messageService.Conversation(c.Request.Context(), userID, uint(friendID), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	if _, err := response.GetUserID(c); err != nil {
		response.ResponseError(c, err)
		return
	}

	messageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ResponseError(c, fmt.Errorf("%w: invalid message id", apperror.ErrBadRequest))
		return
	}

	if err := h.messageService.MarkRead(c.Request.Context(), uint(messageID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
