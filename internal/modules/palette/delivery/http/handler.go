package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/chromacord/api/internal/modules/palette/dto"
	service "github.com/chromacord/api/internal/modules/palette/service"
	"github.com/chromacord/api/pkg/apperror"
	"github.com/chromacord/api/pkg/response"
	"github.com/chromacord/api/pkg/validator"
	"github.com/gin-gonic/gin"
)

type PaletteHandler struct {
	paletteService service.PaletteService
}

func NewPaletteHandler(paletteService service.PaletteService) *PaletteHandler {
	return &PaletteHandler{paletteService: paletteService}
}

func (h *PaletteHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.CreatePaletteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.paletteService.Create(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *PaletteHandler) ListOwn(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.paletteService.ListOwn(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PaletteHandler) ListPublic(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	res, err := h.paletteService.ListPublic(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PaletteHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	res, err := h.paletteService.Search(c.Request.Context(), query, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PaletteHandler) Get(c *gin.Context) {
	id, err := paletteID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.paletteService.Get(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PaletteHandler) Update(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := paletteID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.UpdatePaletteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.paletteService.Update(c.Request.Context(), userID, id, input); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PaletteHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := paletteID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.paletteService.Delete(c.Request.Context(), userID, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PaletteHandler) Like(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := paletteID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.paletteService.Like(c.Request.Context(), userID, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PaletteHandler) Share(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := paletteID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.SharePaletteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.paletteService.Share(c.Request.Context(), userID, id, input.ReceiverID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PaletteHandler) ListShared(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.paletteService.ListShared(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func paletteID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid palette id", apperror.ErrBadRequest)
	}
	return uint(id), nil
}
