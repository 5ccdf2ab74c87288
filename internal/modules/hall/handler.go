package hall

import (
	"errors"
	"net/http"
	"strconv"

	"studyhall/internal/domain"
	"studyhall/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/halls", h.ListApproved)
	rg.GET("/halls/:id", h.GetHall)
	rg.GET("/halls/:id/layout", h.GetLayout)
}

func (h *Handler) RegisterMerchantRoutes(rg *gin.RouterGroup) {
	rg.POST("/halls", h.CreateHall)
	rg.PATCH("/halls/:id", h.UpdateHall)
	rg.GET("/merchant/halls", h.ListMine)
	rg.POST("/halls/:id/layout/preview", h.PreviewLayout)
	rg.PUT("/halls/:id/layout", h.SaveLayout)
	rg.PATCH("/halls/:id/cabins/:position/status", h.SetCabinStatus)
}

func (h *Handler) CreateHall(c *gin.Context) {
	var req CreateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	hall, err := h.service.CreateHall(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create hall")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"hall": hall})
}

func (h *Handler) UpdateHall(c *gin.Context) {
	hallID, ok := hallIDParam(c)
	if !ok {
		return
	}

	var req UpdateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	hall, err := h.service.UpdateHall(c.Request.Context(), hallID, c.GetInt64("user_id"), req)
	if err != nil {
		writeServiceError(c, err, "Failed to update hall")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"hall": hall})
}

func (h *Handler) GetHall(c *gin.Context) {
	hallID, ok := hallIDParam(c)
	if !ok {
		return
	}

	hall, err := h.service.GetHall(c.Request.Context(), hallID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Hall not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"hall": hall})
}

func (h *Handler) ListApproved(c *gin.Context) {
	limit, offset := pagination(c)

	halls, err := h.service.ListApproved(c.Request.Context(), c.Query("city"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list halls")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"halls": halls})
}

func (h *Handler) ListMine(c *gin.Context) {
	halls, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list halls")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"halls": halls})
}

func (h *Handler) PreviewLayout(c *gin.Context) {
	hallID, ok := hallIDParam(c)
	if !ok {
		return
	}

	var req SaveLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	data, err := h.service.PreviewLayout(c.Request.Context(), hallID, c.GetInt64("user_id"), req.Rows)
	if err != nil {
		writeServiceError(c, err, "Failed to generate layout")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"layout": data})
}

func (h *Handler) SaveLayout(c *gin.Context) {
	hallID, ok := hallIDParam(c)
	if !ok {
		return
	}

	var req SaveLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.SaveLayout(c.Request.Context(), hallID, c.GetInt64("user_id"), req.Rows)
	if err != nil {
		writeServiceError(c, err, "Failed to save layout")
		return
	}

	status := http.StatusOK
	if len(result.FailedCabins) > 0 {
		// Created, but some cabin data failed to save.
		status = http.StatusMultiStatus
	}
	response.Success(c, status, result)
}

func (h *Handler) GetLayout(c *gin.Context) {
	hallID, ok := hallIDParam(c)
	if !ok {
		return
	}

	data, err := h.service.GetLayout(c.Request.Context(), hallID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Hall not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"layout": data})
}

func (h *Handler) SetCabinStatus(c *gin.Context) {
	hallID, ok := hallIDParam(c)
	if !ok {
		return
	}

	var req SetCabinStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.SetCabinStatus(
		c.Request.Context(),
		hallID,
		c.GetInt64("user_id"),
		c.Param("position"),
		domain.CabinStatus(req.Status),
	)
	if err != nil {
		writeServiceError(c, err, "Failed to update cabin status")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func hallIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hall ID")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func writeServiceError(c *gin.Context, err error, fallback string) {
	var rf *RowFieldError
	switch {
	case errors.As(err, &rf):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid layout row", gin.H{
			"row":   rf.Row,
			"field": rf.Field,
			"error": rf.Err.Error(),
		})
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Hall not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this hall")
	case errors.Is(err, ErrBadStatus):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status not allowed")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
