package admin

import (
	"errors"
	"net/http"
	"strconv"

	"studyhall/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/halls/pending", h.ListPendingHalls)
	rg.POST("/admin/halls/:id/approve", h.ApproveHall)
	rg.POST("/admin/halls/:id/reject", h.RejectHall)
	rg.GET("/admin/users", h.ListUsers)
}

func (h *Handler) RegisterSettlementRoutes(rg *gin.RouterGroup) {
	rg.GET("/settlements/halls/:id", h.HallSettlement)
}

func (h *Handler) ListPendingHalls(c *gin.Context) {
	halls, err := h.service.ListPendingHalls(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list halls")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"halls": halls})
}

func (h *Handler) ApproveHall(c *gin.Context) {
	hallID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.ApproveHall(c.Request.Context(), hallID); err != nil {
		writeModerationError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"approved": true})
}

func (h *Handler) RejectHall(c *gin.Context) {
	hallID, ok := idParam(c)
	if !ok {
		return
	}

	var req RejectHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rejection reason is required")
		return
	}

	if err := h.service.RejectHall(c.Request.Context(), hallID, req.Reason); err != nil {
		writeModerationError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rejected": true})
}

func (h *Handler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := h.service.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users})
}

func (h *Handler) HallSettlement(c *gin.Context) {
	hallID, ok := idParam(c)
	if !ok {
		return
	}

	settlement, err := h.service.HallSettlement(c.Request.Context(), hallID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Hall not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute settlement")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settlement": settlement})
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hall ID")
		return 0, false
	}
	return id, true
}

func writeModerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Hall not found")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS", "Hall is not pending moderation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Moderation failed")
	}
}
