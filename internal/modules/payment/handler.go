package payment

import (
	"errors"
	"io"
	"net/http"
	"net/url"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	// Gateway callbacks authenticate by signature, not JWT.
	rg.POST("/payments/result", h.ResultCallback)
	rg.POST("/payments/success", h.SuccessCallback)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/init", h.InitPayment)
	rg.GET("/bookings/:id/payments", h.ListPayments)
}

func (h *Handler) InitPayment(c *gin.Context) {
	var req InitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.InitPayment(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotConfigured):
			response.Error(c, http.StatusServiceUnavailable, "GATEWAY_UNAVAILABLE", "Payment gateway is not configured")
		case errors.Is(err, ErrAmountMismatch):
			response.Error(c, http.StatusBadRequest, "AMOUNT_MISMATCH", "Amount does not match the booking total")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to init payment")
		}
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ListPayments shows the gateway payment history for one of the
// caller's bookings.
func (h *Handler) ListPayments(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), c.GetInt64("user_id"), bookingID)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot view this booking's payments")
			return
		}
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) ResultCallback(c *gin.Context) {
	outSum, invID, signature, rawBody, ok := callbackParams(c)
	if !ok {
		return
	}

	answer, err := h.service.HandleResultCallback(c.Request.Context(), outSum, invID, signature, rawBody)
	if err != nil {
		// The gateway retries on anything but a 200 "OK{invId}".
		c.String(http.StatusBadRequest, "bad sign")
		return
	}

	c.String(http.StatusOK, answer)
}

func (h *Handler) SuccessCallback(c *gin.Context) {
	outSum, invID, signature, rawBody, ok := callbackParams(c)
	if !ok {
		return
	}

	okResult, err := h.service.HandleSuccessCallback(c.Request.Context(), outSum, invID, signature, rawBody)
	if err != nil || !okResult {
		response.Error(c, http.StatusBadRequest, "INVALID_CALLBACK", "Callback rejected")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"accepted": true})
}

// callbackParams reads the urlencoded callback body, falling back to
// query parameters for gateways that redirect with GET-style params.
func callbackParams(c *gin.Context) (outSum string, invID int64, signature, rawBody string, ok bool) {
	body, _ := io.ReadAll(c.Request.Body)
	rawBody = string(body)

	values, err := url.ParseQuery(rawBody)
	if err != nil || len(values) == 0 {
		values = c.Request.URL.Query()
	}

	outSum = values.Get("OutSum")
	signature = values.Get("SignatureValue")

	id, err := strconv.ParseInt(values.Get("InvId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid InvId")
		return "", 0, "", "", false
	}
	return outSum, id, signature, rawBody, true
}
