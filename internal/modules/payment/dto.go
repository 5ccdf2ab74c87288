package payment

type InitPaymentRequest struct {
	BookingID   int64  `json:"booking_id" binding:"required"`
	OutSum      string `json:"out_sum" binding:"required"`
	Description string `json:"description"`
}

type InitPaymentResponse struct {
	InvID      int64  `json:"inv_id"`
	PaymentURL string `json:"payment_url"`
	Status     string `json:"status"`
}
