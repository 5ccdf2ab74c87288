package domain

import "time"

type GatewayPaymentStatus string

const (
	PaymentStatusCreated GatewayPaymentStatus = "created"
	PaymentStatusPending GatewayPaymentStatus = "pending"
	PaymentStatusPaid    GatewayPaymentStatus = "paid"
	PaymentStatusFailed  GatewayPaymentStatus = "failed"
)

// GatewayPayment tracks one payment attempt against the external
// gateway. InvID is the invoice id sent to the gateway and echoed back
// in callbacks.
type GatewayPayment struct {
	ID          int64                `json:"id"`
	BookingID   int64                `json:"booking_id"`
	InvID       int64                `json:"inv_id" gorm:"uniqueIndex"`
	OutSum      string               `json:"out_sum"`
	Description string               `json:"description,omitempty"`
	Status      GatewayPaymentStatus `json:"status"`
	Signature   string               `json:"-"`
	PaymentURL  string               `json:"payment_url,omitempty"`
	RawCallback string               `json:"-" gorm:"type:text"`
	FailReason  string               `json:"fail_reason,omitempty"`
	PaidAt      *time.Time           `json:"paid_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
