package admin

type RejectHallRequest struct {
	Reason string `json:"reason" binding:"required"`
}
