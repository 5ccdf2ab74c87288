package payment

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"studyhall/internal/config"
	"studyhall/internal/domain"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrAmountMismatch   = errors.New("amount mismatch")
	ErrNotConfigured    = errors.New("gateway credentials are not configured")
	ErrForbidden        = errors.New("forbidden")
)

type Service struct {
	payments paymentRepo
	bookings bookingReader
	marker   bookingPaidMarker
	cfg      config.GatewayConfig
	loggerf  func(format string, args ...interface{})
}

func NewService(payments paymentRepo, bookings bookingReader, marker bookingPaidMarker, cfg config.GatewayConfig, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		payments: payments,
		bookings: bookings,
		marker:   marker,
		cfg:      cfg,
		loggerf:  loggerf,
	}
}

// InitPayment creates the payment record and builds the gateway
// redirect URL with the init signature.
func (s *Service) InitPayment(ctx context.Context, req InitPaymentRequest) (*InitPaymentResponse, error) {
	if s.cfg.MerchantLogin == "" || s.cfg.Password1 == "" || s.cfg.Password2 == "" {
		return nil, ErrNotConfigured
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("booking check failed: %w", err)
	}
	if !amountEqual(req.OutSum, strconv.FormatFloat(b.TotalPrice, 'f', -1, 64)) {
		return nil, ErrAmountMismatch
	}

	invID := time.Now().UnixNano()
	signature := s.signInit(req.OutSum, invID)

	u := url.Values{}
	u.Set("MerchantLogin", s.cfg.MerchantLogin)
	u.Set("OutSum", req.OutSum)
	u.Set("InvId", strconv.FormatInt(invID, 10))
	u.Set("Description", req.Description)
	u.Set("SignatureValue", signature)
	u.Set("IsTest", s.cfg.IsTest)
	if s.cfg.ResultURL != "" {
		u.Set("ResultURL", s.cfg.ResultURL)
	}
	if s.cfg.SuccessURL != "" {
		u.Set("SuccessURL", s.cfg.SuccessURL)
	}
	paymentURL := s.cfg.BaseURL + "?" + u.Encode()

	p := &domain.GatewayPayment{
		BookingID:   req.BookingID,
		OutSum:      req.OutSum,
		InvID:       invID,
		Description: req.Description,
		Status:      domain.PaymentStatusCreated,
		Signature:   signature,
		PaymentURL:  paymentURL,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("save payment failed: %w", err)
	}

	return &InitPaymentResponse{
		InvID:      invID,
		PaymentURL: paymentURL,
		Status:     string(domain.PaymentStatusCreated),
	}, nil
}

// HandleResultCallback is the server-to-server confirmation: verify
// the signature, check the amount, mark paid idempotently, then push
// the paid status onto the booking. The gateway expects the literal
// response "OK{invId}".
func (s *Service) HandleResultCallback(ctx context.Context, outSum string, invID int64, signature string, rawBody string) (string, error) {
	valid := strings.EqualFold(signature, s.signResult(outSum, invID))
	s.loggerf("level=info msg=gateway result signature validation inv_id=%d signature_valid=%t", invID, valid)
	if !valid {
		_ = s.payments.MarkFailed(ctx, invID, rawBody, "invalid signature")
		return "", ErrInvalidSignature
	}

	p, err := s.payments.GetByInvID(ctx, invID)
	if err != nil {
		return "", err
	}
	if !amountEqual(outSum, p.OutSum) {
		reason := fmt.Sprintf("amount mismatch callback=%s expected=%s", outSum, p.OutSum)
		_ = s.payments.MarkFailed(ctx, invID, rawBody, reason)
		return "", ErrAmountMismatch
	}

	changed, err := s.payments.MarkPaidIdempotent(ctx, invID, rawBody, time.Now().UTC())
	if err != nil {
		return "", err
	}
	if !changed {
		s.loggerf("level=info msg=idempotent callback already paid inv_id=%d", invID)
	}

	if err := s.marker.MarkPaid(ctx, p.BookingID); err != nil {
		s.loggerf("level=error msg=failed to mark booking paid booking_id=%d err=%v", p.BookingID, err)
	}

	return "OK" + strconv.FormatInt(invID, 10), nil
}

// HandleSuccessCallback is the browser redirect: it records a pending
// state but never overrides a paid confirmation from the result
// callback.
func (s *Service) HandleSuccessCallback(ctx context.Context, outSum string, invID int64, signature string, rawBody string) (bool, error) {
	valid := strings.EqualFold(signature, s.signSuccess(outSum, invID))
	s.loggerf("level=info msg=gateway success signature validation inv_id=%d signature_valid=%t", invID, valid)
	if !valid {
		return false, ErrInvalidSignature
	}

	p, err := s.payments.GetByInvID(ctx, invID)
	if err != nil {
		return false, err
	}
	if !amountEqual(outSum, p.OutSum) {
		s.loggerf("level=error msg=amount mismatch on success callback inv_id=%d callback=%s expected=%s", invID, outSum, p.OutSum)
		return false, ErrAmountMismatch
	}

	if err := s.payments.MarkPendingIfNotPaid(ctx, invID, rawBody); err != nil {
		return false, err
	}
	return true, nil
}

// ListPayments returns the gateway attempts for a booking, newest
// first. Restricted to the booking's owner; guest bookings carry no
// account and are looked up by reference instead.
func (s *Service) ListPayments(ctx context.Context, userID int64, bookingID int64) ([]domain.GatewayPayment, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking lookup failed: %w", err)
	}
	if b.UserID == nil || *b.UserID != userID {
		return nil, ErrForbidden
	}
	return s.payments.ListByBooking(ctx, bookingID)
}

func (s *Service) signInit(outSum string, invID int64) string {
	return md5Hex(strings.Join([]string{s.cfg.MerchantLogin, outSum, strconv.FormatInt(invID, 10), s.cfg.Password1}, ":"))
}

func (s *Service) signResult(outSum string, invID int64) string {
	return md5Hex(strings.Join([]string{outSum, strconv.FormatInt(invID, 10), s.cfg.Password2}, ":"))
}

func (s *Service) signSuccess(outSum string, invID int64) string {
	return md5Hex(strings.Join([]string{outSum, strconv.FormatInt(invID, 10), s.cfg.Password1}, ":"))
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// amountEqual compares money strings numerically so "1500.00" and
// "1500" match.
func amountEqual(a, b string) bool {
	ra, okA := new(big.Rat).SetString(strings.TrimSpace(a))
	rb, okB := new(big.Rat).SetString(strings.TrimSpace(b))
	if !okA || !okB {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
	return ra.Cmp(rb) == 0
}
