// Package payments creates gateway orders and verifies the completion notices
// the gateway's checkout hands back to the browser.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
)

// Store is the persistence the payment flow needs
type Store interface {
	ClientExists(ctx context.Context, clientID uint) (bool, error)
	ServiceExists(ctx context.Context, serviceID uint) (bool, error)
	// FindByIdempotencyKey returns nil, nil when the client never used key.
	FindByIdempotencyKey(ctx context.Context, clientID uint, key string) (*models.PaymentOrder, error)
	CreateOrder(ctx context.Context, order *models.PaymentOrder) error
	// CompleteOrder moves a Pending order to Success and appends the client's
	// payment history entry in one transaction. alreadyDone is true when the
	// order was Success before the call; nothing is written in that case.
	CompleteOrder(ctx context.Context, orderID, paymentID string) (order *models.PaymentOrder, alreadyDone bool, err error)
}

// GatewayOrder is what the gateway returns for a created order
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}

// Gateway issues orders on the payment provider
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error)
}

// CreateOrderRequest asks for a new order. Amount is in major units (rupees).
type CreateOrderRequest struct {
	ClientID       uint
	ServiceID      *uint
	Amount         float64
	Currency       string
	IdempotencyKey string
}

// VerifyRequest is the completion notice posted back after checkout
type VerifyRequest struct {
	OrderID   string
	PaymentID string
	Signature string
}

// Service runs order creation and verification
type Service struct {
	store   Store
	gateway Gateway
	secret  []byte
}

// NewService builds a Service. secret is the gateway key secret used as the HMAC key.
func NewService(store Store, gateway Gateway, secret string) (*Service, error) {
	if secret == "" {
		return nil, errors.New("payment secret must not be empty")
	}
	return &Service{store: store, gateway: gateway, secret: []byte(secret)}, nil
}

// Sign returns hex(HMAC-SHA256(secret, orderID + "|" + paymentID)), the signature
// the gateway attaches to a completed payment.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares signature against the expected value in constant time
func (s *Service) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(signature)))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

// Verify checks the notice and settles the order. Re-sending a notice for a
// settled order returns the order unchanged.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*models.PaymentOrder, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, utils.InvalidInputError("Order ID, payment ID and signature are required", nil)
	}

	if !s.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		utils.LogSecurity("Payment signature mismatch for order %s (payment %s)", req.OrderID, req.PaymentID)
		return nil, utils.VerificationFailedError("Payment verification failed", nil)
	}

	order, alreadyDone, err := s.store.CompleteOrder(ctx, req.OrderID, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if alreadyDone {
		utils.LogInfo("Payment order %s already settled, verification is a no-op", req.OrderID)
		return order, nil
	}

	utils.LogInfo("Payment order %s settled with payment %s for client %d", order.OrderID, order.PaymentID, order.ClientID)
	return order, nil
}

// CreateOrder opens a gateway order and stores it as Pending. With an
// idempotency key, a repeated request returns the stored order and reused is true.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (order *models.PaymentOrder, reused bool, err error) {
	if req.ClientID == 0 {
		return nil, false, utils.InvalidInputError("Client ID is required", nil)
	}
	amount, err := ToMinorUnits(req.Amount)
	if err != nil {
		return nil, false, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = utils.DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, false, utils.InvalidInputError("Currency must be a 3 letter ISO code", nil)
	}

	if req.IdempotencyKey != "" {
		existing, err := s.store.FindByIdempotencyKey(ctx, req.ClientID, req.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			if existing.Amount != amount || existing.Currency != currency {
				return nil, false, utils.ConflictError("Idempotency-Key was already used for a different order", nil)
			}
			utils.LogInfo("Reusing payment order %s for idempotency key of client %d", existing.OrderID, req.ClientID)
			return existing, true, nil
		}
	}

	ok, err := s.store.ClientExists(ctx, req.ClientID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, utils.NotFoundError("Client not found", nil)
	}
	if req.ServiceID != nil {
		ok, err := s.store.ServiceExists(ctx, *req.ServiceID)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, utils.NotFoundError("Service not found", nil)
		}
	}

	receipt := "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	gwOrder, err := s.gateway.CreateOrder(ctx, amount, currency, receipt)
	if err != nil {
		utils.LogError("Gateway order creation failed for client %d: %v", req.ClientID, err)
		return nil, false, utils.UpstreamError("Failed to create payment order", err)
	}

	order = &models.PaymentOrder{
		ClientID:       req.ClientID,
		ServiceID:      req.ServiceID,
		Amount:         amount,
		Currency:       currency,
		OrderID:        gwOrder.ID,
		Status:         models.PaymentStatusPending,
		Receipt:        receipt,
		IdempotencyKey: req.IdempotencyKey,
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, false, err
	}

	utils.LogInfo("Created payment order %s for client %d: %d %s", order.OrderID, order.ClientID, order.Amount, order.Currency)
	return order, false, nil
}

// ToMinorUnits converts a major-unit amount (rupees) to a positive minor-unit amount (paise)
func ToMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, utils.InvalidInputError("Amount must be greater than zero", nil)
	}
	minor := int64(math.Round(amount * 100))
	if minor <= 0 {
		return 0, utils.InvalidInputError("Amount must be at least 0.01", nil)
	}
	return minor, nil
}
