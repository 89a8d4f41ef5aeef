package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k"

// memStore is an in-memory Store
type memStore struct {
	mu       sync.Mutex
	clients  map[uint]bool
	services map[uint]bool
	orders   map[string]*models.PaymentOrder
	history  []models.ClientPayment
	nextID   uint
}

func newMemStore() *memStore {
	return &memStore{
		clients:  map[uint]bool{1: true},
		services: map[uint]bool{5: true},
		orders:   map[string]*models.PaymentOrder{},
	}
}

func (m *memStore) ClientExists(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clients[id], nil
}

func (m *memStore) ServiceExists(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.services[id], nil
}

func (m *memStore) FindByIdempotencyKey(_ context.Context, clientID uint, key string) (*models.PaymentOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ClientID == clientID && o.IdempotencyKey == key {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateOrder(_ context.Context, order *models.PaymentOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.orders[order.OrderID]; dup {
		return utils.ConflictError("Payment order already exists", nil)
	}
	m.nextID++
	order.ID = m.nextID
	cp := *order
	m.orders[order.OrderID] = &cp
	return nil
}

func (m *memStore) CompleteOrder(_ context.Context, orderID, paymentID string) (*models.PaymentOrder, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, false, utils.NotFoundError("Payment order not found", nil)
	}
	switch o.Status {
	case models.PaymentStatusSuccess:
		cp := *o
		return &cp, true, nil
	case models.PaymentStatusPending:
	default:
		return nil, false, utils.ConflictError("Payment order is not pending", nil)
	}
	o.Status = models.PaymentStatusSuccess
	o.PaymentID = paymentID
	m.history = append(m.history, models.ClientPayment{
		ClientID:       o.ClientID,
		PaymentOrderID: o.ID,
		PaymentID:      paymentID,
		OrderID:        o.OrderID,
		Amount:         o.Amount,
		Currency:       o.Currency,
		Status:         models.PaymentStatusSuccess,
	})
	cp := *o
	return &cp, false, nil
}

func (m *memStore) order(id string) models.PaymentOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.orders[id]
}

func (m *memStore) historyLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// fakeGateway hands out sequential order ids
type fakeGateway struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.calls++
	return &GatewayOrder{ID: fmt.Sprintf("order_%d", g.calls), Amount: amount, Currency: currency, Receipt: receipt}, nil
}

func newTestService(t *testing.T) (*Service, *memStore, *fakeGateway) {
	t.Helper()
	utils.UseLogOutput(io.Discard)
	store := newMemStore()
	gw := &fakeGateway{}
	svc, err := NewService(store, gw, testSecret)
	require.NoError(t, err)
	return svc, store, gw
}

func seedPending(store *memStore, orderID string) {
	store.orders[orderID] = &models.PaymentOrder{
		ID: uint(len(store.orders) + 100), ClientID: 1, Amount: 50000, Currency: "INR",
		OrderID: orderID, Status: models.PaymentStatusPending,
	}
}

func TestSignMatchesHMAC(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("k"))
	mac.Write([]byte("order_1|pay_1"))
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, Sign("k", "order_1", "pay_1"))
	assert.Len(t, want, 64)
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService(newMemStore(), &fakeGateway{}, "")
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	svc, _, _ := newTestService(t)
	sig := Sign(testSecret, "order_1", "pay_1")

	assert.True(t, svc.VerifySignature("order_1", "pay_1", sig))
	assert.True(t, svc.VerifySignature("order_1", "pay_1", strings.ToUpper(sig)))
	assert.False(t, svc.VerifySignature("order_1", "pay_2", sig))
	assert.False(t, svc.VerifySignature("order_2", "pay_1", sig))
	assert.False(t, svc.VerifySignature("order_1", "pay_1", Sign("other", "order_1", "pay_1")))
	assert.False(t, svc.VerifySignature("order_1", "pay_1", "zz-not-hex"))
	assert.False(t, svc.VerifySignature("order_1", "pay_1", sig[:32]))
}

func TestVerifySettlesPendingOrder(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedPending(store, "order_1")

	order, err := svc.Verify(context.Background(), VerifyRequest{
		OrderID: "order_1", PaymentID: "pay_1", Signature: Sign(testSecret, "order_1", "pay_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, order.Status)
	assert.Equal(t, "pay_1", order.PaymentID)
	assert.Equal(t, 1, store.historyLen())
	assert.Equal(t, int64(50000), store.history[0].Amount)
}

func TestVerifyIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedPending(store, "order_1")
	req := VerifyRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: Sign(testSecret, "order_1", "pay_1")}

	_, err := svc.Verify(context.Background(), req)
	require.NoError(t, err)
	order, err := svc.Verify(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusSuccess, order.Status)
	assert.Equal(t, 1, store.historyLen())
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	cases := map[string]VerifyRequest{
		"wrong secret":  {OrderID: "order_1", PaymentID: "pay_1", Signature: Sign("wrong", "order_1", "pay_1")},
		"wrong payment": {OrderID: "order_1", PaymentID: "pay_1", Signature: Sign(testSecret, "order_1", "pay_2")},
		"swapped parts": {OrderID: "order_1", PaymentID: "pay_1", Signature: Sign(testSecret, "pay_1", "order_1")},
		"garbage":       {OrderID: "order_1", PaymentID: "pay_1", Signature: "not-a-signature"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			svc, store, _ := newTestService(t)
			seedPending(store, "order_1")

			_, err := svc.Verify(context.Background(), req)
			assert.True(t, utils.IsKind(err, utils.KindVerificationFailed), "got %v", err)
			assert.Equal(t, models.PaymentStatusPending, store.order("order_1").Status)
			assert.Zero(t, store.historyLen())
		})
	}
}

func TestVerifyMissingFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	for _, req := range []VerifyRequest{
		{PaymentID: "pay_1", Signature: "x"},
		{OrderID: "order_1", Signature: "x"},
		{OrderID: "order_1", PaymentID: "pay_1"},
	} {
		_, err := svc.Verify(context.Background(), req)
		assert.True(t, utils.IsKind(err, utils.KindInvalidInput), "%+v", req)
	}
}

func TestVerifyUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Verify(context.Background(), VerifyRequest{
		OrderID: "order_x", PaymentID: "pay_1", Signature: Sign(testSecret, "order_x", "pay_1"),
	})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestVerifyFailedOrderConflicts(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedPending(store, "order_1")
	store.orders["order_1"].Status = models.PaymentStatusFailed

	_, err := svc.Verify(context.Background(), VerifyRequest{
		OrderID: "order_1", PaymentID: "pay_1", Signature: Sign(testSecret, "order_1", "pay_1"),
	})
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Zero(t, store.historyLen())
}

func TestConcurrentVerifyWritesOneHistoryEntry(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedPending(store, "order_1")
	req := VerifyRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: Sign(testSecret, "order_1", "pay_1")}

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Verify(context.Background(), req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, store.historyLen())
}

func TestCreateOrder(t *testing.T) {
	svc, store, gw := newTestService(t)
	serviceID := uint(5)

	order, reused, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		ClientID: 1, ServiceID: &serviceID, Amount: 499.99, Currency: "inr",
	})
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, "order_1", order.OrderID)
	assert.Equal(t, int64(49999), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, models.PaymentStatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.Receipt, "rcpt_"))
	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, models.PaymentStatusPending, store.order("order_1").Status)
}

func TestCreateOrderDefaultsCurrency(t *testing.T) {
	svc, _, _ := newTestService(t)
	order, _, err := svc.CreateOrder(context.Background(), CreateOrderRequest{ClientID: 1, Amount: 10})
	require.NoError(t, err)
	assert.Equal(t, utils.DefaultCurrency, order.Currency)
	assert.Equal(t, int64(1000), order.Amount)
}

func TestCreateOrderValidation(t *testing.T) {
	missingService := uint(9)
	cases := []struct {
		name string
		req  CreateOrderRequest
		kind utils.ErrorKind
	}{
		{"no client", CreateOrderRequest{Amount: 10}, utils.KindInvalidInput},
		{"zero amount", CreateOrderRequest{ClientID: 1}, utils.KindInvalidInput},
		{"negative amount", CreateOrderRequest{ClientID: 1, Amount: -5}, utils.KindInvalidInput},
		{"sub-paisa amount", CreateOrderRequest{ClientID: 1, Amount: 0.001}, utils.KindInvalidInput},
		{"bad currency", CreateOrderRequest{ClientID: 1, Amount: 10, Currency: "RUPEE"}, utils.KindInvalidInput},
		{"unknown client", CreateOrderRequest{ClientID: 2, Amount: 10}, utils.KindNotFound},
		{"unknown service", CreateOrderRequest{ClientID: 1, ServiceID: &missingService, Amount: 10}, utils.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, gw := newTestService(t)
			_, _, err := svc.CreateOrder(context.Background(), tc.req)
			assert.True(t, utils.IsKind(err, tc.kind), "got %v", err)
			assert.Zero(t, gw.calls)
		})
	}
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	svc, store, gw := newTestService(t)
	gw.err = errors.New("razorpay down")

	_, _, err := svc.CreateOrder(context.Background(), CreateOrderRequest{ClientID: 1, Amount: 10})
	assert.True(t, utils.IsKind(err, utils.KindUpstream))
	assert.Empty(t, store.orders)
}

func TestCreateOrderIdempotencyKey(t *testing.T) {
	svc, _, gw := newTestService(t)
	req := CreateOrderRequest{ClientID: 1, Amount: 250, IdempotencyKey: "checkout-abc"}

	first, reused, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, reused)

	second, reused, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, 1, gw.calls)

	req.Amount = 300
	_, _, err = svc.CreateOrder(context.Background(), req)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestToMinorUnits(t *testing.T) {
	for in, want := range map[float64]int64{1: 100, 0.01: 1, 19.999: 2000, 1234.56: 123456} {
		got, err := ToMinorUnits(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%v", in)
	}
}
