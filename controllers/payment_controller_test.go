package controllers_test

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/payments"
	"github.com/rk-consultants/rk-server/testutil"
	"github.com/rk-consultants/rk-server/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrder(t *testing.T, env *testEnv, body map[string]interface{}, idempotencyKey string) testutil.TestResponse {
	t.Helper()
	req := testutil.TestRequest{Method: http.MethodPost, Path: "/api/payment/create-order", Body: body}
	if idempotencyKey != "" {
		req.Headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	return testutil.MakeTestRequest(t, env.router, req)
}

func verifyBody(orderID, paymentID, signature string) map[string]interface{} {
	return map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	}
}

func storedOrder(t *testing.T, env *testEnv, orderID string) models.PaymentOrder {
	t.Helper()
	var order models.PaymentOrder
	require.NoError(t, env.db.Where("order_id = ?", orderID).First(&order).Error)
	return order
}

func TestPaymentCheckoutFlow(t *testing.T) {
	env := setup(t)
	client := testutil.CreateTestClient(t, env.db, "Acme Realty")

	resp := createOrder(t, env, map[string]interface{}{"amount": 1499.5, "client_id": client.ID}, "")
	testutil.AssertResponse(t, resp, http.StatusCreated, "")
	orderID := resp.Data()["order_id"].(string)
	assert.Equal(t, "order_T1", orderID)
	assert.Equal(t, float64(149950), resp.Data()["amount"])
	assert.Equal(t, "INR", resp.Data()["currency"])
	assert.Equal(t, models.PaymentStatusPending, resp.Data()["status"])
	assert.Equal(t, testKeyID, resp.Data()["key_id"])
	assert.NotContains(t, string(resp.Raw), testKeySecret)

	sig := payments.Sign(testKeySecret, orderID, "pay_1")
	resp = env.do(t, http.MethodPost, "/api/payment/verify", verifyBody(orderID, "pay_1", sig), nil)
	testutil.AssertResponse(t, resp, http.StatusOK, "")
	assert.Equal(t, models.PaymentStatusSuccess, resp.Data()["status"])
	assert.Equal(t, "pay_1", resp.Data()["payment_id"])
	assert.Equal(t, float64(client.ID), resp.Data()["client_id"])

	// Replaying the notice changes nothing
	resp = env.do(t, http.MethodPost, "/api/payment/verify", verifyBody(orderID, "pay_1", sig), nil)
	testutil.AssertResponse(t, resp, http.StatusOK, "")

	history := env.do(t, http.MethodGet, fmt.Sprintf("/api/client/%d/payments", client.ID), nil, env.admin)
	testutil.AssertResponse(t, history, http.StatusOK, "")
	entries := history.Data()["payments"].([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.Equal(t, "pay_1", entry["payment_id"])
	assert.Equal(t, orderID, entry["order_id"])
	assert.Equal(t, float64(149950), history.Data()["total_amount"])
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	env := setup(t)
	client := testutil.CreateTestClient(t, env.db, "Acme Realty")
	orderID := createOrder(t, env, map[string]interface{}{"amount": 100, "client_id": client.ID}, "").Data()["order_id"].(string)

	for name, sig := range map[string]string{
		"wrong secret":  payments.Sign("not-the-secret", orderID, "pay_1"),
		"other payment": payments.Sign(testKeySecret, orderID, "pay_2"),
		"garbage":       "deadbeef",
	} {
		t.Run(name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/payment/verify", verifyBody(orderID, "pay_1", sig), nil)
			testutil.AssertResponse(t, resp, http.StatusBadRequest, "VerificationFailed")
		})
	}

	order := storedOrder(t, env, orderID)
	assert.Equal(t, models.PaymentStatusPending, order.Status)
	assert.Empty(t, order.PaymentID)

	var count int64
	require.NoError(t, env.db.Model(&models.ClientPayment{}).Count(&count).Error)
	assert.Zero(t, count)

	resp := env.do(t, http.MethodPost, "/api/payment/verify", verifyBody(orderID, "", "x"), nil)
	testutil.AssertResponse(t, resp, http.StatusBadRequest, "InvalidInput")

	resp = env.do(t, http.MethodPost, "/api/payment/verify",
		verifyBody("order_unknown", "pay_1", payments.Sign(testKeySecret, "order_unknown", "pay_1")), nil)
	testutil.AssertResponse(t, resp, http.StatusNotFound, "NotFound")
}

func TestCreatePaymentOrderValidation(t *testing.T) {
	env := setup(t)
	client := testutil.CreateTestClient(t, env.db, "Acme Realty")
	missingService := uint(99)

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
		kind   string
	}{
		{"zero amount", map[string]interface{}{"amount": 0, "client_id": client.ID}, http.StatusBadRequest, "InvalidInput"},
		{"negative amount", map[string]interface{}{"amount": -5, "client_id": client.ID}, http.StatusBadRequest, "InvalidInput"},
		{"no client", map[string]interface{}{"amount": 10}, http.StatusBadRequest, "InvalidInput"},
		{"bad currency", map[string]interface{}{"amount": 10, "client_id": client.ID, "currency": "rupees"}, http.StatusBadRequest, "InvalidInput"},
		{"unknown client", map[string]interface{}{"amount": 10, "client_id": client.ID + 100}, http.StatusNotFound, "NotFound"},
		{"unknown service", map[string]interface{}{"amount": 10, "client_id": client.ID, "service_id": missingService}, http.StatusNotFound, "NotFound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertResponse(t, createOrder(t, env, tt.body, ""), tt.status, tt.kind)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.PaymentOrder{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePaymentOrderIdempotencyKey(t *testing.T) {
	env := setup(t)
	client := testutil.CreateTestClient(t, env.db, "Acme Realty")
	body := map[string]interface{}{"amount": 250, "client_id": client.ID}

	first := createOrder(t, env, body, "checkout-42")
	testutil.AssertResponse(t, first, http.StatusCreated, "")

	again := createOrder(t, env, body, "checkout-42")
	testutil.AssertResponse(t, again, http.StatusOK, "")
	assert.Equal(t, first.Data()["order_id"], again.Data()["order_id"])

	changed := createOrder(t, env, map[string]interface{}{"amount": 300, "client_id": client.ID}, "checkout-42")
	testutil.AssertResponse(t, changed, http.StatusConflict, "Conflict")

	fresh := createOrder(t, env, body, "")
	testutil.AssertResponse(t, fresh, http.StatusCreated, "")
	assert.NotEqual(t, first.Data()["order_id"], fresh.Data()["order_id"])
}

func TestPaymentReceipt(t *testing.T) {
	env := setup(t)
	client := testutil.CreateTestClient(t, env.db, "Acme Realty")
	orderID := createOrder(t, env, map[string]interface{}{"amount": 500, "client_id": client.ID}, "").Data()["order_id"].(string)
	order := storedOrder(t, env, orderID)
	path := fmt.Sprintf("/api/payment/%d/receipt", order.ID)

	testutil.AssertResponse(t, env.do(t, http.MethodGet, path, nil, env.admin), http.StatusConflict, "Conflict")

	sig := payments.Sign(testKeySecret, orderID, "pay_9")
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/payment/verify", verifyBody(orderID, "pay_9", sig), nil).StatusCode)

	resp := env.do(t, http.MethodGet, path, nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "receipt_"+order.Receipt+".pdf")
	assert.True(t, len(resp.Raw) > 4 && string(resp.Raw[:4]) == "%PDF")

	testutil.AssertResponse(t, env.do(t, http.MethodGet, path, nil, nil), http.StatusUnauthorized, "Unauthorized")
}

func TestPaymentReceiptLogsServiceLoadFailure(t *testing.T) {
	env := setup(t)
	client := testutil.CreateTestClient(t, env.db, "Acme Realty")
	service := env.do(t, http.MethodPost, "/api/service/create", map[string]interface{}{
		"name":     "Home Loan Advisory",
		"category": "Real Estate Consulting",
		"price":    2500,
	}, env.admin)
	testutil.AssertResponse(t, service, http.StatusCreated, "")

	body := map[string]interface{}{"amount": 2500, "client_id": client.ID, "service_id": service.Data()["id"]}
	orderID := createOrder(t, env, body, "").Data()["order_id"].(string)
	sig := payments.Sign(testKeySecret, orderID, "pay_S")
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/payment/verify", verifyBody(orderID, "pay_S", sig), nil).StatusCode)
	order := storedOrder(t, env, orderID)
	require.NotNil(t, order.ServiceID)

	require.NoError(t, env.db.Migrator().DropTable(&models.Service{}))
	var logs bytes.Buffer
	utils.UseLogOutput(&logs)
	t.Cleanup(func() { utils.UseLogOutput(io.Discard) })

	// The receipt is still issued without the service line
	resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/payment/%d/receipt", order.ID), nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, logs.String(), fmt.Sprintf("Failed to load service %d for receipt of payment order %d", *order.ServiceID, order.ID))
}

func TestListPaymentOrders(t *testing.T) {
	env := setup(t)
	client := testutil.CreateTestClient(t, env.db, "Acme Realty")
	var ids []string
	for i := 0; i < 3; i++ {
		resp := createOrder(t, env, map[string]interface{}{"amount": 100 + i, "client_id": client.ID}, "")
		ids = append(ids, resp.Data()["order_id"].(string))
	}
	sig := payments.Sign(testKeySecret, ids[0], "pay_0")
	env.do(t, http.MethodPost, "/api/payment/verify", verifyBody(ids[0], "pay_0", sig), nil)

	resp := env.do(t, http.MethodGet, "/api/payment/list", nil, env.admin)
	testutil.AssertResponse(t, resp, http.StatusOK, "")
	assert.Len(t, dataList(t, resp), 3)

	resp = env.do(t, http.MethodGet, "/api/payment/list?status=Success", nil, env.admin)
	list := dataList(t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, ids[0], list[0].(map[string]interface{})["order_id"])

	resp = env.do(t, http.MethodGet, "/api/payment/list?status=Pending", nil, env.admin)
	assert.Len(t, dataList(t, resp), 2)

	testutil.AssertResponse(t, env.do(t, http.MethodGet, "/api/payment/list?status=Refunded", nil, env.admin), http.StatusBadRequest, "InvalidInput")
	testutil.AssertResponse(t, env.do(t, http.MethodGet, "/api/payment/list", nil, env.user), http.StatusForbidden, "Forbidden")

	order := storedOrder(t, env, ids[1])
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/payment/%d", order.ID), nil, env.admin)
	testutil.AssertResponse(t, resp, http.StatusOK, "")
	assert.Equal(t, ids[1], resp.Data()["order_id"])
	assert.NotContains(t, resp.Data(), "idempotency_key")
}
