package controllers_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/controllers"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/payments"
	"github.com/rk-consultants/rk-server/routes"
	"github.com/rk-consultants/rk-server/testutil"
	"github.com/rk-consultants/rk-server/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testKeyID     = "rzp_test_key"
	testKeySecret = "rzp_test_secret"
	adminEmail    = "admin@rk.test"
)

// stubGateway issues sequential order ids without calling Razorpay
type stubGateway struct {
	mu sync.Mutex
	n  int
}

func (g *stubGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*payments.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return &payments.GatewayOrder{ID: fmt.Sprintf("order_T%d", g.n), Amount: amount, Currency: currency, Receipt: receipt}, nil
}

// recordingMailer keeps what it was asked to send, or fails with err
type recordingMailer struct {
	mu   sync.Mutex
	sent []utils.MailMessage
	err  error
}

func (m *recordingMailer) Send(msg utils.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	admin  *models.User
	user   *models.User
	mailer *recordingMailer
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, as *models.User) testutil.TestResponse {
	t.Helper()
	req := testutil.TestRequest{Method: method, Path: path, Body: body}
	if as != nil {
		req.Headers = testutil.AuthHeader(t, as)
	}
	return testutil.MakeTestRequest(t, e.router, req)
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	svc, err := payments.NewService(payments.NewGormStore(db), &stubGateway{}, testKeySecret)
	require.NoError(t, err)

	mailer := &recordingMailer{}
	controllers.Configure(controllers.Options{
		JWTSecret:        testutil.TestJWTSecret,
		Payments:         svc,
		RazorpayKeyID:    testKeyID,
		ContactMailer:    mailer,
		Mailer:           mailer,
		AdminNotifyEmail: adminEmail,
	})
	t.Cleanup(func() { controllers.Configure(controllers.Options{}) })

	router, err := routes.SetupRouter(routes.Options{
		JWTSecret:      testutil.TestJWTSecret,
		SessionSecret:  "test-session-secret",
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
	require.NoError(t, err)

	return &testEnv{
		router: router,
		db:     db,
		admin:  testutil.CreateTestUser(t, db, "admin", "admin-pass", utils.RoleAdmin),
		user:   testutil.CreateTestUser(t, db, "agent", "agent-pass", utils.RoleUser),
		mailer: mailer,
	}
}

func dataList(t *testing.T, resp testutil.TestResponse) []interface{} {
	t.Helper()
	list, ok := resp.Body["data"].([]interface{})
	require.True(t, ok, "data is not a list: %s", string(resp.Raw))
	return list
}

func listingBody(title, propertyType, city string) map[string]interface{} {
	return map[string]interface{}{
		"title":         title,
		"description":   "Spacious home close to the metro",
		"property_type": propertyType,
		"contact":       map[string]interface{}{"phone": "9876543210"},
		"location":      map[string]interface{}{"city": city, "state": "Maharashtra", "country": "India"},
		"variants": []map[string]interface{}{
			{"bhk": "2BHK", "carpet_area": "850 sqft", "built_up_area": "1000 sqft", "price": 7500000},
		},
	}
}
