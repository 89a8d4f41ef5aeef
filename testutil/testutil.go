// Package testutil holds the helpers shared by handler and repository tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestJWTSecret signs tokens in tests
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB opens a fresh in-memory SQLite database, migrates every model
// and installs it as config.DB until the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.UseLogOutput(io.Discard)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is its own database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		sqlDB.Close()
	})
	return db
}

// CreateTestUser stores a user with a hashed password
func CreateTestUser(t *testing.T, db *gorm.DB, username, password, role string) *models.User {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{Username: username, Password: hashed, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestClient stores a minimal client
func CreateTestClient(t *testing.T, db *gorm.DB, name string) *models.Client {
	t.Helper()
	client := &models.Client{ClientFields: models.ClientFields{Name: name, Visible: true}}
	client.ApplyDefaults()
	require.NoError(t, db.Create(client).Error)
	return client
}

// GetTestToken signs a login token for user with TestJWTSecret
func GetTestToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Role, TestJWTSecret)
	require.NoError(t, err)
	return token
}

// AuthHeader returns the Authorization header for user
func AuthHeader(t *testing.T, user *models.User) map[string]string {
	return map[string]string{"Authorization": "Bearer " + GetTestToken(t, user)}
}

// TestRequest represents a test HTTP request
type TestRequest struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// TestResponse represents a test HTTP response
type TestResponse struct {
	StatusCode int
	Header     http.Header
	Raw        []byte
	Body       map[string]interface{}
}

// Data returns the envelope's data object
func (r TestResponse) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

// Kind returns data.kind of an error envelope
func (r TestResponse) Kind() string {
	kind, _ := r.Data()["kind"].(string)
	return kind
}

// MakeTestRequest makes a test HTTP request
func MakeTestRequest(t *testing.T, router http.Handler, req TestRequest) TestResponse {
	t.Helper()

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		require.NoError(t, err, "marshal request body")
	}

	httpReq, err := http.NewRequest(req.Method, req.Path, bytes.NewBuffer(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)

	resp := TestResponse{
		StatusCode: w.Code,
		Header:     w.Header(),
		Raw:        w.Body.Bytes(),
	}
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp.Body), "unmarshal response body")
	}
	return resp
}

// AssertResponse asserts the status code and, when given, the error kind
func AssertResponse(t *testing.T, response TestResponse, expectedStatusCode int, expectedKind string) {
	t.Helper()
	assert.Equal(t, expectedStatusCode, response.StatusCode, string(response.Raw))
	if expectedKind != "" {
		assert.Equal(t, expectedKind, response.Kind())
	}
}
