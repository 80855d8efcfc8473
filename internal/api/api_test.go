package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"banking_api/internal/config"
	"banking_api/internal/db"
	"banking_api/internal/domain"
	"banking_api/internal/transfer"
	"banking_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testServer bundles a fully wired router with direct database access and a
// pre-issued user token. Redis is nil, so every cached handler hits the DB.
type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	engine *transfer.Engine
	token  string
	userID uint
}

// newTestServer wires the full router against an in-memory SQLite database
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(db.Models()...))

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		AdminSetupKey: "setup-key",
	}
	engine := transfer.NewEngine(gdb, transfer.DefaultLimits())
	router := NewRouter(gdb, nil, engine, cfg)

	user := domain.User{Username: "tester", Password: "not-a-real-hash", Role: domain.RoleUser}
	require.NoError(t, gdb.Create(&user).Error)
	token, err := utils.GenerateJWT(user.ID, cfg.JWTSecret)
	require.NoError(t, err)

	return &testServer{
		router: router,
		db:     gdb,
		cfg:    cfg,
		engine: engine,
		token:  token,
		userID: user.ID,
	}
}

// adminToken creates an admin user and returns a token for it
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	admin := domain.User{Username: "admin" + uuid.NewString()[:8], Password: "not-a-real-hash", Role: domain.RoleAdmin}
	require.NoError(t, s.db.Create(&admin).Error)
	token, err := utils.GenerateJWT(admin.ID, s.cfg.JWTSecret)
	require.NoError(t, err)
	return token
}

// createAccount inserts an account directly, bypassing the API
func (s *testServer) createAccount(t *testing.T, holder string, balance float64) domain.Account {
	t.Helper()
	account := domain.Account{
		AccountNumber: uuid.NewString()[:10],
		AccountHolder: holder,
		AccountType:   domain.AccountTypeChecking,
		Balance:       balance,
	}
	require.NoError(t, s.db.Create(&account).Error)
	return account
}

// request performs an HTTP request against the router. An empty token leaves
// the Authorization header unset.
func (s *testServer) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// requestWithHeader performs an unauthenticated request carrying one extra
// header, such as the admin setup key
func (s *testServer) requestWithHeader(t *testing.T, method, path string, body any, header, value string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(header, value)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorded JSON response
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

// errorMessage extracts the "error" field from a failure response
func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, w, &body)
	return body.Error
}

// accountBalance reads the persisted balance of an account
func (s *testServer) accountBalance(t *testing.T, id uint) float64 {
	t.Helper()
	var account domain.Account
	require.NoError(t, s.db.First(&account, id).Error)
	return account.Balance
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := s.request(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	w := s.request(t, http.MethodGet, "/health", nil, "")
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
