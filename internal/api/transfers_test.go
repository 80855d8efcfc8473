package api

import (
	"net/http"
	"testing"

	"banking_api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalTransferEndpoint(t *testing.T) {
	s := newTestServer(t)
	source := s.createAccount(t, "Alice", 1000)
	destination := s.createAccount(t, "Bob", 0)

	w := s.request(t, http.MethodPost, "/api/v1/transfers/internal", InternalTransferRequest{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               100,
		Description:          "rent",
	}, s.token)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var body struct {
		TransferID   string  `json:"transfer_id"`
		TransferType string  `json:"transfer_type"`
		Status       string  `json:"status"`
		Amount       float64 `json:"amount"`
	}
	decodeBody(t, w, &body)
	assert.Regexp(t, `^TXN-[0-9A-F]{12}$`, body.TransferID)
	assert.Equal(t, "internal", body.TransferType)
	assert.Equal(t, "completed", body.Status)
	assert.Equal(t, 100.0, body.Amount)

	assert.Equal(t, 900.0, s.accountBalance(t, source.ID))
	assert.Equal(t, 100.0, s.accountBalance(t, destination.ID))
}

func TestInternalTransferEndpointInsufficientBalance(t *testing.T) {
	s := newTestServer(t)
	source := s.createAccount(t, "Alice", 50)
	destination := s.createAccount(t, "Bob", 0)

	w := s.request(t, http.MethodPost, "/api/v1/transfers/internal", InternalTransferRequest{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               100,
	}, s.token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient balance. Available: $50.00, Required: $100.00", errorMessage(t, w))
	assert.Equal(t, 50.0, s.accountBalance(t, source.ID))

	// The failure was recorded with the engine's classification
	var entry domain.ErrorLog
	require.NoError(t, s.db.Where("endpoint = ?", "/api/v1/transfers/internal").First(&entry).Error)
	assert.Equal(t, domain.CategoryValidation, entry.Category)
	assert.Equal(t, "insufficient_balance", entry.ErrorType)
	assert.Equal(t, http.StatusBadRequest, entry.StatusCode)
	assert.Equal(t, w.Header().Get("X-Request-ID"), entry.RequestID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, s.userID, *entry.UserID)
}

func TestInternalTransferEndpointUnknownSource(t *testing.T) {
	s := newTestServer(t)
	destination := s.createAccount(t, "Bob", 0)

	w := s.request(t, http.MethodPost, "/api/v1/transfers/internal", InternalTransferRequest{
		SourceAccountID:      9999,
		DestinationAccountID: destination.ID,
		Amount:               100,
	}, s.token)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Source account not found", errorMessage(t, w))
}

func TestInternalTransferEndpointBadPayload(t *testing.T) {
	s := newTestServer(t)

	// Missing amount fails binding before the engine is touched
	w := s.request(t, http.MethodPost, "/api/v1/transfers/internal", map[string]any{
		"source_account_id":      1,
		"destination_account_id": 2,
	}, s.token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request", errorMessage(t, w))

	// Negative amount fails the gt=0 binding
	w = s.request(t, http.MethodPost, "/api/v1/transfers/internal", map[string]any{
		"source_account_id":      1,
		"destination_account_id": 2,
		"amount":                 -5,
	}, s.token)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExternalTransferEndpoint(t *testing.T) {
	s := newTestServer(t)
	source := s.createAccount(t, "Alice", 1000)

	w := s.request(t, http.MethodPost, "/api/v1/transfers/external", ExternalTransferRequest{
		SourceAccountID:       source.ID,
		ExternalAccountNumber: "9876543210",
		ExternalBankName:      "Other Bank",
		ExternalRoutingNumber: "123456789",
		Amount:                200,
	}, s.token)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var body struct {
		TransferID string `json:"transfer_id"`
		Status     string `json:"status"`
	}
	decodeBody(t, w, &body)
	assert.Regexp(t, `^EXT-[0-9A-F]{12}$`, body.TransferID)
	assert.Equal(t, "pending", body.Status)
	assert.Equal(t, 800.0, s.accountBalance(t, source.ID))
}

func TestExternalTransferEndpointBadDetails(t *testing.T) {
	s := newTestServer(t)
	source := s.createAccount(t, "Alice", 1000)

	w := s.request(t, http.MethodPost, "/api/v1/transfers/external", ExternalTransferRequest{
		SourceAccountID:       source.ID,
		ExternalAccountNumber: "12", // Too short
		ExternalBankName:      "Other Bank",
		ExternalRoutingNumber: "123456789",
		Amount:                200,
	}, s.token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1000.0, s.accountBalance(t, source.ID))
}

func TestGetTransferEndpoint(t *testing.T) {
	s := newTestServer(t)
	source := s.createAccount(t, "Alice", 1000)
	destination := s.createAccount(t, "Bob", 0)

	created, err := s.engine.CreateInternalTransfer(source.ID, destination.ID, 100, "rent")
	require.NoError(t, err)

	w := s.request(t, http.MethodGet, "/api/v1/transfers/"+created.TransferID, nil, s.token)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		TransferID string `json:"transfer_id"`
		Status     string `json:"status"`
	}
	decodeBody(t, w, &body)
	assert.Equal(t, created.TransferID, body.TransferID)
	assert.Equal(t, "completed", body.Status)

	w = s.request(t, http.MethodGet, "/api/v1/transfers/TXN-000000000000", nil, s.token)
	require.Equal(t, http.StatusNotFound, w.Code)
}
