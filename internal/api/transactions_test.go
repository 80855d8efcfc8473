package api

import (
	"fmt"
	"net/http"
	"testing"

	"banking_api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositAndWithdrawal(t *testing.T) {
	s := newTestServer(t)
	account := s.createAccount(t, "Alice", 0)

	w := s.request(t, http.MethodPost, "/api/v1/transactions", CreateTransactionRequest{
		AccountID:       account.ID,
		TransactionType: domain.TransactionTypeDeposit,
		Amount:          200,
		Description:     "paycheck",
	}, s.token)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	var entry domain.Transaction
	decodeBody(t, w, &entry)
	assert.Equal(t, domain.StatusCompleted, entry.Status)
	assert.Equal(t, 200.0, s.accountBalance(t, account.ID))

	w = s.request(t, http.MethodPost, "/api/v1/transactions", CreateTransactionRequest{
		AccountID:       account.ID,
		TransactionType: domain.TransactionTypeWithdrawal,
		Amount:          50,
	}, s.token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 150.0, s.accountBalance(t, account.ID))

	// Both entries are on the ledger
	var count int64
	require.NoError(t, s.db.Model(&domain.Transaction{}).Where("account_id = ?", account.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestWithdrawalInsufficientBalance(t *testing.T) {
	s := newTestServer(t)
	account := s.createAccount(t, "Alice", 30)

	w := s.request(t, http.MethodPost, "/api/v1/transactions", CreateTransactionRequest{
		AccountID:       account.ID,
		TransactionType: domain.TransactionTypeWithdrawal,
		Amount:          100,
	}, s.token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient balance. Available: $30.00, Required: $100.00", errorMessage(t, w))

	// Nothing was deducted and no ledger row was written
	assert.Equal(t, 30.0, s.accountBalance(t, account.ID))
	var count int64
	require.NoError(t, s.db.Model(&domain.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTransactionTypeRestricted(t *testing.T) {
	s := newTestServer(t)
	account := s.createAccount(t, "Alice", 100)

	// Transfer rows are written only by the transfer engine
	for _, txType := range []domain.TransactionType{domain.TransactionTypeTransferOut, domain.TransactionTypeTransferIn, "bogus"} {
		w := s.request(t, http.MethodPost, "/api/v1/transactions", CreateTransactionRequest{
			AccountID:       account.ID,
			TransactionType: txType,
			Amount:          10,
		}, s.token)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Transaction type must be deposit or withdrawal", errorMessage(t, w))
	}
}

func TestTransactionUnknownAccount(t *testing.T) {
	s := newTestServer(t)
	w := s.request(t, http.MethodPost, "/api/v1/transactions", CreateTransactionRequest{
		AccountID:       9999,
		TransactionType: domain.TransactionTypeDeposit,
		Amount:          10,
	}, s.token)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Account not found", errorMessage(t, w))
}

func TestGetTransactionEndpoint(t *testing.T) {
	s := newTestServer(t)
	account := s.createAccount(t, "Alice", 0)
	tx := domain.Transaction{
		AccountID:       account.ID,
		TransactionType: domain.TransactionTypeDeposit,
		Amount:          42,
		Status:          domain.StatusCompleted,
	}
	require.NoError(t, s.db.Create(&tx).Error)

	w := s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", tx.ID), nil, s.token)
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.Transaction
	decodeBody(t, w, &got)
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, 42.0, got.Amount)

	w = s.request(t, http.MethodGet, "/api/v1/transactions/9999", nil, s.token)
	require.Equal(t, http.StatusNotFound, w.Code)
}
