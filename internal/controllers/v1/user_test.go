package v1_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/taskbalance/backend/internal/controllers/v1"
	"github.com/taskbalance/backend/internal/currency"
	"github.com/taskbalance/backend/internal/models"
	"github.com/taskbalance/backend/test"
)

func (suite *TestSuiteStandard) TestUserGet() {
	t := suite.T()

	r := test.Request(t, http.MethodGet, "http://example.com/v1/user", "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(t, &r, &response)

	assert.Equal(t, "suite@example.com", response.Data.Email)
	assert.Equal(t, "Suite User", response.Data.Name)
}

// TestUserDelete verifies account deletion with its confirmation
// parameter.
func (suite *TestSuiteStandard) TestUserDelete() {
	t := suite.T()

	token := registerTestUser(t, "delete-me@example.com")
	_ = createTestTransaction(t, token, v1.TransactionEditable{
		Type:             models.Expense,
		OriginalAmount:   decimal.NewFromInt(100),
		OriginalCurrency: currency.UYU,
	})

	tests := []struct {
		name    string
		confirm string
		status  int
	}{
		{"No confirmation", "", http.StatusBadRequest},
		{"Wrong confirmation", "yes", http.StatusBadRequest},
		{"Correct confirmation", "yes-please-delete-my-data", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodDelete, "http://example.com/v1/user?confirm="+tt.confirm, "", authHeader(token))
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	// The account is gone, logging in again fails
	r := test.Request(t, http.MethodPost, "http://example.com/v1/auth/login", v1.LoginRequest{
		Email:    "delete-me@example.com",
		Password: "correct horse battery staple",
	})
	test.AssertHTTPStatus(t, &r, http.StatusUnauthorized)
}

// TestUserDeleteKeepsOthers verifies that deleting one account leaves
// other users' data alone.
func (suite *TestSuiteStandard) TestUserDeleteKeepsOthers() {
	t := suite.T()

	tr := createTestTransaction(t, suite.token, v1.TransactionEditable{
		Type:             models.Expense,
		OriginalAmount:   decimal.NewFromInt(100),
		OriginalCurrency: currency.UYU,
	})

	token := registerTestUser(t, "leaving@example.com")
	r := test.Request(t, http.MethodDelete, "http://example.com/v1/user?confirm=yes-please-delete-my-data", "", authHeader(token))
	test.AssertHTTPStatus(t, &r, http.StatusNoContent)

	r = test.Request(t, http.MethodGet, tr.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)
}
