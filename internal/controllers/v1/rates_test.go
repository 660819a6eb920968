package v1_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/taskbalance/backend/internal/controllers/v1"
	"github.com/taskbalance/backend/internal/currency"
	"github.com/taskbalance/backend/test"
)

func getRates(t *testing.T, token string) v1.RateData {
	r := test.Request(t, http.MethodGet, "http://example.com/v1/rates", "", authHeader(token))
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.RateResponse
	test.DecodeResponse(t, &r, &response)
	require.NotNil(t, response.Data)

	return *response.Data
}

// TestRatesDefaults verifies the seeded rate table.
func (suite *TestSuiteStandard) TestRatesDefaults() {
	t := suite.T()

	data := getRates(t, suite.token)

	assert.Equal(t, currency.UYU, data.BaseCurrency)
	assert.True(t, data.Rates[currency.UYU].Equal(decimal.NewFromInt(1)))
	assert.True(t, data.Rates[currency.USD].Equal(decimal.RequireFromString("42.5")))
	assert.True(t, data.Rates[currency.EUR].Equal(decimal.RequireFromString("46.8")))
}

func (suite *TestSuiteStandard) TestRatesUpdateSettings() {
	t := suite.T()

	r := test.Request(t, http.MethodPatch, "http://example.com/v1/rates", v1.RateSettingsEditable{
		BaseCurrency: currency.USD,
	}, suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.RateResponse
	test.DecodeResponse(t, &r, &response)
	assert.Equal(t, currency.USD, response.Data.BaseCurrency)

	// The stored rates stay pivot relative
	assert.True(t, response.Data.Rates[currency.USD].Equal(decimal.RequireFromString("42.5")))
}

func (suite *TestSuiteStandard) TestRatesUpdateSettingsInvalid() {
	t := suite.T()

	tests := []struct {
		name string
		body any
	}{
		{"Unknown currency", map[string]string{"baseCurrency": "ARS"}},
		{"Broken body", `{ "baseCurrency": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, "http://example.com/v1/rates", tt.body, suite.auth())
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

// TestRatesRefresh verifies that a refresh replaces the table with the
// provider's answer.
func (suite *TestSuiteStandard) TestRatesRefresh() {
	t := suite.T()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base": "UYU", "rates": {"USD": "43.1", "EUR": "47.2"}}`))
	}))
	defer provider.Close()
	t.Setenv("RATES_URL", provider.URL)

	r := test.Request(t, http.MethodPost, "http://example.com/v1/rates/refresh", "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.RateResponse
	test.DecodeResponse(t, &r, &response)
	assert.True(t, response.Data.Rates[currency.USD].Equal(decimal.RequireFromString("43.1")))
	assert.True(t, response.Data.Rates[currency.EUR].Equal(decimal.RequireFromString("47.2")))
	assert.False(t, response.Data.Stale)
}

// TestRatesRefreshProviderDown verifies that a failed refresh keeps the
// stored table.
func (suite *TestSuiteStandard) TestRatesRefreshProviderDown() {
	t := suite.T()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer provider.Close()
	t.Setenv("RATES_URL", provider.URL)

	r := test.Request(t, http.MethodPost, "http://example.com/v1/rates/refresh", "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusBadGateway)

	// The seeded table keeps serving
	data := getRates(t, suite.token)
	assert.True(t, data.Rates[currency.USD].Equal(decimal.RequireFromString("42.5")))
}

// TestRatesRefreshInvalidTable verifies that a provider answer with a
// non-positive rate is rejected.
func (suite *TestSuiteStandard) TestRatesRefreshInvalidTable() {
	t := suite.T()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base": "UYU", "rates": {"USD": "-1", "EUR": "47.2"}}`))
	}))
	defer provider.Close()
	t.Setenv("RATES_URL", provider.URL)

	r := test.Request(t, http.MethodPost, "http://example.com/v1/rates/refresh", "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

	data := getRates(t, suite.token)
	assert.True(t, data.Rates[currency.USD].Equal(decimal.RequireFromString("42.5")))
}
