package v1_test

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/taskbalance/backend/internal/controllers/v1"
	"github.com/taskbalance/backend/internal/currency"
	"github.com/taskbalance/backend/internal/models"
	"github.com/taskbalance/backend/test"
)

// TestExport verifies that the export contains the user's resources and
// nothing of anybody else's.
func (suite *TestSuiteStandard) TestExport() {
	t := suite.T()

	_ = createTestTransaction(t, suite.token, v1.TransactionEditable{
		Type:             models.Income,
		OriginalAmount:   decimal.NewFromInt(50000),
		OriginalCurrency: currency.UYU,
	})
	goal := createTestGoal(t, suite.token, v1.GoalEditable{Name: "Vacaciones"})
	_ = createTestContribution(t, suite.token, v1.ContributionEditable{
		GoalID:     goal.Data.ID,
		Percentage: decimal.NewFromInt(10),
	})
	_ = createTestCategoryRule(t, suite.token, v1.CategoryRuleEditable{Match: "*farmacia*", Category: "Health"})

	// Another user's data must not leak into the export
	other := registerTestUser(t, "export-other@example.com")
	_ = createTestTransaction(t, other, v1.TransactionEditable{
		Type:             models.Expense,
		OriginalAmount:   decimal.NewFromInt(123),
		OriginalCurrency: currency.USD,
	})

	r := test.Request(t, http.MethodGet, "http://example.com/v1/export", "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.ExportResponse
	test.DecodeResponse(t, &r, &response)
	require.NotNil(t, response.Data)

	assert.Equal(t, "suite@example.com", response.Data.User.Email)
	assert.Len(t, response.Data.Transactions, 1)
	assert.Len(t, response.Data.Goals, 1)
	assert.Len(t, response.Data.Contributions, 1)
	assert.Len(t, response.Data.CategoryRules, 1)
	assert.Equal(t, currency.UYU, response.Data.RateSettings.BaseCurrency)
	assert.Len(t, response.Data.Rates, len(currency.Codes))
}
