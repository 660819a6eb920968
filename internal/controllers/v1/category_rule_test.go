package v1_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/taskbalance/backend/internal/controllers/v1"
	"github.com/taskbalance/backend/test"
)

// createTestCategoryRule creates a test category rule via the v1 API.
func createTestCategoryRule(t *testing.T, token string, rule v1.CategoryRuleEditable, expectedStatus ...int) v1.CategoryRuleResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.CategoryRuleEditable{rule}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/category-rules", body, authHeader(token))
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var cr v1.CategoryRuleCreateResponse
	test.DecodeResponse(t, &r, &cr)

	if r.Code == http.StatusCreated {
		return cr.Data[0]
	}

	return v1.CategoryRuleResponse{}
}

// TestCategoryRulesPriorityOrder verifies that the list is returned in
// priority order, which is the order rules are applied in.
func (suite *TestSuiteStandard) TestCategoryRulesPriorityOrder() {
	t := suite.T()

	_ = createTestCategoryRule(t, suite.token, v1.CategoryRuleEditable{Priority: 2, Match: "*market*", Category: "Shopping"})
	_ = createTestCategoryRule(t, suite.token, v1.CategoryRuleEditable{Priority: 1, Match: "*supermarket*", Category: "Groceries"})

	r := test.Request(t, http.MethodGet, "http://example.com/v1/category-rules", "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.CategoryRuleListResponse
	test.DecodeResponse(t, &r, &response)

	require.Len(t, response.Data, 2)
	assert.Equal(t, "Groceries", response.Data[0].Category)
	assert.Equal(t, "Shopping", response.Data[1].Category)
}

func (suite *TestSuiteStandard) TestCategoryRulesUpdate() {
	t := suite.T()

	rule := createTestCategoryRule(t, suite.token, v1.CategoryRuleEditable{Priority: 1, Match: "*bus*", Category: "Transport"})

	r := test.Request(t, http.MethodPatch, rule.Data.Links.Self, map[string]string{"category": "Commute"}, suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.CategoryRuleResponse
	test.DecodeResponse(t, &r, &response)
	assert.Equal(t, "Commute", response.Data.Category)
	assert.Equal(t, "*bus*", response.Data.Match, "Fields not in the request body must stay unchanged")
}

// TestCategoryRulesUserScoped verifies that rules of other users are
// invisible and do not influence categorization.
func (suite *TestSuiteStandard) TestCategoryRulesUserScoped() {
	t := suite.T()

	other := registerTestUser(t, "rules-other@example.com")
	foreign := createTestCategoryRule(t, other, v1.CategoryRuleEditable{Priority: 1, Match: "*", Category: "Everything"})

	r := test.Request(t, http.MethodGet, foreign.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusNotFound)

	// The other user's catch-all rule must not categorize our transactions
	tr := createTestTransaction(t, suite.token, v1.TransactionEditable{Note: "anything"})
	assert.Empty(t, tr.Data.Category)
}

func (suite *TestSuiteStandard) TestCategoryRulesDelete() {
	t := suite.T()

	rule := createTestCategoryRule(t, suite.token, v1.CategoryRuleEditable{Priority: 1, Match: "*gym*", Category: "Sports"})

	r := test.Request(t, http.MethodDelete, rule.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusNoContent)

	tr := createTestTransaction(t, suite.token, v1.TransactionEditable{Note: "gym membership"})
	assert.Empty(t, tr.Data.Category, "Deleted rules must not be applied anymore")
}
