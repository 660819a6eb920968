package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/taskbalance/backend/internal/controllers/v1"
	"github.com/taskbalance/backend/internal/currency"
	"github.com/taskbalance/backend/internal/models"
	"github.com/taskbalance/backend/test"
)

// createTestGoal creates a test goal via the v1 API.
func createTestGoal(t *testing.T, token string, goal v1.GoalEditable, expectedStatus ...int) v1.GoalResponse {
	if goal.Name == "" {
		goal.Name = uuid.NewString()
	}

	if goal.TargetAmount.IsZero() {
		goal.TargetAmount = decimal.NewFromInt(1000)
	}

	if goal.Currency == "" {
		goal.Currency = currency.UYU
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.GoalEditable{goal}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/goals", body, authHeader(token))
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var gr v1.GoalCreateResponse
	test.DecodeResponse(t, &r, &gr)

	if r.Code == http.StatusCreated {
		return gr.Data[0]
	}

	return v1.GoalResponse{}
}

// createTestContribution creates a test goal contribution via the v1 API.
func createTestContribution(t *testing.T, token string, contribution v1.ContributionEditable, expectedStatus ...int) v1.ContributionResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.ContributionEditable{contribution}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/contributions", body, authHeader(token))
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var cr v1.ContributionCreateResponse
	test.DecodeResponse(t, &r, &cr)

	if r.Code == http.StatusCreated {
		return cr.Data[0]
	}

	return v1.ContributionResponse{}
}

// TestGoalsFunding verifies that the funded amount is derived from the
// annual savings and the allocated percentage.
func (suite *TestSuiteStandard) TestGoalsFunding() {
	t := suite.T()

	// 50000 UYU annual savings
	_ = createTestTransaction(t, suite.token, v1.TransactionEditable{
		Type:             models.Income,
		OriginalAmount:   decimal.NewFromInt(60000),
		OriginalCurrency: currency.UYU,
	})
	_ = createTestTransaction(t, suite.token, v1.TransactionEditable{
		Type:             models.Expense,
		OriginalAmount:   decimal.NewFromInt(10000),
		OriginalCurrency: currency.UYU,
	})

	goal := createTestGoal(t, suite.token, v1.GoalEditable{
		TargetAmount: decimal.NewFromInt(10000),
		Currency:     currency.UYU,
	})
	assert.True(t, goal.Data.FundedAmount.IsZero(), "A goal without contributions must not be funded")
	assert.False(t, goal.Data.Completed)

	_ = createTestContribution(t, suite.token, v1.ContributionEditable{
		GoalID:     goal.Data.ID,
		Percentage: decimal.NewFromInt(20),
	})

	r := test.Request(t, http.MethodGet, goal.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.GoalResponse
	test.DecodeResponse(t, &r, &response)

	assert.True(t, response.Data.AllocatedPercentage.Equal(decimal.NewFromInt(20)))
	assert.True(t, response.Data.FundedAmount.Equal(decimal.NewFromInt(10000)), "20%% of 50000 savings must fund 10000, got %s", response.Data.FundedAmount)
	assert.True(t, response.Data.Completed)
}

// TestGoalsFundingCurrency verifies that the funded amount is converted
// into the goal's currency.
func (suite *TestSuiteStandard) TestGoalsFundingCurrency() {
	t := suite.T()

	_ = createTestTransaction(t, suite.token, v1.TransactionEditable{
		Type:             models.Income,
		OriginalAmount:   decimal.NewFromInt(8500),
		OriginalCurrency: currency.UYU,
	})

	goal := createTestGoal(t, suite.token, v1.GoalEditable{
		TargetAmount: decimal.NewFromInt(100),
		Currency:     currency.USD,
	})

	_ = createTestContribution(t, suite.token, v1.ContributionEditable{
		GoalID:     goal.Data.ID,
		Percentage: decimal.NewFromInt(50),
	})

	r := test.Request(t, http.MethodGet, goal.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.GoalResponse
	test.DecodeResponse(t, &r, &response)

	// 50% of 8500 UYU savings is 4250 UYU, which is 100 USD at a rate of 42.5
	assert.True(t, response.Data.FundedAmount.Equal(decimal.NewFromInt(100)), "Funded amount must be converted to USD, got %s", response.Data.FundedAmount)
	assert.True(t, response.Data.Completed)
}

// TestContributionsCap verifies that a goal's allocations can never
// exceed 100%, on creation and on update.
func (suite *TestSuiteStandard) TestContributionsCap() {
	t := suite.T()

	goal := createTestGoal(t, suite.token, v1.GoalEditable{})

	_ = createTestContribution(t, suite.token, v1.ContributionEditable{
		GoalID:     goal.Data.ID,
		Percentage: decimal.NewFromInt(90),
	})

	// Another 15% on the same goal exceeds the remaining headroom
	_ = createTestContribution(t, suite.token, v1.ContributionEditable{
		GoalID:     goal.Data.ID,
		Percentage: decimal.NewFromInt(15),
	}, http.StatusBadRequest)

	// 10% fills the headroom exactly
	c := createTestContribution(t, suite.token, v1.ContributionEditable{
		GoalID:     goal.Data.ID,
		Percentage: decimal.NewFromInt(10),
	})

	// Updating past the cap is rejected as well
	r := test.Request(t, http.MethodPatch, c.Data.Links.Self, map[string]string{"percentage": "20"}, suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

	// The cap is per goal, a second goal has its own full headroom
	other := createTestGoal(t, suite.token, v1.GoalEditable{})
	_ = createTestContribution(t, suite.token, v1.ContributionEditable{
		GoalID:     other.Data.ID,
		Percentage: decimal.NewFromInt(100),
	})
}

// TestContributionsGoalScoped verifies that contributions can only be
// created for own goals.
func (suite *TestSuiteStandard) TestContributionsGoalScoped() {
	t := suite.T()

	other := registerTestUser(t, "contribution-other@example.com")
	foreignGoal := createTestGoal(t, other, v1.GoalEditable{})

	_ = createTestContribution(t, suite.token, v1.ContributionEditable{
		GoalID:     foreignGoal.Data.ID,
		Percentage: decimal.NewFromInt(10),
	}, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestContributionsGetFilter() {
	t := suite.T()

	goal := createTestGoal(t, suite.token, v1.GoalEditable{})
	other := createTestGoal(t, suite.token, v1.GoalEditable{})

	_ = createTestContribution(t, suite.token, v1.ContributionEditable{GoalID: goal.Data.ID, Percentage: decimal.NewFromInt(10)})
	_ = createTestContribution(t, suite.token, v1.ContributionEditable{GoalID: goal.Data.ID, Percentage: decimal.NewFromInt(20)})
	_ = createTestContribution(t, suite.token, v1.ContributionEditable{GoalID: other.Data.ID, Percentage: decimal.NewFromInt(30)})

	tests := []struct {
		query string
		count int
	}{
		{"", 3},
		{fmt.Sprintf("goal=%s", goal.Data.ID), 2},
		{fmt.Sprintf("goal=%s", other.Data.ID), 1},
		{fmt.Sprintf("goal=%s", uuid.New()), 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.query, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/contributions?%s", tt.query), "", suite.auth())
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.ContributionListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

// TestGoalsSorting verifies that completed goals sort last and that
// open goals are ordered by priority.
func (suite *TestSuiteStandard) TestGoalsSorting() {
	t := suite.T()

	_ = createTestTransaction(t, suite.token, v1.TransactionEditable{
		Type:             models.Income,
		OriginalAmount:   decimal.NewFromInt(10000),
		OriginalCurrency: currency.UYU,
	})

	done := createTestGoal(t, suite.token, v1.GoalEditable{
		Name:         "Already funded",
		TargetAmount: decimal.NewFromInt(100),
		Priority:     models.PriorityHigh,
	})
	_ = createTestContribution(t, suite.token, v1.ContributionEditable{GoalID: done.Data.ID, Percentage: decimal.NewFromInt(50)})

	_ = createTestGoal(t, suite.token, v1.GoalEditable{
		Name:         "Low priority",
		TargetAmount: decimal.NewFromInt(100000),
		Priority:     models.PriorityLow,
	})
	_ = createTestGoal(t, suite.token, v1.GoalEditable{
		Name:         "High priority",
		TargetAmount: decimal.NewFromInt(100000),
		Priority:     models.PriorityHigh,
	})

	r := test.Request(t, http.MethodGet, "http://example.com/v1/goals", "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.GoalListResponse
	test.DecodeResponse(t, &r, &response)

	require.Len(t, response.Data, 3)
	assert.Equal(t, "High priority", response.Data[0].Name)
	assert.Equal(t, "Low priority", response.Data[1].Name)
	assert.Equal(t, "Already funded", response.Data[2].Name, "Completed goals must sort last")
}

func (suite *TestSuiteStandard) TestGoalsCreateInvalid() {
	// The helper defaults empty fields, the requests go straight to the
	// API instead
	tests := []struct {
		name string
		goal v1.GoalEditable
	}{
		{"Target not positive", v1.GoalEditable{Name: "No target", Currency: currency.UYU}},
		{"Negative target", v1.GoalEditable{Name: "Negative target", TargetAmount: decimal.NewFromInt(-10), Currency: currency.UYU}},
		{"Unknown currency", v1.GoalEditable{Name: "Bad currency", TargetAmount: decimal.NewFromInt(100), Currency: "ARS"}},
		{"Unknown priority", v1.GoalEditable{Name: "Bad priority", TargetAmount: decimal.NewFromInt(100), Currency: currency.UYU, Priority: "urgent"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/goals", []v1.GoalEditable{tt.goal}, suite.auth())
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

// TestGoalsNameUnique verifies that goal names are unique per user but
// not across users.
func (suite *TestSuiteStandard) TestGoalsNameUnique() {
	t := suite.T()

	_ = createTestGoal(t, suite.token, v1.GoalEditable{Name: "Vacation"})
	_ = createTestGoal(t, suite.token, v1.GoalEditable{Name: "Vacation"}, http.StatusBadRequest)

	other := registerTestUser(t, "goal-other@example.com")
	_ = createTestGoal(t, other, v1.GoalEditable{Name: "Vacation"})
}

// TestGoalsDelete verifies that deleting a goal removes its
// contributions, freeing their allocation.
func (suite *TestSuiteStandard) TestGoalsDelete() {
	t := suite.T()

	goal := createTestGoal(t, suite.token, v1.GoalEditable{})
	_ = createTestContribution(t, suite.token, v1.ContributionEditable{GoalID: goal.Data.ID, Percentage: decimal.NewFromInt(100)})

	r := test.Request(t, http.MethodDelete, goal.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusNoContent)

	// The freed allocation can be assigned to a new goal
	fresh := createTestGoal(t, suite.token, v1.GoalEditable{})
	_ = createTestContribution(t, suite.token, v1.ContributionEditable{GoalID: fresh.Data.ID, Percentage: decimal.NewFromInt(100)})
}
