package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/taskbalance/backend/internal/controllers/v1"
	"github.com/taskbalance/backend/internal/currency"
	"github.com/taskbalance/backend/internal/models"
	"github.com/taskbalance/backend/test"
)

// createTestHousehold creates a test household via the v1 API.
func createTestHousehold(t *testing.T, token string, household v1.HouseholdEditable, expectedStatus ...int) v1.HouseholdResponse {
	if household.Name == "" {
		household.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.HouseholdEditable{household}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/households", body, authHeader(token))
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var hr v1.HouseholdCreateResponse
	test.DecodeResponse(t, &r, &hr)

	if r.Code == http.StatusCreated {
		return hr.Data[0]
	}

	return v1.HouseholdResponse{}
}

// inviteAndAccept invites the email into the household and accepts the
// invitation with the invitee's token.
func inviteAndAccept(t *testing.T, inviterToken, inviteeToken string, householdID uuid.UUID, email string) {
	r := test.Request(t, http.MethodPost, "http://example.com/v1/invitations", []v1.InvitationEditable{{
		HouseholdID: householdID,
		Email:       email,
	}}, authHeader(inviterToken))
	test.AssertHTTPStatus(t, &r, http.StatusCreated)

	var invitations v1.InvitationCreateResponse
	test.DecodeResponse(t, &r, &invitations)
	require.Len(t, invitations.Data, 1)
	require.Nil(t, invitations.Data[0].Error)

	r = test.Request(t, http.MethodPost, invitations.Data[0].Data.Links.Accept, "", authHeader(inviteeToken))
	test.AssertHTTPStatus(t, &r, http.StatusOK)
}

// TestHouseholdsCreate verifies that the creating user becomes the
// owner.
func (suite *TestSuiteStandard) TestHouseholdsCreate() {
	t := suite.T()

	h := createTestHousehold(t, suite.token, v1.HouseholdEditable{Name: "Casa Pocitos"})

	require.Len(t, h.Data.Members, 1)
	assert.Equal(t, models.RoleOwner, h.Data.Members[0].Role)
}

// TestHouseholdsMembership verifies that only members can see a
// household.
func (suite *TestSuiteStandard) TestHouseholdsMembership() {
	t := suite.T()

	other := registerTestUser(t, "household-other@example.com")
	h := createTestHousehold(t, other, v1.HouseholdEditable{})

	r := test.Request(t, http.MethodGet, h.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusForbidden)

	// After accepting an invitation the household becomes visible
	inviteAndAccept(t, other, suite.token, h.Data.ID, "suite@example.com")

	r = test.Request(t, http.MethodGet, h.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.HouseholdResponse
	test.DecodeResponse(t, &r, &response)
	assert.Len(t, response.Data.Members, 2)
}

// TestHouseholdsOwnerOnly verifies that only the owner can change or
// delete a household.
func (suite *TestSuiteStandard) TestHouseholdsOwnerOnly() {
	t := suite.T()

	other := registerTestUser(t, "household-owner@example.com")
	h := createTestHousehold(t, other, v1.HouseholdEditable{})
	inviteAndAccept(t, other, suite.token, h.Data.ID, "suite@example.com")

	r := test.Request(t, http.MethodPatch, h.Data.Links.Self, map[string]string{"name": "Taken over"}, suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusForbidden)

	r = test.Request(t, http.MethodDelete, h.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusForbidden)

	r = test.Request(t, http.MethodPatch, h.Data.Links.Self, map[string]string{"name": "Renamed"}, authHeader(other))
	test.AssertHTTPStatus(t, &r, http.StatusOK)
}

// TestHouseholdsSummary verifies the per-member percentage calculation
// over the shared ledger.
func (suite *TestSuiteStandard) TestHouseholdsSummary() {
	t := suite.T()

	partner := registerTestUser(t, "partner@example.com")
	h := createTestHousehold(t, suite.token, v1.HouseholdEditable{})
	inviteAndAccept(t, suite.token, partner, h.Data.ID, "partner@example.com")

	date := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

	_ = createTestTransaction(t, suite.token, v1.TransactionEditable{
		Type:             models.Income,
		OriginalAmount:   decimal.NewFromInt(3000),
		OriginalCurrency: currency.UYU,
		Date:             date,
		Shared:           true,
		HouseholdID:      &h.Data.ID,
	})
	_ = createTestTransaction(t, partner, v1.TransactionEditable{
		Type:             models.Income,
		OriginalAmount:   decimal.NewFromInt(1000),
		OriginalCurrency: currency.UYU,
		Date:             date,
		Shared:           true,
		HouseholdID:      &h.Data.ID,
	})
	_ = createTestTransaction(t, suite.token, v1.TransactionEditable{
		Type:             models.Expense,
		OriginalAmount:   decimal.NewFromInt(1500),
		OriginalCurrency: currency.UYU,
		Date:             date,
		Shared:           true,
		HouseholdID:      &h.Data.ID,
	})

	// A personal transaction must not show up in the household summary
	_ = createTestTransaction(t, suite.token, v1.TransactionEditable{
		Type:             models.Income,
		OriginalAmount:   decimal.NewFromInt(9999),
		OriginalCurrency: currency.UYU,
		Date:             date,
	})

	r := test.Request(t, http.MethodGet, fmt.Sprintf("%s?month=2026-05", h.Data.Links.Summary), "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.HouseholdSummaryResponse
	test.DecodeResponse(t, &r, &response)

	summary := response.Data
	require.NotNil(t, summary)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(4000)))
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(1500)))
	assert.True(t, summary.MonthlySavings.Equal(decimal.NewFromInt(2500)))

	require.Len(t, summary.Members, 2)
	assert.True(t, summary.Members[0].Percentage.Equal(decimal.NewFromInt(75)), "Owner contributes 3000 of 4000 income, got %s", summary.Members[0].Percentage)
	assert.True(t, summary.Members[1].Percentage.Equal(decimal.NewFromInt(25)))
}

func (suite *TestSuiteStandard) TestHouseholdsSummaryMonthRequired() {
	t := suite.T()

	h := createTestHousehold(t, suite.token, v1.HouseholdEditable{})

	r := test.Request(t, http.MethodGet, h.Data.Links.Summary, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

	r = test.Request(t, http.MethodGet, fmt.Sprintf("%s?month=May-2026", h.Data.Links.Summary), "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
}

// TestHouseholdsDelete verifies that deleting a household turns its
// shared transactions back into personal ones.
func (suite *TestSuiteStandard) TestHouseholdsDelete() {
	t := suite.T()

	h := createTestHousehold(t, suite.token, v1.HouseholdEditable{})

	tr := createTestTransaction(t, suite.token, v1.TransactionEditable{
		Type:             models.Expense,
		OriginalAmount:   decimal.NewFromInt(100),
		OriginalCurrency: currency.UYU,
		Shared:           true,
		HouseholdID:      &h.Data.ID,
	})

	r := test.Request(t, http.MethodDelete, h.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusNoContent)

	r = test.Request(t, http.MethodGet, tr.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(t, &r, &response)
	assert.False(t, response.Data.Shared)
	assert.Nil(t, response.Data.HouseholdID)
}

// TestInvitationsFlow verifies the invitation lifecycle.
func (suite *TestSuiteStandard) TestInvitationsFlow() {
	t := suite.T()

	invitee := registerTestUser(t, "invitee@example.com")
	h := createTestHousehold(t, suite.token, v1.HouseholdEditable{})

	r := test.Request(t, http.MethodPost, "http://example.com/v1/invitations", []v1.InvitationEditable{{
		HouseholdID: h.Data.ID,
		Email:       "invitee@example.com",
	}}, suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusCreated)

	var created v1.InvitationCreateResponse
	test.DecodeResponse(t, &r, &created)
	require.Len(t, created.Data, 1)
	invitation := created.Data[0].Data
	assert.Equal(t, models.InvitationPending, invitation.Status)

	// The invitee sees the invitation
	r = test.Request(t, http.MethodGet, "http://example.com/v1/invitations", "", authHeader(invitee))
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var list v1.InvitationListResponse
	test.DecodeResponse(t, &r, &list)
	require.Len(t, list.Data, 1)

	// A third user cannot accept it
	bystander := registerTestUser(t, "bystander@example.com")
	r = test.Request(t, http.MethodPost, invitation.Links.Accept, "", authHeader(bystander))
	test.AssertHTTPStatus(t, &r, http.StatusForbidden)

	// The invitee accepts and becomes a member
	r = test.Request(t, http.MethodPost, invitation.Links.Accept, "", authHeader(invitee))
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	r = test.Request(t, http.MethodGet, h.Data.Links.Self, "", authHeader(invitee))
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	// Accepting twice fails, the invitation is spent
	r = test.Request(t, http.MethodPost, invitation.Links.Accept, "", authHeader(invitee))
	test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestInvitationsReject() {
	t := suite.T()

	invitee := registerTestUser(t, "reject@example.com")
	h := createTestHousehold(t, suite.token, v1.HouseholdEditable{})

	r := test.Request(t, http.MethodPost, "http://example.com/v1/invitations", []v1.InvitationEditable{{
		HouseholdID: h.Data.ID,
		Email:       "reject@example.com",
	}}, suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusCreated)

	var created v1.InvitationCreateResponse
	test.DecodeResponse(t, &r, &created)
	invitation := created.Data[0].Data

	r = test.Request(t, http.MethodPost, invitation.Links.Reject, "", authHeader(invitee))
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	// A rejected invitation cannot be accepted anymore
	r = test.Request(t, http.MethodPost, invitation.Links.Accept, "", authHeader(invitee))
	test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

	// The household still has only its owner
	r = test.Request(t, http.MethodGet, h.Data.Links.Self, "", suite.auth())
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.HouseholdResponse
	test.DecodeResponse(t, &r, &response)
	assert.Len(t, response.Data.Members, 1)
}

// TestInvitationsMemberOnly verifies that only members can invite into
// a household.
func (suite *TestSuiteStandard) TestInvitationsMemberOnly() {
	t := suite.T()

	other := registerTestUser(t, "not-a-member@example.com")
	h := createTestHousehold(t, suite.token, v1.HouseholdEditable{})

	r := test.Request(t, http.MethodPost, "http://example.com/v1/invitations", []v1.InvitationEditable{{
		HouseholdID: h.Data.ID,
		Email:       "someone@example.com",
	}}, authHeader(other))
	test.AssertHTTPStatus(t, &r, http.StatusForbidden)
}
