package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskbalance/backend/internal/models"
)

type InvitationEditable struct {
	HouseholdID uuid.UUID `json:"householdId" example:"1e777d24-3f5b-4c43-8000-04f65f895578"` // The household the invitation is for
	Email       string    `json:"email" example:"partner@example.com"`                        // Email address of the invited user
}

// model returns the database resource for the API representation of the editable fields
func (editable InvitationEditable) model() models.Invitation {
	return models.Invitation{
		HouseholdID: editable.HouseholdID,
		Email:       editable.Email,
	}
}

type InvitationLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v1/invitations/6a7d19bb-bbf3-4a57-b2ec-44b3e9e40dab"`        // The invitation itself
	Accept    string `json:"accept" example:"https://example.com/api/v1/invitations/6a7d19bb-bbf3-4a57-b2ec-44b3e9e40dab/accept"` // Accept the invitation
	Reject    string `json:"reject" example:"https://example.com/api/v1/invitations/6a7d19bb-bbf3-4a57-b2ec-44b3e9e40dab/reject"` // Reject the invitation
	Household string `json:"household" example:"https://example.com/api/v1/households/1e777d24-3f5b-4c43-8000-04f65f895578"`      // The household
}

// Invitation is the representation of an Invitation in API v1.
type Invitation struct {
	models.DefaultModel
	HouseholdID uuid.UUID               `json:"householdId" example:"1e777d24-3f5b-4c43-8000-04f65f895578"` // The household the invitation is for
	Email       string                  `json:"email" example:"partner@example.com"`                        // Email address of the invited user
	Status      models.InvitationStatus `json:"status" example:"pending"`                                   // Current status
	ExpiresAt   time.Time               `json:"expiresAt" example:"2026-09-15T00:00:00.000000Z"`            // After this point the invitation cannot be accepted anymore
	Links       InvitationLinks         `json:"links"`
}

// newInvitation returns the API v1 representation of the resource
func newInvitation(c *gin.Context, model models.Invitation) Invitation {
	url := c.GetString(string(models.DBContextURL))

	return Invitation{
		DefaultModel: model.DefaultModel,
		HouseholdID:  model.HouseholdID,
		Email:        model.Email,
		Status:       model.Status,
		ExpiresAt:    model.ExpiresAt,
		Links: InvitationLinks{
			Self:      fmt.Sprintf("%s/v1/invitations/%s", url, model.ID),
			Accept:    fmt.Sprintf("%s/v1/invitations/%s/accept", url, model.ID),
			Reject:    fmt.Sprintf("%s/v1/invitations/%s/reject", url, model.ID),
			Household: fmt.Sprintf("%s/v1/households/%s", url, model.HouseholdID),
		},
	}
}

type InvitationListResponse struct {
	Data  []Invitation `json:"data"`                                                          // List of resources
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type InvitationCreateResponse struct {
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []InvitationResponse `json:"data"`                                                          // List of created resources
}

func (t *InvitationCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, InvitationResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type InvitationResponse struct {
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Invitation `json:"data"`                                                          // The resource
}
