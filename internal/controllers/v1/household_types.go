package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskbalance/backend/internal/models"
	"gorm.io/gorm"
)

type HouseholdEditable struct {
	Name string `json:"name" example:"Casa Pocitos"`                             // Name of the household
	Note string `json:"note" example:"Expenses for the flat we share" default:""` // A note
}

// model returns the database resource for the API representation of the editable fields
func (editable HouseholdEditable) model() models.Household {
	return models.Household{
		Name: editable.Name,
		Note: editable.Note,
	}
}

type HouseholdMember struct {
	UserID uuid.UUID            `json:"userId" example:"65392deb-5e92-4268-b114-297faad6cdce"` // The user
	Name   string               `json:"name" example:"Morre"`                                  // Display name of the user
	Role   models.HouseholdRole `json:"role" example:"member"`                                 // Role in the household
}

type HouseholdLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/households/5a15bc3a-b4b1-4aac-8962-53f5e8e1e7e6"`            // The household itself
	Summary string `json:"summary" example:"https://example.com/api/v1/households/5a15bc3a-b4b1-4aac-8962-53f5e8e1e7e6/summary"` // The monthly summary endpoint
}

// Household is the representation of a Household in API v1.
type Household struct {
	models.DefaultModel
	HouseholdEditable
	Members []HouseholdMember `json:"members"` // All current members
	Links   HouseholdLinks    `json:"links"`
}

// newHousehold returns the API v1 representation of the resource
func newHousehold(c *gin.Context, db *gorm.DB, model models.Household) (Household, error) {
	url := c.GetString(string(models.DBContextURL))

	members, err := model.Members(db)
	if err != nil {
		return Household{}, err
	}

	apiMembers := make([]HouseholdMember, 0, len(members))
	for _, member := range members {
		apiMembers = append(apiMembers, HouseholdMember{
			UserID: member.UserID,
			Name:   member.User.Name,
			Role:   member.Role,
		})
	}

	return Household{
		DefaultModel: model.DefaultModel,
		HouseholdEditable: HouseholdEditable{
			Name: model.Name,
			Note: model.Note,
		},
		Members: apiMembers,
		Links: HouseholdLinks{
			Self:    fmt.Sprintf("%s/v1/households/%s", url, model.ID),
			Summary: fmt.Sprintf("%s/v1/households/%s/summary", url, model.ID),
		},
	}, nil
}

type HouseholdListResponse struct {
	Data       []Household `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type HouseholdCreateResponse struct {
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []HouseholdResponse `json:"data"`                                                          // List of created resources
}

func (t *HouseholdCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, HouseholdResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type HouseholdResponse struct {
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Household `json:"data"`                                                          // The resource
}

type HouseholdSummaryResponse struct {
	Error *string                  `json:"error" example:"the month query parameter must be set"` // The error, if any occurred
	Data  *models.HouseholdSummary `json:"data"`                                                  // The summary
}

type HouseholdQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // By name
	Note   string `form:"note" filterField:"false"`   // By the note
	Search string `form:"search" filterField:"false"` // By string in name or note
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first household returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of households to return. Defaults to 50.
}
