package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taskbalance/backend/internal/models"
	tb_uuid "github.com/taskbalance/backend/internal/uuid"
)

type ContributionEditable struct {
	GoalID     uuid.UUID       `json:"goalId" example:"f81566d9-af4d-4f13-9830-c62c4b5e4c7e"`                                // The goal this allocation is for
	Percentage decimal.Decimal `json:"percentage" example:"20" minimum:"0.00000001" maximum:"100" multipleOf:"0.00000001"` // Percentage of the annual savings allocated to the goal
	Date       time.Time       `json:"date" example:"2026-05-10T00:00:00.000000Z"`                                           // Date of the allocation. Defaults to the current time
	Note       string          `json:"note" example:"Yearly bonus arrived" default:""`                                       // A note
}

// model returns the database resource for the API representation of the editable fields
func (editable ContributionEditable) model() models.GoalContribution {
	return models.GoalContribution{
		GoalID:     editable.GoalID,
		Percentage: editable.Percentage,
		Date:       editable.Date,
		Note:       editable.Note,
	}
}

type ContributionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/contributions/59cc6c0a-9baf-49fd-a75a-d76bd5cab19c"` // The contribution itself
	Goal string `json:"goal" example:"https://example.com/api/v1/goals/f81566d9-af4d-4f13-9830-c62c4b5e4c7e"`         // The goal this contribution is for
}

// Contribution is the representation of a GoalContribution in API v1.
type Contribution struct {
	models.DefaultModel
	ContributionEditable
	Links ContributionLinks `json:"links"`
}

// newContribution returns the API v1 representation of the resource
func newContribution(c *gin.Context, model models.GoalContribution) Contribution {
	url := c.GetString(string(models.DBContextURL))

	return Contribution{
		DefaultModel: model.DefaultModel,
		ContributionEditable: ContributionEditable{
			GoalID:     model.GoalID,
			Percentage: model.Percentage,
			Date:       model.Date,
			Note:       model.Note,
		},
		Links: ContributionLinks{
			Self: fmt.Sprintf("%s/v1/contributions/%s", url, model.ID),
			Goal: fmt.Sprintf("%s/v1/goals/%s", url, model.GoalID),
		},
	}
}

type ContributionListResponse struct {
	Data       []Contribution `json:"data"`                                                          // List of resources
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type ContributionCreateResponse struct {
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ContributionResponse `json:"data"`                                                          // List of created resources
}

func (t *ContributionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, ContributionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ContributionResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Contribution `json:"data"`                                                          // The resource
}

type ContributionQueryFilter struct {
	GoalID    tb_uuid.UUID `form:"goal"`                          // ID of the goal
	Note      string       `form:"note" filterField:"false"`      // Note contains this string
	FromDate  time.Time    `form:"fromDate" filterField:"false"`  // Contributions at or after this date
	UntilDate time.Time    `form:"untilDate" filterField:"false"` // Contributions before or at this date
	Offset    uint         `form:"offset" filterField:"false"`    // The offset of the first contribution returned. Defaults to 0.
	Limit     int          `form:"limit" filterField:"false"`     // Maximum number of contributions to return. Defaults to 50.
}

func (f ContributionQueryFilter) model() models.GoalContribution {
	return models.GoalContribution{
		GoalID: f.GoalID.UUID,
	}
}
