package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/taskbalance/backend/internal/currency"
	"github.com/taskbalance/backend/internal/models"
	"github.com/taskbalance/backend/internal/types"
	"gorm.io/gorm"
)

type GoalEditable struct {
	Name         string              `json:"name" example:"New TV" default:""`                                                                              // Name of the goal
	Note         string              `json:"note" example:"We want to replace the old CRT TV soon-ish" default:""`                                          // Note about the goal
	TargetAmount decimal.Decimal     `json:"targetAmount" example:"750" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"`       // How much money should be saved for this goal?
	Currency     currency.Code       `json:"currency" example:"USD"`                                                                                        // The currency the target is defined in
	Priority     models.GoalPriority `json:"priority" example:"high" default:"medium"`                                                                      // Priority of the goal
	Archived     bool                `json:"archived" example:"true" default:"false"`                                                                       // If this goal is still in use or not
}

// model returns the database resource for the API representation of the editable fields
func (editable GoalEditable) model() models.Goal {
	return models.Goal{
		Name:         editable.Name,
		Note:         editable.Note,
		TargetAmount: editable.TargetAmount,
		Currency:     editable.Currency,
		Priority:     editable.Priority,
		Archived:     editable.Archived,
	}
}

type GoalLinks struct {
	Self          string `json:"self" example:"https://example.com/api/v1/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c"`               // The goal itself
	Contributions string `json:"contributions" example:"https://example.com/api/v1/contributions?goal=438cc6c0-9baf-49fd-a75a-d76bd5cab19c"` // The contributions for this goal
}

// Goal is the representation of a Goal in API v1.
type Goal struct {
	models.DefaultModel
	GoalEditable

	// The funding fields are derived from the contribution percentages
	// and the annual savings of the current year. They are computed for
	// every request, the ledger and the rate table are the only state.
	AllocatedPercentage decimal.Decimal `json:"allocatedPercentage" example:"20"`    // Sum of the contribution percentages for this goal
	FundedAmount        decimal.Decimal `json:"fundedAmount" example:"10000"`        // The share of the annual savings allocated to this goal, in the goal's currency
	Completed           bool            `json:"completed" example:"false"`           // Whether the funded amount reaches the target

	Links GoalLinks `json:"links"`
}

// newGoal returns the API v1 representation of the resource.
//
// The funded amount is derived from the authenticated user's annual
// savings of the current year.
func newGoal(c *gin.Context, db *gorm.DB, model models.Goal) (Goal, error) {
	url := c.GetString(string(models.DBContextURL))

	allocated, err := model.AllocatedPercentage(db)
	if err != nil {
		return Goal{}, err
	}

	settings, err := models.Settings(db)
	if err != nil {
		return Goal{}, err
	}

	table, err := models.Rates(db)
	if err != nil {
		return Goal{}, err
	}

	annualSavings, err := models.AnnualSavings(db, model.UserID, types.YearOf(time.Now().UTC()))
	if err != nil {
		return Goal{}, err
	}

	funded, err := model.FundedAmount(db, annualSavings, settings.BaseCurrency, table)
	if err != nil {
		return Goal{}, err
	}

	return Goal{
		DefaultModel: model.DefaultModel,
		GoalEditable: GoalEditable{
			Name:         model.Name,
			Note:         model.Note,
			TargetAmount: model.TargetAmount,
			Currency:     model.Currency,
			Priority:     model.Priority,
			Archived:     model.Archived,
		},
		AllocatedPercentage: allocated,
		FundedAmount:        funded,
		Completed:           model.Completed(funded),
		Links: GoalLinks{
			Self:          fmt.Sprintf("%s/v1/goals/%s", url, model.ID),
			Contributions: fmt.Sprintf("%s/v1/contributions?goal=%s", url, model.ID),
		},
	}, nil
}

type GoalListResponse struct {
	Data       []Goal      `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type GoalCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []GoalResponse `json:"data"`                                                          // List of created resources
}

func (t *GoalCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, GoalResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type GoalResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Goal   `json:"data"`                                                          // The resource
}

type GoalQueryFilter struct {
	Name     string              `form:"name" filterField:"false"`   // By name
	Note     string              `form:"note" filterField:"false"`   // By the note
	Search   string              `form:"search" filterField:"false"` // By string in name or note
	Archived bool                `form:"archived"`                   // Is the goal archived?
	Currency currency.Code       `form:"currency"`                   // The currency the target is defined in
	Priority models.GoalPriority `form:"priority"`                   // Priority of the goal
	Offset   uint                `form:"offset" filterField:"false"` // The offset of the first goal returned. Defaults to 0.
	Limit    int                 `form:"limit" filterField:"false"`  // Maximum number of goals to return. Defaults to 50.
}

func (f GoalQueryFilter) model() models.Goal {
	return models.Goal{
		Archived: f.Archived,
		Currency: f.Currency,
		Priority: f.Priority,
	}
}
