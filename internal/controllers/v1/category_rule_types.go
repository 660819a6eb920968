package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/taskbalance/backend/internal/models"
)

type CategoryRuleEditable struct {
	Priority uint   `json:"priority" example:"1" default:"0"`        // Rules are checked in ascending priority order
	Match    string `json:"match" example:"*supermarket*"`           // Glob pattern matched against the transaction note
	Category string `json:"category" example:"Groceries" default:""` // Category to set when the pattern matches
}

// model returns the database resource for the API representation of the editable fields
func (editable CategoryRuleEditable) model() models.CategoryRule {
	return models.CategoryRule{
		Priority: editable.Priority,
		Match:    editable.Match,
		Category: editable.Category,
	}
}

type CategoryRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/category-rules/d1b4ad3c-a9fc-4e33-82cf-0ceda9345d6d"` // The rule itself
}

// CategoryRule is the representation of a CategoryRule in API v1.
type CategoryRule struct {
	models.DefaultModel
	CategoryRuleEditable
	Links CategoryRuleLinks `json:"links"`
}

// newCategoryRule returns the API v1 representation of the resource
func newCategoryRule(c *gin.Context, model models.CategoryRule) CategoryRule {
	url := c.GetString(string(models.DBContextURL))

	return CategoryRule{
		DefaultModel: model.DefaultModel,
		CategoryRuleEditable: CategoryRuleEditable{
			Priority: model.Priority,
			Match:    model.Match,
			Category: model.Category,
		},
		Links: CategoryRuleLinks{
			Self: fmt.Sprintf("%s/v1/category-rules/%s", url, model.ID),
		},
	}
}

type CategoryRuleListResponse struct {
	Data  []CategoryRule `json:"data"`                                                          // List of resources
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryRuleCreateResponse struct {
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []CategoryRuleResponse `json:"data"`                                                          // List of created resources
}

func (t *CategoryRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, CategoryRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryRuleResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *CategoryRule `json:"data"`                                                          // The resource
}
