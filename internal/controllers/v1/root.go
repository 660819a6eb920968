package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskbalance/backend/internal/httputil"
	"github.com/taskbalance/backend/internal/models"
)

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Auth          string `json:"auth" example:"https://example.com/api/v1/auth"`                    // URL of the authentication endpoints
	Transactions  string `json:"transactions" example:"https://example.com/api/v1/transactions"`    // URL of the transaction list endpoint
	Goals         string `json:"goals" example:"https://example.com/api/v1/goals"`                  // URL of the goal list endpoint
	Contributions string `json:"contributions" example:"https://example.com/api/v1/contributions"`  // URL of the goal contribution list endpoint
	Households    string `json:"households" example:"https://example.com/api/v1/households"`        // URL of the household list endpoint
	Invitations   string `json:"invitations" example:"https://example.com/api/v1/invitations"`      // URL of the invitation list endpoint
	CategoryRules string `json:"categoryRules" example:"https://example.com/api/v1/category-rules"` // URL of the category rule list endpoint
	Rates         string `json:"rates" example:"https://example.com/api/v1/rates"`                  // URL of the exchange rate endpoints
	Export        string `json:"export" example:"https://example.com/api/v1/export"`                // URL of the export endpoint
	User          string `json:"user" example:"https://example.com/api/v1/user"`                    // URL of the user endpoints
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Auth:          url + "/v1/auth",
			Transactions:  url + "/v1/transactions",
			Goals:         url + "/v1/goals",
			Contributions: url + "/v1/contributions",
			Households:    url + "/v1/households",
			Invitations:   url + "/v1/invitations",
			CategoryRules: url + "/v1/category-rules",
			Rates:         url + "/v1/rates",
			Export:        url + "/v1/export",
			User:          url + "/v1/user",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
