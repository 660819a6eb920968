package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskbalance/backend/internal/httputil"
	"github.com/taskbalance/backend/internal/middleware"
	"github.com/taskbalance/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterContributionRoutes registers the routes for goal
// contributions with the RouterGroup that is passed.
func RegisterContributionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsContributions)
		r.GET("", GetContributions)
		r.POST("", CreateContributions)
	}
	{
		r.OPTIONS("/:id", OptionsContributionDetail)
		r.GET("/:id", GetContribution)
		r.PATCH("/:id", UpdateContribution)
		r.DELETE("/:id", DeleteContribution)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Contributions
// @Success		204
// @Router			/v1/contributions [options]
func OptionsContributions(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Contributions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/contributions/{id} [options]
func OptionsContributionDetail(c *gin.Context) {
	_, err := getOwnContribution(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// getOwnContribution reads the contribution from the URI and verifies
// its goal belongs to the authenticated user.
func getOwnContribution(c *gin.Context) (models.GoalContribution, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.GoalContribution{}, err
	}

	var contribution models.GoalContribution
	err = models.DB.
		Joins("JOIN goals ON goals.id = goal_contributions.goal_id AND goals.deleted_at IS NULL").
		Where("goals.user_id = ?", middleware.UserID(c)).
		First(&contribution, uri.ID).
		Error
	if err != nil {
		return models.GoalContribution{}, err
	}

	return contribution, nil
}

// @Summary		Create contributions
// @Description	Allocates percentages of the annual savings to goals. The percentages for a goal can never exceed 100 in total.
// @Tags			Contributions
// @Produce		json
// @Success		201				{object}	ContributionCreateResponse
// @Failure		400				{object}	ContributionCreateResponse
// @Failure		404				{object}	ContributionCreateResponse
// @Failure		500				{object}	ContributionCreateResponse
// @Param			contributions	body		[]ContributionEditable	true	"Contributions"
// @Router			/v1/contributions [post]
func CreateContributions(c *gin.Context) {
	var editables []ContributionEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ContributionCreateResponse{}

	for _, editable := range editables {
		// The goal has to belong to the authenticated user
		var goal models.Goal
		err := models.DB.
			Where("user_id = ?", middleware.UserID(c)).
			First(&goal, editable.GoalID).
			Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		contribution := editable.model()
		err = models.DB.Create(&contribution).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		// Transform for the API and append
		apiResource := newContribution(c, contribution)
		r.Data = append(r.Data, ContributionResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get contributions
// @Description	Returns the contributions for the authenticated user's goals
// @Tags			Contributions
// @Produce		json
// @Success		200	{object}	ContributionListResponse
// @Failure		400	{object}	ContributionListResponse
// @Failure		500	{object}	ContributionListResponse
// @Router			/v1/contributions [get]
// @Param			goal		query	string	false	"Filter by goal ID"
// @Param			note		query	string	false	"Note contains this string"
// @Param			fromDate	query	string	false	"Contributions at or after this date"
// @Param			untilDate	query	string	false	"Contributions before or at this date"
// @Param			offset		query	uint	false	"The offset of the first contribution returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of contributions to return. Defaults to 50."
func GetContributions(c *gin.Context) {
	var filter ContributionQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ContributionListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()

	q := models.DB.
		Order("date(goal_contributions.date) DESC, goal_contributions.created_at DESC").
		Joins("JOIN goals ON goals.id = goal_contributions.goal_id AND goals.deleted_at IS NULL").
		Where("goals.user_id = ?", middleware.UserID(c)).
		Where(&where, queryFields...)

	q = stringFilters(models.DB, q, setFields, "", filter.Note, "")

	if !filter.FromDate.IsZero() {
		q = q.Where("goal_contributions.date >= date(?)", filter.FromDate)
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("goal_contributions.date < date(?)", filter.UntilDate.AddDate(0, 0, 1))
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 contributions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var contributions []models.GoalContribution
	err := q.Find(&contributions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ContributionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionListResponse{
			Error: &e,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Contribution, 0, len(contributions))
	for _, contribution := range contributions {
		data = append(data, newContribution(c, contribution))
	}

	c.JSON(http.StatusOK, ContributionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get contribution
// @Description	Returns a specific contribution
// @Tags			Contributions
// @Produce		json
// @Success		200	{object}	ContributionResponse
// @Failure		400	{object}	ContributionResponse
// @Failure		404	{object}	ContributionResponse
// @Failure		500	{object}	ContributionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/contributions/{id} [get]
func GetContribution(c *gin.Context) {
	contribution, err := getOwnContribution(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionResponse{
			Error: &e,
		})
		return
	}

	apiResource := newContribution(c, contribution)
	c.JSON(http.StatusOK, ContributionResponse{Data: &apiResource})
}

// @Summary		Update contribution
// @Description	Updates an existing contribution. Only values to be updated need to be specified. The allocation cap is enforced for percentage changes.
// @Tags			Contributions
// @Accept			json
// @Produce		json
// @Success		200				{object}	ContributionResponse
// @Failure		400				{object}	ContributionResponse
// @Failure		404				{object}	ContributionResponse
// @Failure		500				{object}	ContributionResponse
// @Param			id				path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			contribution	body		ContributionEditable	true	"Contribution"
// @Router			/v1/contributions/{id} [patch]
func UpdateContribution(c *gin.Context) {
	contribution, err := getOwnContribution(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, ContributionEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionResponse{
			Error: &e,
		})
		return
	}

	// Bind the data for the patch
	var data ContributionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionResponse{
			Error: &e,
		})
		return
	}

	// Moving a contribution to another goal would slip past the
	// allocation cap
	updateFields = slices.DeleteFunc(updateFields, func(field any) bool { return field == any("GoalID") })

	err = models.DB.Model(&contribution).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionResponse{
			Error: &e,
		})
		return
	}

	apiResource := newContribution(c, contribution)
	c.JSON(http.StatusOK, ContributionResponse{Data: &apiResource})
}

// @Summary		Delete contribution
// @Description	Deletes a contribution. The percentage becomes available for other goals again.
// @Tags			Contributions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/contributions/{id} [delete]
func DeleteContribution(c *gin.Context) {
	contribution, err := getOwnContribution(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&contribution).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
