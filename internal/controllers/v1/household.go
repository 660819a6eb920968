package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskbalance/backend/internal/httputil"
	"github.com/taskbalance/backend/internal/middleware"
	"github.com/taskbalance/backend/internal/models"
	"github.com/taskbalance/backend/internal/types"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterHouseholdRoutes registers the routes for households with the
// RouterGroup that is passed.
func RegisterHouseholdRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsHouseholds)
		r.GET("", GetHouseholds)
		r.POST("", CreateHouseholds)
	}
	{
		r.OPTIONS("/:id", OptionsHouseholdDetail)
		r.GET("/:id", GetHousehold)
		r.PATCH("/:id", UpdateHousehold)
		r.DELETE("/:id", DeleteHousehold)
	}
	{
		r.OPTIONS("/:id/summary", httputil.OptionsGet)
		r.GET("/:id/summary", GetHouseholdSummary)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Households
// @Success		204
// @Router			/v1/households [options]
func OptionsHouseholds(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Households
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/households/{id} [options]
func OptionsHouseholdDetail(c *gin.Context) {
	_, err := getMemberHousehold(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// getMemberHousehold reads the household from the URI and verifies the
// authenticated user is a member.
func getMemberHousehold(c *gin.Context) (models.Household, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Household{}, err
	}

	var household models.Household
	err = models.DB.First(&household, uri.ID).Error
	if err != nil {
		return models.Household{}, err
	}

	isMember, err := models.IsMember(models.DB, household.ID, middleware.UserID(c))
	if err != nil {
		return models.Household{}, err
	}
	if !isMember {
		return models.Household{}, errNotHouseholdMember
	}

	return household, nil
}

// @Summary		Create households
// @Description	Creates new households. The authenticated user becomes the owner.
// @Tags			Households
// @Produce		json
// @Success		201			{object}	HouseholdCreateResponse
// @Failure		400			{object}	HouseholdCreateResponse
// @Failure		500			{object}	HouseholdCreateResponse
// @Param			households	body		[]HouseholdEditable	true	"Households"
// @Router			/v1/households [post]
func CreateHouseholds(c *gin.Context) {
	var editables []HouseholdEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := HouseholdCreateResponse{}

	for _, editable := range editables {
		household := editable.model()

		err := models.DB.Transaction(func(tx *gorm.DB) error {
			err := tx.Create(&household).Error
			if err != nil {
				return err
			}

			return tx.Create(&models.HouseholdMember{
				HouseholdID: household.ID,
				UserID:      middleware.UserID(c),
				Role:        models.RoleOwner,
			}).Error
		})
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		// Transform for the API and append
		apiResource, err := newHousehold(c, models.DB, household)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, HouseholdResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get households
// @Description	Returns the households the authenticated user is a member of
// @Tags			Households
// @Produce		json
// @Success		200	{object}	HouseholdListResponse
// @Failure		400	{object}	HouseholdListResponse
// @Failure		500	{object}	HouseholdListResponse
// @Router			/v1/households [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first household returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of households to return. Defaults to 50."
func GetHouseholds(c *gin.Context) {
	var filter HouseholdQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, HouseholdListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("households.name ASC").
		Joins("JOIN household_members ON household_members.household_id = households.id AND household_members.deleted_at IS NULL").
		Where("household_members.user_id = ?", middleware.UserID(c))

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 households and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var households []models.Household
	err := q.Find(&households).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseholdListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdListResponse{
			Error: &e,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Household, 0, len(households))
	for _, household := range households {
		apiResource, err := newHousehold(c, models.DB, household)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), HouseholdListResponse{
				Error: &e,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, HouseholdListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get household
// @Description	Returns a specific household with its members
// @Tags			Households
// @Produce		json
// @Success		200	{object}	HouseholdResponse
// @Failure		400	{object}	HouseholdResponse
// @Failure		403	{object}	HouseholdResponse
// @Failure		404	{object}	HouseholdResponse
// @Failure		500	{object}	HouseholdResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/households/{id} [get]
func GetHousehold(c *gin.Context) {
	household, err := getMemberHousehold(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdResponse{
			Error: &e,
		})
		return
	}

	apiResource, err := newHousehold(c, models.DB, household)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdResponse{
			Error: &e,
		})
		return
	}
	c.JSON(http.StatusOK, HouseholdResponse{Data: &apiResource})
}

// @Summary		Get household summary
// @Description	Returns the shared ledger summary for a month: per-member income, expenses and percentage shares, plus household savings.
// @Tags			Households
// @Produce		json
// @Success		200		{object}	HouseholdSummaryResponse
// @Failure		400		{object}	HouseholdSummaryResponse
// @Failure		403		{object}	HouseholdSummaryResponse
// @Failure		404		{object}	HouseholdSummaryResponse
// @Failure		500		{object}	HouseholdSummaryResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	query		string	true	"The month in YYYY-MM format"
// @Router			/v1/households/{id}/summary [get]
func GetHouseholdSummary(c *gin.Context) {
	household, err := getMemberHousehold(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdSummaryResponse{
			Error: &e,
		})
		return
	}

	var query QueryMonth
	if err := c.Bind(&query); err != nil || query.Month == "" {
		e := errMonthNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, HouseholdSummaryResponse{
			Error: &e,
		})
		return
	}

	month, err := types.ParseMonth(query.Month)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, HouseholdSummaryResponse{
			Error: &e,
		})
		return
	}

	summary, err := household.Summary(models.DB, month)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdSummaryResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, HouseholdSummaryResponse{Data: &summary})
}

// @Summary		Update household
// @Description	Updates an existing household. Only the owner can do this.
// @Tags			Households
// @Accept			json
// @Produce		json
// @Success		200			{object}	HouseholdResponse
// @Failure		400			{object}	HouseholdResponse
// @Failure		403			{object}	HouseholdResponse
// @Failure		404			{object}	HouseholdResponse
// @Failure		500			{object}	HouseholdResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			household	body		HouseholdEditable	true	"Household"
// @Router			/v1/households/{id} [patch]
func UpdateHousehold(c *gin.Context) {
	household, err := getOwnedHousehold(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, HouseholdEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdResponse{
			Error: &e,
		})
		return
	}

	// Bind the data for the patch
	var data HouseholdEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&household).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdResponse{
			Error: &e,
		})
		return
	}

	apiResource, err := newHousehold(c, models.DB, household)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseholdResponse{
			Error: &e,
		})
		return
	}
	c.JSON(http.StatusOK, HouseholdResponse{Data: &apiResource})
}

// getOwnedHousehold is getMemberHousehold plus an owner role check.
func getOwnedHousehold(c *gin.Context) (models.Household, error) {
	household, err := getMemberHousehold(c)
	if err != nil {
		return models.Household{}, err
	}

	var member models.HouseholdMember
	err = models.DB.
		Where(&models.HouseholdMember{
			HouseholdID: household.ID,
			UserID:      middleware.UserID(c),
			Role:        models.RoleOwner,
		}).
		First(&member).
		Error
	if err != nil {
		return models.Household{}, errNotHouseholdMember
	}

	return household, nil
}

// @Summary		Delete household
// @Description	Deletes a household. Only the owner can do this. Shared transactions become personal again.
// @Tags			Households
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/households/{id} [delete]
func DeleteHousehold(c *gin.Context) {
	household, err := getOwnedHousehold(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		// Shared transactions fall back to the members' personal
		// ledgers. Hooks are skipped, the zero-value model would not
		// validate
		err := tx.Session(&gorm.Session{SkipHooks: true}).
			Model(&models.Transaction{}).
			Where("household_id = ?", household.ID).
			Updates(map[string]any{"shared": false, "household_id": nil}).
			Error
		if err != nil {
			return err
		}

		err = tx.Where("household_id = ?", household.ID).Delete(&models.HouseholdMember{}).Error
		if err != nil {
			return err
		}

		err = tx.Where("household_id = ?", household.ID).Delete(&models.Invitation{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&household).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
