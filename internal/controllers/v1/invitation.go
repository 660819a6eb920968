package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskbalance/backend/internal/httputil"
	"github.com/taskbalance/backend/internal/middleware"
	"github.com/taskbalance/backend/internal/models"
)

// RegisterInvitationRoutes registers the routes for invitations with the
// RouterGroup that is passed.
func RegisterInvitationRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetInvitations)
		r.POST("", CreateInvitations)
	}
	{
		r.OPTIONS("/:id/accept", httputil.OptionsPost)
		r.POST("/:id/accept", AcceptInvitation)
	}
	{
		r.OPTIONS("/:id/reject", httputil.OptionsPost)
		r.POST("/:id/reject", RejectInvitation)
	}
}

// @Summary		Create invitations
// @Description	Invites users into households by email. The inviter has to be a member of the household.
// @Tags			Invitations
// @Produce		json
// @Success		201			{object}	InvitationCreateResponse
// @Failure		400			{object}	InvitationCreateResponse
// @Failure		403			{object}	InvitationCreateResponse
// @Failure		500			{object}	InvitationCreateResponse
// @Param			invitations	body		[]InvitationEditable	true	"Invitations"
// @Router			/v1/invitations [post]
func CreateInvitations(c *gin.Context) {
	var editables []InvitationEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvitationCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := InvitationCreateResponse{}

	for _, editable := range editables {
		// Only members may invite into a household
		isMember, err := models.IsMember(models.DB, editable.HouseholdID, middleware.UserID(c))
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		if !isMember {
			status = r.appendError(errNotHouseholdMember, status)
			continue
		}

		invitation := editable.model()
		err = models.DB.Create(&invitation).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newInvitation(c, invitation)
		r.Data = append(r.Data, InvitationResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get invitations
// @Description	Returns invitations addressed to the authenticated user as well as invitations for households they are a member of. Expired invitations are included, they just cannot be accepted anymore.
// @Tags			Invitations
// @Produce		json
// @Success		200	{object}	InvitationListResponse
// @Failure		500	{object}	InvitationListResponse
// @Router			/v1/invitations [get]
func GetInvitations(c *gin.Context) {
	var user models.User
	err := models.DB.First(&user, middleware.UserID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvitationListResponse{
			Error: &e,
		})
		return
	}

	var invitations []models.Invitation
	err = models.DB.
		Order("created_at DESC").
		Where(
			"email = ? OR household_id IN (?)",
			user.Email,
			models.DB.Model(&models.HouseholdMember{}).
				Select("household_id").
				Where("user_id = ? AND deleted_at IS NULL", user.ID),
		).
		Find(&invitations).
		Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvitationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Invitation, 0, len(invitations))
	for _, invitation := range invitations {
		data = append(data, newInvitation(c, invitation))
	}

	c.JSON(http.StatusOK, InvitationListResponse{Data: data})
}

// getOwnInvitation reads the invitation from the URI and verifies it is
// addressed to the authenticated user's email.
func getOwnInvitation(c *gin.Context) (models.Invitation, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Invitation{}, err
	}

	var invitation models.Invitation
	err = models.DB.First(&invitation, uri.ID).Error
	if err != nil {
		return models.Invitation{}, err
	}

	var user models.User
	err = models.DB.First(&user, middleware.UserID(c)).Error
	if err != nil {
		return models.Invitation{}, err
	}

	if invitation.Email != user.Email {
		return models.Invitation{}, errNotYourInvitation
	}

	return invitation, nil
}

// @Summary		Accept invitation
// @Description	Accepts a pending invitation, making the authenticated user a member of the household
// @Tags			Invitations
// @Produce		json
// @Success		200	{object}	InvitationResponse
// @Failure		400	{object}	InvitationResponse
// @Failure		403	{object}	InvitationResponse
// @Failure		404	{object}	InvitationResponse
// @Failure		500	{object}	InvitationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/invitations/{id}/accept [post]
func AcceptInvitation(c *gin.Context) {
	invitation, err := getOwnInvitation(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvitationResponse{
			Error: &e,
		})
		return
	}

	var user models.User
	err = models.DB.First(&user, middleware.UserID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvitationResponse{
			Error: &e,
		})
		return
	}

	err = invitation.Accept(models.DB, user, time.Now().In(time.UTC))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvitationResponse{
			Error: &e,
		})
		return
	}

	apiResource := newInvitation(c, invitation)
	c.JSON(http.StatusOK, InvitationResponse{Data: &apiResource})
}

// @Summary		Reject invitation
// @Description	Rejects a pending invitation. Rejecting an expired invitation is allowed.
// @Tags			Invitations
// @Produce		json
// @Success		200	{object}	InvitationResponse
// @Failure		400	{object}	InvitationResponse
// @Failure		403	{object}	InvitationResponse
// @Failure		404	{object}	InvitationResponse
// @Failure		500	{object}	InvitationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/invitations/{id}/reject [post]
func RejectInvitation(c *gin.Context) {
	invitation, err := getOwnInvitation(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvitationResponse{
			Error: &e,
		})
		return
	}

	err = invitation.Reject(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvitationResponse{
			Error: &e,
		})
		return
	}

	apiResource := newInvitation(c, invitation)
	c.JSON(http.StatusOK, InvitationResponse{Data: &apiResource})
}
