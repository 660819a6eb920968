package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskbalance/backend/internal/httputil"
	"github.com/taskbalance/backend/internal/middleware"
	"github.com/taskbalance/backend/internal/models"
)

func RegisterUserRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsUser)
	r.GET("", GetUser)
	r.DELETE("", DeleteUser)
}

type UserResponse struct {
	Error *string      `json:"error" example:"there is no user matching your query"` // The error, if any occurred
	Data  *models.User `json:"data"`                                                 // The user
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			User
// @Success		204
// @Router			/v1/user [options]
func OptionsUser(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}

// @Summary		Get the authenticated user
// @Description	Returns the user the token was issued for
// @Tags			User
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		404	{object}	UserResponse
// @Failure		500	{object}	UserResponse
// @Router			/v1/user [get]
func GetUser(c *gin.Context) {
	var user models.User
	err := models.DB.First(&user, middleware.UserID(c)).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: &user})
}

// @Summary		Delete the authenticated user
// @Description	Permanently deletes the user and all their data
// @Tags			User
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			confirm	query		string	false	"Confirmation. Must have the value 'yes-please-delete-my-data'"
// @Router			/v1/user [delete]
func DeleteUser(c *gin.Context) {
	var params struct {
		Confirm string `form:"confirm"`
	}

	err := c.Bind(&params)
	if err != nil || params.Confirm != "yes-please-delete-my-data" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errCleanupConfirmation.Error(),
		})
		return
	}

	err = models.DeleteUserData(models.DB, middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
