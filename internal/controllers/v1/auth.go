package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskbalance/backend/internal/httputil"
	"github.com/taskbalance/backend/internal/middleware"
	"github.com/taskbalance/backend/internal/models"
)

func RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", Register)

	r.OPTIONS("/login", httputil.OptionsPost)
	r.POST("/login", Login)
}

type RegisterRequest struct {
	Name     string `json:"name" example:"Ana"`                            // Display name of the user
	Email    string `json:"email" example:"ana@example.com"`               // Email address, used for login
	Password string `json:"password" example:"correct horse battery st."` // Password, at least 8 characters
}

type LoginRequest struct {
	Email    string `json:"email" example:"ana@example.com"`               // Email address
	Password string `json:"password" example:"correct horse battery st."` // Password
}

type LoginData struct {
	Token string      `json:"token"` // Bearer token for the Authorization header
	User  models.User `json:"user"`  // The authenticated user
}

type LoginResponse struct {
	Error *string    `json:"error" example:"the email address or the password is incorrect"` // The error, if any occurred
	Data  *LoginData `json:"data"`                                                           // The token and user
}

// @Summary		Register
// @Description	Creates a new user account and returns a token for it
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201			{object}	LoginResponse
// @Failure		400			{object}	LoginResponse
// @Failure		500			{object}	LoginResponse
// @Param			credentials	body		RegisterRequest	true	"Account data"
// @Router			/v1/auth/register [post]
func Register(c *gin.Context) {
	var request RegisterRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LoginResponse{Error: &e})
		return
	}

	user := models.User{
		Name:  request.Name,
		Email: request.Email,
	}

	err = user.SetPassword(request.Password)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LoginResponse{Error: &e})
		return
	}

	err = models.DB.Create(&user).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LoginResponse{Error: &e})
		return
	}

	token, err := middleware.GenerateToken(user, time.Now().UTC())
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusInternalServerError, LoginResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{Data: &LoginData{Token: token, User: user}})
}

// @Summary		Login
// @Description	Returns a token for the user with these credentials
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200			{object}	LoginResponse
// @Failure		400			{object}	LoginResponse
// @Failure		401			{object}	LoginResponse
// @Param			credentials	body		LoginRequest	true	"Credentials"
// @Router			/v1/auth/login [post]
func Login(c *gin.Context) {
	var request LoginRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LoginResponse{Error: &e})
		return
	}

	user, err := models.UserByCredentials(models.DB, request.Email, request.Password)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LoginResponse{Error: &e})
		return
	}

	token, err := middleware.GenerateToken(user, time.Now().UTC())
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusInternalServerError, LoginResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Data: &LoginData{Token: token, User: user}})
}
