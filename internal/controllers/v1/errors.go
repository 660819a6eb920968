package v1

import (
	"errors"
	"net/http"

	"github.com/taskbalance/backend/internal/middleware"
	"github.com/taskbalance/backend/internal/models"
	"github.com/taskbalance/backend/internal/rates"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrCredentialsInvalid) ||
		errors.Is(err, middleware.ErrNoToken) ||
		errors.Is(err, middleware.ErrTokenInvalid) {
		return http.StatusUnauthorized
	}

	if errors.Is(err, errNotHouseholdMember) || errors.Is(err, errNotYourInvitation) {
		return http.StatusForbidden
	}

	if errors.Is(err, rates.ErrProviderUnavailable) {
		return http.StatusBadGateway
	}

	return http.StatusBadRequest
}

var (
	errNotHouseholdMember = errors.New("you are not a member of this household")
	errNotYourInvitation  = errors.New("this invitation was not issued for your email address")
	errMonthNotSetInQuery = errors.New("the month query parameter must be set")
)

// Cleanup errors
var (
	errCleanupConfirmation = errors.New("the confirmation for the account deletion was incorrect")
)
