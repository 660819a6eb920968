package v1_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	v1 "github.com/taskbalance/backend/internal/controllers/v1"
	"github.com/taskbalance/backend/test"
)

func (suite *TestSuiteStandard) TestRegister() {
	t := suite.T()

	r := test.Request(t, http.MethodPost, "http://example.com/v1/auth/register", v1.RegisterRequest{
		Name:     "Carla",
		Email:    "Carla@Example.com",
		Password: "a long enough password",
	})
	test.AssertHTTPStatus(t, &r, http.StatusCreated)

	var response v1.LoginResponse
	test.DecodeResponse(t, &r, &response)

	assert.NotEmpty(t, response.Data.Token)
	assert.Equal(t, "carla@example.com", response.Data.User.Email, "Email must be normalized to lower case")
	assert.Empty(t, response.Data.User.PasswordHash, "The password hash must never leave the backend")
}

func (suite *TestSuiteStandard) TestRegisterInvalid() {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Password too short", v1.RegisterRequest{Email: "short@example.com", Password: "2short"}, http.StatusBadRequest},
		{"Email missing", v1.RegisterRequest{Password: "a long enough password"}, http.StatusBadRequest},
		{"Email already in use", v1.RegisterRequest{Email: "suite@example.com", Password: "a long enough password"}, http.StatusBadRequest},
		{"Broken body", `{ "email": "broken@example.com", `, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/auth/register", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestLogin() {
	t := suite.T()

	r := test.Request(t, http.MethodPost, "http://example.com/v1/auth/login", v1.LoginRequest{
		Email:    "suite@example.com",
		Password: "correct horse battery staple",
	})
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.LoginResponse
	test.DecodeResponse(t, &r, &response)
	assert.NotEmpty(t, response.Data.Token)
}

// TestLoginInvalid verifies that a wrong email and a wrong password
// produce the same response.
func (suite *TestSuiteStandard) TestLoginInvalid() {
	tests := []struct {
		name  string
		login v1.LoginRequest
	}{
		{"Wrong password", v1.LoginRequest{Email: "suite@example.com", Password: "not the password"}},
		{"Unknown email", v1.LoginRequest{Email: "nobody@example.com", Password: "correct horse battery staple"}},
	}

	var bodies []string
	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/auth/login", tt.login)
			test.AssertHTTPStatus(t, &r, http.StatusUnauthorized)
			bodies = append(bodies, r.Body.String())
		})
	}

	suite.Assert().Equal(bodies[0], bodies[1], "Error responses must not allow guessing which part of the credentials was wrong")
}

// TestAuthRequired verifies that the resource endpoints reject requests
// without a valid token.
func (suite *TestSuiteStandard) TestAuthRequired() {
	paths := []string{
		"/v1/user",
		"/v1/transactions",
		"/v1/goals",
		"/v1/contributions",
		"/v1/households",
		"/v1/invitations",
		"/v1/category-rules",
		"/v1/rates",
		"/v1/export",
	}

	for _, path := range paths {
		suite.T().Run(path, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com"+path, "")
			test.AssertHTTPStatus(t, &r, http.StatusUnauthorized)

			r = test.Request(t, http.MethodGet, "http://example.com"+path, "", map[string]string{"Authorization": "Bearer garbage"})
			test.AssertHTTPStatus(t, &r, http.StatusUnauthorized)
		})
	}
}
