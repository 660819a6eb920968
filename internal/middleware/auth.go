// Package middleware contains the request middleware for the API:
// token authentication and rate limiting.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskbalance/backend/internal/models"
)

const tokenValidity = 7 * 24 * time.Hour

// userKey is the context key the authenticated user ID is stored
// under.
const userKey = "userID"

var (
	ErrNoToken      = errors.New("you need to provide a bearer token in the Authorization header")
	ErrTokenInvalid = errors.New("the token is invalid or expired")
)

// jwtKey returns the signing key. JWT_SECRET has to be set, there is no
// insecure default.
func jwtKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// Claims are the JWT claims for an API token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the user.
func GenerateToken(user models.User, now time.Time) (string, error) {
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenValidity)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "taskbalance-api",
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey())
}

// parseToken validates a token string and returns the user ID it was
// issued for.
func parseToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey(), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}

	return id, nil
}

// Auth verifies the bearer token and stores the user ID in the
// context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrNoToken.Error()})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrNoToken.Error()})
			return
		}

		id, err := parseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrTokenInvalid.Error()})
			return
		}

		c.Set(userKey, id)
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the context. It is
// uuid.Nil when the request did not pass the Auth middleware.
func UserID(c *gin.Context) uuid.UUID {
	id, ok := c.Get(userKey)
	if !ok {
		return uuid.Nil
	}

	return id.(uuid.UUID)
}
