package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"brandvault/internal/db"
	"brandvault/internal/models"
	"brandvault/internal/utils/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

var log = logger.New("auth_middleware")

type AuthMiddleware struct {
	jwtSecret string
}

type Claims struct {
	UserID            string `json:"user_id"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	Regional          string `json:"regional,omitempty"`
	OriginScope       string `json:"origin_scope,omitempty"`
	ViewerAccessToAll bool   `json:"viewer_access_to_all,omitempty"`
	jwt.RegisteredClaims
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			return m.validateJWT(c, tokenParts[1], next)
		}
	}
}

func (m *AuthMiddleware) validateJWT(c echo.Context, tokenString string, next echo.HandlerFunc) error {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		log.Error("Error parsing JWT token", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
	}

	// Verify the session is still alive
	session := &models.AuthSession{}
	if err := db.DB.Where("user_id = ? AND token = ?", claims.UserID, tokenString).First(session).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Session not found")
	}

	// Verify user exists and re-read the scope fields from the row: a role or
	// regional change must take effect before the token expires.
	user := &models.User{}
	if err := db.DB.Where("id = ? AND is_deleted = ?", claims.UserID, false).First(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	c.Set("userID", user.ID)
	c.Set("email", user.Email)
	c.Set("role", string(user.Role))
	c.Set("regional", user.Regional)
	c.Set("originScope", string(user.MaterialOriginScope))
	c.Set("viewerAccessToAll", user.ViewerAccessToAll)
	c.Set("currentUser", user)

	return next(c)
}

// GetUserID Helper functions to get values from context
func GetUserID(c echo.Context) string {
	if id, ok := c.Get("userID").(string); ok {
		return id
	}
	return ""
}

func GetUserRole(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok {
		return role
	}
	return ""
}

// CurrentUser returns the authenticated user row loaded by the middleware.
func CurrentUser(c echo.Context) *models.User {
	if user, ok := c.Get("currentUser").(*models.User); ok {
		return user
	}
	return nil
}
