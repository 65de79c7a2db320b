package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"campusquery/internal/apperror"
	"campusquery/internal/auth"
)

// JWTMiddleware resolves the bearer token to identity claims or rejects the
// request with 401. Handlers read the claims from c.Get("user").
func JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized,
				apperror.ErrorResponse{Error: "Missing token", Code: apperror.CodeUnauthenticated})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := auth.ValidateJWT(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized,
				apperror.ErrorResponse{Error: "Invalid token", Code: apperror.CodeUnauthenticated})
		}

		c.Set("user", claims)
		return next(c)
	}
}
