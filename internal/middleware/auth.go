package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/micollege/elms/internal/auth"
	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/service/serviceutils"
)

const (
	claimsKey = "elms.claims"
	userKey   = "elms.user"
)

// RequireAuth verifies the bearer token and loads the asserted user. The
// identity travels on the echo context under typed accessors; handlers never
// reach into raw header state themselves.
func RequireAuth(tokens *auth.TokenIssuer, users domain.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return serviceutils.ResponseError(c, http.StatusUnauthorized, "Not authorized, no token", nil)
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return serviceutils.ResponseError(c, http.StatusUnauthorized, "Not authorized, token failed", nil)
			}

			user, err := users.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return serviceutils.ResponseError(c, http.StatusUnauthorized, "User not found", nil)
			}
			if !user.IsActive {
				return serviceutils.ResponseError(c, http.StatusUnauthorized, "User account is deactivated", nil)
			}

			c.Set(claimsKey, claims)
			c.Set(userKey, user)
			return next(c)
		}
	}
}

// RequireRoles allows only the named roles past. Department scoping for
// heads happens at the handler where the resource department is known.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := auth.Authorize(Claims(c), roles, ""); err != nil {
				return serviceutils.TranslateError(c, err)
			}
			return next(c)
		}
	}
}

// Claims returns the verified identity attached by RequireAuth, or nil.
func Claims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

// CurrentUser returns the authenticated user attached by RequireAuth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userKey).(*domain.User)
	return user
}
