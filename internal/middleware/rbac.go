package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
)

// OwnerResolver maps a route resource id to the id of the student owning it.
type OwnerResolver func(ctx context.Context, id string) (string, error)

// RequireRoles only lets the listed roles through.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// StudentScope admits admins, and students whose linked student id equals the
// route parameter.
func StudentScope(param string) gin.HandlerFunc {
	return OwnerScope(param, nil)
}

// OwnerScope admits admins, and students owning the resource named by the route
// parameter. A nil resolver treats the parameter itself as the student id.
func OwnerScope(param string, resolve OwnerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if claims.Role == models.RoleAdmin {
			c.Next()
			return
		}
		if claims.Role != models.RoleStudent || claims.StudentID == "" {
			response.Error(c, appErrors.ErrForbidden)
			return
		}

		owner := c.Param(param)
		if resolve != nil {
			resolved, err := resolve(c.Request.Context(), owner)
			if err != nil {
				response.Error(c, err)
				return
			}
			owner = resolved
		}
		if owner == "" || owner != claims.StudentID {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}
