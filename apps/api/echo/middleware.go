package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/school"
)

// roleMiddleware lets through users whose token carries one of roles.
func (s *server) roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := s.getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func (s *server) staffMiddleware() echo.MiddlewareFunc {
	return s.roleMiddleware(school.RoleAdmin, school.RoleStaff)
}

func (s *server) adminMiddleware() echo.MiddlewareFunc {
	return s.roleMiddleware(school.RoleAdmin)
}
