package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/user"
)

func adminMiddleware(svc user.Service, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if !claims.IsAdmin {
				return errHttpForbidden
			}
			if len(roles) == 0 {
				return next(ctx)
			}

			// roles may have changed since the token was issued
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			for _, role := range roles {
				if usr.HasRole(role) {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func superAdminMiddleware(svc user.Service) echo.MiddlewareFunc {
	return adminMiddleware(svc, user.RoleSuperAdmin)
}
