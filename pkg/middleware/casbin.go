package middleware

import (
	"net/http"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/labstack/echo/v4"

	"campusquery/internal/apperror"
	"campusquery/internal/auth"
)

var (
	enforcer     *casbin.Enforcer
	enforcerOnce sync.Once
	enforcerErr  error
)

const rbacModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && r.act == p.act`

// rbacPolicy holds the whole role table: privileged content writes are
// Admin-only; everything else is decided at the route level.
var rbacPolicy = [][]string{
	{"Admin", "/notices", "POST"},
	{"Admin", "/events", "POST"},
}

// InitCasbinEnforcer initializes the Casbin enforcer singleton with the model
// and policy defined in code.
func InitCasbinEnforcer() (*casbin.Enforcer, error) {
	enforcerOnce.Do(func() {
		m, err := model.NewModelFromString(rbacModel)
		if err != nil {
			enforcerErr = err
			return
		}
		enforcer, enforcerErr = casbin.NewEnforcer(m)
		if enforcerErr != nil {
			return
		}
		for _, p := range rbacPolicy {
			if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
				enforcerErr = err
				return
			}
		}
	})
	return enforcer, enforcerErr
}

// CasbinMiddleware enforces RBAC for the route it wraps. The denial shape is
// identical whether the role is wrong or the identity is unknown.
func CasbinMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		forbidden := apperror.ErrorResponse{Error: "Forbidden", Code: apperror.CodeForbidden}

		claims, ok := c.Get("user").(*auth.JWTClaims)
		if !ok || claims == nil {
			return c.JSON(http.StatusForbidden, forbidden)
		}

		enf, err := InitCasbinEnforcer()
		if err != nil {
			return apperror.Respond(c, apperror.Internal(err))
		}

		allowed, err := enf.Enforce(claims.Role, c.Path(), c.Request().Method)
		if err != nil {
			return apperror.Respond(c, apperror.Internal(err))
		}
		if !allowed {
			return c.JSON(http.StatusForbidden, forbidden)
		}
		return next(c)
	}
}
