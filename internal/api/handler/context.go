package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

// ctxActor extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a token without a
// subject or a parseable role is structurally valid but operationally
// unusable, so reject with 401 rather than letting a zero Actor reach the
// policy layer.
func ctxActor(c echo.Context) (domain.Actor, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	rawRole, _ := c.Get("role").(string)
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token carries unknown role")
	}

	email, _ := c.Get("email").(string)
	username, _ := c.Get("username").(string)

	return domain.Actor{
		ID:       id,
		Email:    email,
		Username: username,
		Role:     role,
	}, nil
}
