package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call when the claims are absent (which means
// the middleware did not run on this route).
func ctxIdentity(c echo.Context) (username string, roles []string, err error) {
	username, _ = c.Get("username").(string)
	if username == "" {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	roles, _ = c.Get("roles").([]string)
	return username, roles, nil
}
