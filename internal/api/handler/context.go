package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both the role and the
// numeric user ID must be present, otherwise the token is structurally valid
// but operationally unusable.
func ctxActor(c echo.Context) (actorID int64, role string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	actorID, _ = c.Get("user_id").(int64)
	if actorID == 0 {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}

	return actorID, role, nil
}
