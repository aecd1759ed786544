package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/amankumarsingh77/cloud-video-stream/pkg/utils"
)

// AuthBearerMiddleware resolves the Authorization bearer token to a user id
// and injects it into the request context before the wrapped handler runs.
func (mw *MiddlewareManager) AuthBearerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bearerHeader := c.Request().Header.Get("Authorization")
			if bearerHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
			}

			headerParts := strings.Split(bearerHeader, " ")
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "Bearer") || headerParts[1] == "" {
				mw.logger.Errorf("auth middleware: malformed bearer header, RequestID: %s", utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Bearer token is missing"})
			}

			userID, err := mw.verifier.UserID(c.Request().Context(), headerParts[1])
			if err != nil {
				mw.logger.Errorf("auth middleware: token rejected: %v, RequestID: %s", err, utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			}

			ctx := context.WithValue(c.Request().Context(), utils.UserCtxKey{}, userID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
