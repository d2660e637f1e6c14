package echomw

import (
	"github.com/labstack/echo/v4"
	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/middleware"
)

// DecodeJSON streams the request body through schema s, stores the decoded T
// in the request context on success, or responds with the mapped status and
// Issues payload.
func DecodeJSON[T any](s streamskema.Schema[T], opt streamskema.DecodeOpt) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.DecodeRequest(c.Request(), s, opt)
			if err != nil {
				return c.JSON(middleware.ErrorStatus(err), middleware.ErrorPayload(err))
			}
			ctx := middleware.ContextWithDecoded(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetDecoded fetches the decoded T from echo.Context.
func GetDecoded[T any](c echo.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request().Context())
}
