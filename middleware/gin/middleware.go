package ginmw

import (
	"github.com/gin-gonic/gin"
	streamskema "github.com/reoring/streamskema"
	"github.com/reoring/streamskema/middleware"
)

// DecodeJSON streams the request body through schema s with opt (or
// DefaultDecodeOpt when zero value), stores the decoded T in the request
// context, and on failure aborts with the mapped status and Issues payload.
func DecodeJSON[T any](s streamskema.Schema[T], opt streamskema.DecodeOpt) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := middleware.DecodeRequest(c.Request, s, opt)
		if err != nil {
			c.AbortWithStatusJSON(middleware.ErrorStatus(err), middleware.ErrorPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), v))
		c.Next()
	}
}

// GetDecoded fetches the decoded T from gin.Context.
func GetDecoded[T any](c *gin.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}
