package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Adapt runs a net/http style interceptor inside gin. When the interceptor
// does not call next, the gin chain is aborted so no later handler runs.
func Adapt(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})

		mw(next).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}
