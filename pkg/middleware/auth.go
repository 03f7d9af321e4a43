package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/pSite/pkg/errors"
)

// TokenValidator resolves a bearer token to the subject it was issued for.
type TokenValidator interface {
	Validate(token string) (string, error)
}

type subjectKey struct{}

// SubjectFromContext returns the authenticated subject stored by RequireBearer.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	return s, ok
}

// RejectFunc writes the response for a request that failed authentication.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err *errors.StatusError)

// RequireBearer only lets requests with a valid "Authorization: Bearer
// <token>" header reach next. Anything else gets a 401 from reject and next
// is never called. The token's subject is added to the request context.
func RequireBearer(v TokenValidator, reject RejectFunc) func(http.Handler) http.Handler {
	if reject == nil {
		reject = WriteUnauthorized
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, authErr := bearerToken(r.Header.Get("Authorization"))
			if authErr != nil {
				reject(w, r, authErr)
				return
			}

			subject, err := v.Validate(token)
			if err != nil {
				se := errors.StatusOf(err)
				if se == nil || se.Code != http.StatusUnauthorized {
					se = errors.ErrInvalidToken
				}
				reject(w, r, se)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey{}, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, *errors.StatusError) {
	if header == "" {
		return "", errors.ErrUnauthorized.WithReason("authorization header required")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" || strings.ContainsAny(token, " \t") {
		return "", errors.ErrUnauthorized.WithReason("invalid authorization header")
	}
	return token, nil
}

// WriteUnauthorized renders err in the same shape as ErrorMiddleware.
func WriteUnauthorized(w http.ResponseWriter, _ *http.Request, err *errors.StatusError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("WWW-Authenticate", `Bearer realm="site"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = jsonEncode(w, errorBody(err))
}

func jsonEncode(w http.ResponseWriter, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

// JWTAuth is the gin form of RequireBearer; rejected requests abort the chain.
func JWTAuth(v TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	reject := func(w http.ResponseWriter, r *http.Request, err *errors.StatusError) {
		logger.Info("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"reason", err.Message,
		)
		WriteUnauthorized(w, r, err)
	}

	return Adapt(RequireBearer(v, reject))
}

// UserID returns the subject authenticated by JWTAuth, or "".
func UserID(c *gin.Context) string {
	s, _ := SubjectFromContext(c.Request.Context())
	return s
}
