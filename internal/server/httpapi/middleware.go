package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/metrics"
)

// TokenVerifier validates a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid token and stores the caller's
// identity in the request context.
//
// The header may be "Bearer <token>" or the bare token: with exactly two
// whitespace-separated parts the second is used, otherwise the first.
func RequireAuth(tokens TokenVerifier, m *metrics.Metrics, logger logging.Logger) gin.HandlerFunc {
	logger = logger.With("module", "auth_guard")

	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			m.RecordGuard(metrics.GuardMissingToken)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: msgNoToken})
			return
		}

		claims, err := tokens.Verify(tokenFromHeader(header))
		if err != nil {
			m.RecordGuard(metrics.GuardInvalidToken)
			logger.Warn(c.Request.Context(), "token rejected", "path", c.FullPath(), "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: msgInvalidToken})
			return
		}

		m.RecordGuard(metrics.GuardAllowed)
		ctx := auth.WithIdentity(c.Request.Context(), auth.Identity{UserID: claims.Subject, Role: claims.Role})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func tokenFromHeader(header string) string {
	parts := strings.Fields(header)
	switch len(parts) {
	case 0:
		return ""
	case 2:
		return parts[1]
	default:
		return parts[0]
	}
}

// cors allows any origin, as the browser front end is served separately.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")

		if c.Request.Method == http.MethodOptions {
			if reqHeaders := c.GetHeader("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
				h.Add("Vary", "Access-Control-Request-Headers")
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger logs every request and feeds the request metrics.
func requestLogger(m *metrics.Metrics, logger logging.Logger) gin.HandlerFunc {
	logger = logger.With("module", "http_access")

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		m.RecordRequest(route, strconv.Itoa(status), elapsed)
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", elapsed.String(),
		)
	}
}
