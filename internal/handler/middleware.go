package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"SnapSolve-App/internal/domain/model"
	"SnapSolve-App/internal/domain/repository"
	"SnapSolve-App/internal/infrastructure/metrics"
)

const identityKey = "identity"

// CORSMiddleware はすべてのオリジンからのリクエストを許可する
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// BodyLimitMiddleware はリクエストボディの大きさを制限する
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{errorKey(c.Request.URL.Path): "Request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// errorKey はエラーレスポンスのキーを返す。チケットAPIは "message"、それ以外は "error"
func errorKey(path string) string {
	if path == EndPointTickets || strings.HasPrefix(path, EndPointTickets+"/") {
		return "message"
	}
	return "error"
}

// RequestLoggerMiddleware はすべてのリクエストをapex/logに記録し、メトリクスを数える
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": time.Since(start).String(),
		}).Info("🌐 " + c.Request.Method + " " + c.Request.URL.Path)
	}
}

// AuthMiddleware はAuthorizationヘッダのbearerトークンを検証し、Identityをコンテキストに保存する
// 検証結果はリクエストをまたいでキャッシュしない
func AuthMiddleware(verifier repository.IdentityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := verifier.Verify(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			abortWithError(c, "message", err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// identityFrom はAuthMiddlewareが保存したIdentityを取り出す
func identityFrom(c *gin.Context) *model.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := value.(*model.Identity)
	return identity
}
