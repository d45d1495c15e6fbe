package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"SnapSolve-App/internal/domain/model"
)

// errorResponse はエラーをHTTPステータスとクライアント向けメッセージに変換する
// 内部の詳細（ストアや外部APIのエラー）はログにだけ出す
func errorResponse(err error) (int, string) {
	var validationErr *model.ValidationError
	var authErr *model.AuthError
	var upstreamErr *model.UpstreamError
	var parseErr *model.ParseError
	var persistenceErr *model.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationMessage(validationErr)
	case errors.As(err, &authErr):
		if authErr.Kind == model.AuthUnauthorized {
			return http.StatusUnauthorized, "Unauthorized"
		}
		return http.StatusForbidden, "Invalid or expired token"
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, "Upstream service failed: " + upstreamErr.Service
	case errors.As(err, &parseErr):
		return http.StatusInternalServerError, "Analysis failed: the model returned an unexpected response"
	case errors.As(err, &persistenceErr):
		return http.StatusInternalServerError, "Server error"
	default:
		return http.StatusInternalServerError, "Server error"
	}
}

func validationMessage(err *model.ValidationError) string {
	if err.Field == "" || strings.Contains(err.Message, err.Field) {
		return err.Message
	}
	return err.Error()
}

// abortWithError はエラーを記録し、key（"error" または "message"）でレスポンスを返す
func abortWithError(c *gin.Context, key string, err error) {
	status, message := errorResponse(err)

	entry := log.WithError(err).WithFields(log.Fields{
		"path":   c.FullPath(),
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("❌ Request failed")
	} else {
		entry.Warn("⚠️ Request rejected")
	}

	c.AbortWithStatusJSON(status, gin.H{key: message})
}
