package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

// statusForError はエラー種別を HTTP ステータスに対応付けます。
func statusForError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindQuota:
		return http.StatusTooManyRequests
	case domain.KindContentPolicy, domain.KindResultMissing:
		return http.StatusUnprocessableEntity
	case domain.KindProvider, domain.KindFetch:
		return http.StatusBadGateway
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, err error) {
	body := gin.H{"error": err.Error()}
	if ge, ok := domain.AsGenerationError(err); ok {
		body["error"] = ge.Message
		body["kind"] = ge.Kind
	}
	c.AbortWithStatusJSON(status, body)
}
