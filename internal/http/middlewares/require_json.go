package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects mutating requests whose body is not declared as
// JSON. Bodyless requests pass through untouched: logout and the saved
// job check are POSTs that carry no payload.
func RequireJSON() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch ctx.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			ctx.Next()
			return
		}

		if ctx.Request.ContentLength == 0 {
			ctx.Next()
			return
		}

		// "application/json; charset=utf-8" is accepted
		ct := strings.ToLower(ctx.GetHeader("Content-Type"))
		if !strings.HasPrefix(ct, "application/json") {
			ctx.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"error": gin.H{
					"code":    "unsupported_media_type",
					"message": "Content-Type must be application/json",
				},
			})
			return
		}

		ctx.Next()
	}
}
