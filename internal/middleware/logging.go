// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"growth-assistant-go/pkg/log"
)

// 请求体只记录前 maxLoggedBody 个字节
const maxLoggedBody = 2048

// RequestLogger 是一个 Gin 中间件，记录每个请求的方法、路径、状态码与耗时。
// 表单与 JSON 请求体会被截断后一并记录；websocket 升级请求不读取请求体。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		var requestBody []byte
		if c.Request.Body != nil && !isUpgrade(c) {
			requestBody, _ = io.ReadAll(c.Request.Body)
			// 重新设置请求体，后续处理函数才能正常读取
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		body := string(requestBody)
		if len(body) > maxLoggedBody {
			body = body[:maxLoggedBody] + "..."
		}
		fields := []interface{}{
			"statusCode", c.Writer.Status(),
			"latency", time.Since(startTime).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"responseSize", c.Writer.Size(),
		}
		if body != "" {
			fields = append(fields, "requestBody", body)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		log.Infow("HTTP Request Log", fields...)
	}
}

func isUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}
