// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"growth-assistant-go/pkg/log"
	"growth-assistant-go/pkg/token"
)

// SessionIDKey 是会话 ID 在 gin.Context 中的键。
const SessionIDKey = "sessionID"

// SessionOptions 描述会话 cookie 的属性。
type SessionOptions struct {
	CookieName string
	Secure     bool
}

// SessionMiddleware 从签名 cookie 中取出浏览器会话 ID。
// cookie 缺失、签名无效或过期时不拒绝请求，而是开启一个新会话并重新下发 cookie。
func SessionMiddleware(jwtManager *token.JWTManager, opts SessionOptions) gin.HandlerFunc {
	if opts.CookieName == "" {
		opts.CookieName = "assistant_session"
	}
	return func(c *gin.Context) {
		if raw, err := c.Cookie(opts.CookieName); err == nil && raw != "" {
			claims, err := jwtManager.VerifyToken(raw)
			if err == nil {
				c.Set(SessionIDKey, claims.SessionID)
				c.Next()
				return
			}
			log.Debugw("[SessionMiddleware] discarding session cookie", "error", err)
		}

		sessionID := uuid.NewString()
		signed, err := jwtManager.GenerateToken(sessionID)
		if err != nil {
			log.Error("签发会话 token 失败", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to start session", "data": nil})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.CookieName, signed, int(jwtManager.TTL().Seconds()), "/", "", opts.Secure, true)
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// SessionID 返回 SessionMiddleware 存入的会话 ID。
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
