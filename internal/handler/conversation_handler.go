// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growth-assistant-go/internal/middleware"
	"growth-assistant-go/internal/service"
	"growth-assistant-go/pkg/log"
)

// ConversationHandler 处理与对话历史相关的请求。
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// GetConversation 返回当前会话的全部问答。
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	session, err := h.service.Load(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		log.Errorf("加载会话失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to retrieve conversation history",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    session.ChatHistory,
	})
}

// ClearHistory 清空对话历史与追问状态，然后回到聊天页面。
func (h *ConversationHandler) ClearHistory(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		log.Errorf("清空会话失败: %v", err)
		c.String(http.StatusInternalServerError, "Session storage unavailable, please try again later.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
