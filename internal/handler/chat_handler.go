// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"growth-assistant-go/internal/assistant"
	"growth-assistant-go/internal/middleware"
	"growth-assistant-go/internal/model"
	"growth-assistant-go/internal/service"
	"growth-assistant-go/pkg/log"
)

// ActionVoucherRequest 是申请表单提交时携带的 action 字段值。
const ActionVoucherRequest = "voucher_request"

var upgrader = websocket.Upgrader{CheckOrigin: sameOrigin}

// sameOrigin 只接受 Origin 与请求 Host 一致的浏览器连接；不带 Origin 的非浏览器客户端放行。
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// ChatHandler 负责聊天页面、/ask 接口与 WebSocket 聊天连接。
type ChatHandler struct {
	chatService   service.ChatService
	conversations service.ConversationService
	vouchers      service.VoucherRequestService
	employeeName  string
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService, conversations service.ConversationService,
	vouchers service.VoucherRequestService, employeeName string) *ChatHandler {
	return &ChatHandler{
		chatService:   chatService,
		conversations: conversations,
		vouchers:      vouchers,
		employeeName:  employeeName,
	}
}

type turnView struct {
	Question string
	// Answer 由各回答生成器产出，动态内容在生成时已转义
	Answer template.HTML
}

type pageView struct {
	Greeting        string
	History         []turnView
	EmployeeName    string
	ShowVoucherForm bool
}

// Index 渲染聊天页面；欢迎语每个会话只出现一次。
func (h *ChatHandler) Index(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	showGreeting, session, err := h.conversations.ConsumeGreeting(c.Request.Context(), sessionID)
	if err != nil {
		log.Errorf("加载会话失败: %v", err)
		c.String(http.StatusInternalServerError, "Session storage unavailable, please try again later.")
		return
	}

	view := h.page(session, false)
	if showGreeting {
		view.Greeting = h.greeting()
	}
	c.HTML(http.StatusOK, "index.html", view)
}

// Submit 处理页面表单：普通提问，或 action=voucher_request 的代金券申请。
func (h *ChatHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)
	showForm := false

	if c.PostForm("action") == ActionVoucherRequest {
		if _, err := h.vouchers.Submit(ctx, sessionID, c.PostForm("name"), c.PostForm("certification")); err != nil {
			log.Errorf("处理代金券申请失败: %v", err)
			c.String(http.StatusInternalServerError, "Session storage unavailable, please try again later.")
			return
		}
	} else {
		res, err := h.chatService.Ask(ctx, sessionID, c.PostForm("question"))
		if err != nil {
			log.Errorf("处理提问失败: %v", err)
			c.String(http.StatusInternalServerError, "Session storage unavailable, please try again later.")
			return
		}
		showForm = res.Action == assistant.ActionShowVoucherForm
	}

	session, err := h.conversations.Load(ctx, sessionID)
	if err != nil {
		log.Errorf("加载会话失败: %v", err)
		c.String(http.StatusInternalServerError, "Session storage unavailable, please try again later.")
		return
	}
	c.HTML(http.StatusOK, "index.html", h.page(session, showForm))
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask 是前端脚本使用的 JSON 接口：{question} → {answer, action}。
// 空问题不产生新的对话轮次，answer 为空字符串。
func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request body", "data": nil})
		return
	}

	res, err := h.chatService.Ask(c.Request.Context(), middleware.SessionID(c), req.Question)
	if err != nil {
		log.Errorf("处理提问失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to answer question", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": res.Answer, "action": res.Action})
}

// wsRequest 是 WebSocket 上的一帧请求；非 JSON 文本帧整体视为提问。
type wsRequest struct {
	Type          string `json:"type"`
	Question      string `json:"question"`
	Name          string `json:"name"`
	Certification string `json:"certification"`
}

type wsResponse struct {
	Answer string `json:"answer"`
	Action string `json:"action,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Handle 处理一个传入的 WebSocket 连接：每个文本帧是一轮提问，每轮回答一个 JSON 帧。
func (h *ChatHandler) Handle(c *gin.Context) {
	sessionID := middleware.SessionID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infow("WebSocket 连接已建立", "session", sessionID)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("从 WebSocket 读取消息失败: %v", err)
			}
			break
		}

		resp, ok := h.handleFrame(c.Request.Context(), sessionID, message)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Warnf("写入 WebSocket 消息失败: %v", err)
			break
		}
	}
}

// handleFrame 处理单帧；返回 false 表示本帧不需要回复（例如空问题）。
func (h *ChatHandler) handleFrame(ctx context.Context, sessionID string, message []byte) (wsResponse, bool) {
	req := wsRequest{Question: string(message)}
	if trimmed := strings.TrimSpace(string(message)); strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(message, &req); err != nil {
			return wsResponse{Error: "invalid message"}, true
		}
	}

	if req.Type == ActionVoucherRequest {
		outcome, err := h.vouchers.Submit(ctx, sessionID, req.Name, req.Certification)
		if err != nil {
			log.Errorf("处理代金券申请失败: %v", err)
			return wsResponse{Error: "request failed, please try again later"}, true
		}
		return wsResponse{Answer: outcome.Message}, true
	}

	res, err := h.chatService.Ask(ctx, sessionID, req.Question)
	if err != nil {
		log.Errorf("处理提问失败: %v", err)
		return wsResponse{Error: "request failed, please try again later"}, true
	}
	if !res.Answered {
		return wsResponse{}, false
	}
	return wsResponse{Answer: res.Answer, Action: res.Action}, true
}

func (h *ChatHandler) page(session *model.ConversationSession, showForm bool) pageView {
	view := pageView{EmployeeName: h.employeeName, ShowVoucherForm: showForm}
	for _, t := range session.ChatHistory {
		view.History = append(view.History, turnView{Question: t.Question, Answer: template.HTML(t.Answer)})
	}
	return view
}

func (h *ChatHandler) greeting() string {
	name := strings.TrimSpace(h.employeeName)
	hello := "Hi!"
	if name != "" {
		hello = fmt.Sprintf("Hi %s!", name)
	}
	return hello + " I can help you with your assigned products, learning materials and certification vouchers. What would you like to know?"
}
