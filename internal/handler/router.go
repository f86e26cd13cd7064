package handler

import (
	"github.com/gin-gonic/gin"

	"growth-assistant-go/internal/middleware"
	"growth-assistant-go/internal/service"
	"growth-assistant-go/pkg/token"
)

// Services 汇总路由需要的业务服务。
type Services struct {
	Chat          service.ChatService
	Conversations service.ConversationService
	Vouchers      service.VoucherRequestService
	Catalogs      service.CatalogService
}

// RouterOptions 是与 HTTP 层相关的配置。
type RouterOptions struct {
	JWT          *token.JWTManager
	Session      middleware.SessionOptions
	DataAPIKey   string
	EmployeeName string
}

// NewRouter 创建 gin 引擎并注册全部路由。
func NewRouter(s Services, opts RouterOptions) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New() // 不带默认中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", StaticFS())
	r.GET("/health", Health)

	chatHandler := NewChatHandler(s.Chat, s.Conversations, s.Vouchers, opts.EmployeeName)
	conversationHandler := NewConversationHandler(s.Conversations)
	dataHandler := NewDataHandler(s.Catalogs, s.Vouchers)

	// 原始数据接口不依赖浏览器会话
	data := r.Group("/")
	data.Use(middleware.DataAPIKeyMiddleware(opts.DataAPIKey))
	{
		data.GET("/data", dataHandler.GetData)
		data.GET("/voucher_requests", dataHandler.ListVoucherRequests)
	}

	chat := r.Group("/")
	chat.Use(middleware.SessionMiddleware(opts.JWT, opts.Session))
	{
		chat.GET("/", chatHandler.Index)
		chat.POST("/", chatHandler.Submit)
		chat.POST("/ask", chatHandler.Ask)
		chat.GET("/chat/ws", chatHandler.Handle)
		chat.GET("/history", conversationHandler.GetConversation)
		chat.POST("/clear_history", conversationHandler.ClearHistory)
	}
	return r, nil
}
