// Package main 是应用程序的入口点。
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"growth-assistant-go/internal/assistant"
	"growth-assistant-go/internal/config"
	"growth-assistant-go/internal/handler"
	"growth-assistant-go/internal/middleware"
	"growth-assistant-go/internal/model"
	"growth-assistant-go/internal/repository"
	"growth-assistant-go/internal/service"
	"growth-assistant-go/pkg/crm"
	"growth-assistant-go/pkg/database"
	"growth-assistant-go/pkg/kafka"
	"growth-assistant-go/pkg/llm"
	"growth-assistant-go/pkg/log"
	"growth-assistant-go/pkg/notify"
	"growth-assistant-go/pkg/token"
)

func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "./configs/config.yaml"
	}
	configPath := flag.String("config", defaultPath, "path to the YAML config file")
	flag.Parse()

	// 1. 初始化配置
	config.Init(*configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化 Redis 与（可选的）MySQL 归档库
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	var (
		chatLogRepo        repository.ChatLogRepository
		voucherRequestRepo repository.VoucherRequestRepository
	)
	if cfg.Database.MySQL.DSN != "" {
		database.InitMySQL(cfg.Database.MySQL.DSN)
		chatLogRepo = repository.NewChatLogRepository(database.DB)
		voucherRequestRepo = repository.NewVoucherRequestRepository(database.DB)
	} else {
		log.Warnf("未配置 MySQL，问答与代金券申请不会归档")
	}

	// 4. CRM 客户端与离线数据
	var crmClient crm.Client
	if crm.Configured(cfg.CRM) {
		crmClient = crm.NewSalesforceClient(cfg.CRM)
	} else {
		log.Warnf("CRM 凭据不完整，目录数据只来自离线 fixture")
	}
	var fixture *model.Catalog
	if cfg.CRM.OfflineFixture != "" {
		f, err := crm.LoadFixture(cfg.CRM.OfflineFixture)
		if err != nil {
			log.Warnf("加载离线 fixture 失败: %v", err)
		} else {
			fixture = f
		}
	}
	var catalogCache repository.CatalogCacheRepository
	if cfg.CRM.CacheTTLSeconds > 0 {
		catalogCache = repository.NewCatalogCacheRepository(database.RDB, time.Duration(cfg.CRM.CacheTTLSeconds)*time.Second)
	}

	// 5. 对话引擎
	policy := assistant.NewPolicy(cfg.Matching, cfg.LLM.Prompt.HistoryTurns)
	fallback := assistant.NewFallback(llm.NewClient(cfg.LLM), assistant.PromptSettings{
		System:      cfg.LLM.Prompt.System,
		Rules:       cfg.LLM.Prompt.Rules,
		Unavailable: cfg.LLM.Prompt.Unavailable,
	}, cfg.LLM.Prompt.HistoryTurns)
	engine := assistant.NewEngine(policy, fallback)

	// 6. 代金券审批通知
	notifier, closeNotifier := buildNotifier(cfg.Notification)
	defer closeNotifier()

	// 7. 初始化 Repository 与 Service (依赖注入)
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	conversationRepo := repository.NewConversationRepository(database.RDB, sessionTTL, cfg.Session.MaxTurns)
	employee := model.Employee{ID: cfg.Employee.ID, Name: cfg.Employee.Name}

	catalogService := service.NewCatalogService(crmClient, catalogCache, fixture, employee.ID)
	conversationService := service.NewConversationService(conversationRepo)
	chatService := service.NewChatService(engine, catalogService, conversationService, chatLogRepo, crmClient, employee.ID)
	voucherService := service.NewVoucherRequestService(catalogService, conversationService, notifier, voucherRequestRepo, employee)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r, err := handler.NewRouter(handler.Services{
		Chat:          chatService,
		Conversations: conversationService,
		Vouchers:      voucherService,
		Catalogs:      catalogService,
	}, handler.RouterOptions{
		JWT:          token.NewJWTManager(cfg.Session.Secret, sessionTTL),
		Session:      middleware.SessionOptions{CookieName: cfg.Session.CookieName, Secure: cfg.Session.SecureCookie},
		DataAPIKey:   cfg.Server.DataAPIKey,
		EmployeeName: employee.Name,
	})
	if err != nil {
		log.Fatal("路由初始化失败", err)
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}

// buildNotifier 按 notification.transport 选择 SMTP 或 Kafka，失败时写入本地台账。
// 返回的函数在停机时关闭 Kafka 写入器与台账文件。
func buildNotifier(cfg config.NotificationConfig) (notify.Notifier, func()) {
	var closers []func() error

	var recorder notify.Recorder
	ledger, err := notify.NewLedger(cfg.Ledger)
	if err != nil {
		log.Errorf("通知台账初始化失败，投递失败的申请将无法记录: %v", err)
	} else {
		recorder = ledger
		closers = append(closers, ledger.Close)
	}

	var transport notify.Transport
	switch cfg.Transport {
	case "kafka":
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Warnf("Kafka 生产者初始化失败: %v", err)
			transport = notify.NewKafkaTransport(nil)
		} else {
			transport = notify.NewKafkaTransport(producer)
			closers = append(closers, producer.Close)
		}
	case "smtp", "":
		transport = notify.NewSMTPTransport(cfg.SMTP)
	default:
		log.Warnf("未知的通知方式 %q，代金券申请将无法投递", cfg.Transport)
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warnf("关闭通知组件失败: %v", err)
			}
		}
	}
	return notify.NewNotifier(transport, recorder), closeAll
}
