// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Log          LogConfig          `mapstructure:"log"`
	Session      SessionConfig      `mapstructure:"session"`
	Employee     EmployeeConfig     `mapstructure:"employee"`
	CRM          CRMConfig          `mapstructure:"crm"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Matching     MatchingConfig     `mapstructure:"matching"`
	Notification NotificationConfig `mapstructure:"notification"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port       string `mapstructure:"port"`
	Mode       string `mapstructure:"mode"`
	DataAPIKey string `mapstructure:"data_api_key"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// SessionConfig 配置浏览器会话（签名 cookie + Redis 存储）。
type SessionConfig struct {
	Secret       string `mapstructure:"secret"`
	CookieName   string `mapstructure:"cookie_name"`
	TTLHours     int    `mapstructure:"ttl_hours"`
	MaxTurns     int    `mapstructure:"max_turns"`
	SecureCookie bool   `mapstructure:"secure_cookie"`
}

// EmployeeConfig 标识当前助手服务的员工（CRM 中的 User Id）。
type EmployeeConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// CRMConfig 存储 Salesforce 连接配置。
type CRMConfig struct {
	Domain          string `mapstructure:"domain"` // login / test
	LoginURL        string `mapstructure:"login_url"`
	APIVersion      string `mapstructure:"api_version"`
	ClientID        string `mapstructure:"client_id"` // SOAP CallOptions 中的客户端名，可为空
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	SecurityToken   string `mapstructure:"security_token"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	OfflineFixture  string `mapstructure:"offline_fixture"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

// LLMConfig 存储大语言模型相关的配置。
type LLMConfig struct {
	APIKey         string              `mapstructure:"api_key"`
	BaseURL        string              `mapstructure:"base_url"`
	Model          string              `mapstructure:"model"`
	TimeoutSeconds int                 `mapstructure:"timeout_seconds"`
	Generation     LLMGenerationConfig `mapstructure:"generation"`
	Prompt         LLMPromptConfig     `mapstructure:"prompt"`
}

// LLMGenerationConfig 配置生成相关参数。
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// LLMPromptConfig 配置系统提示与兜底回答。
type LLMPromptConfig struct {
	System       string `mapstructure:"system"`
	Rules        string `mapstructure:"rules"`
	HistoryTurns int    `mapstructure:"history_turns"`
	Unavailable  string `mapstructure:"unavailable_text"`
}

// MatchingConfig 集中管理模糊匹配阈值、停用词与产品别名。
type MatchingConfig struct {
	FuzzyCutoff     float64             `mapstructure:"fuzzy_cutoff"`
	ProductCutoff   float64             `mapstructure:"product_cutoff"`
	MaxFuzzyResults int                 `mapstructure:"max_fuzzy_results"`
	ProductAliases  map[string]string   `mapstructure:"product_aliases"`
	Stopwords       map[string][]string `mapstructure:"stopwords"`
}

// NotificationConfig 配置代金券申请通知的投递方式。
type NotificationConfig struct {
	Transport string       `mapstructure:"transport"` // smtp / kafka
	SMTP      SMTPConfig   `mapstructure:"smtp"`
	Kafka     KafkaConfig  `mapstructure:"kafka"`
	Ledger    LedgerConfig `mapstructure:"ledger"`
}

// SMTPConfig 存储邮件发送相关的配置。
type SMTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	From           string `mapstructure:"from"`
	To             string `mapstructure:"to"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// KafkaConfig 存储 Kafka 相关的配置。
type KafkaConfig struct {
	Brokers        string `mapstructure:"brokers"`
	Topic          string `mapstructure:"topic"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LedgerConfig 配置通知失败时的本地追加日志。
type LedgerConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Init 初始化配置加载：先读取 .env，再读取 YAML 文件并解析到 Conf 变量中。
// 环境变量（如 CRM_PASSWORD、LLM_API_KEY）优先于文件中的值。
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = *cfg
}

// Load 读取配置但不修改全局变量，便于测试。
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 兼容旧部署中使用的环境变量名
	for key, envs := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("绑定环境变量 %s 失败: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	return &cfg, nil
}

var legacyEnv = map[string][]string{
	"crm.username":       {"CRM_USERNAME", "SALESFORCE_USERNAME"},
	"crm.password":       {"CRM_PASSWORD", "SALESFORCE_PASSWORD"},
	"crm.security_token": {"CRM_SECURITY_TOKEN", "SALESFORCE_SECURITY_TOKEN"},
	"crm.domain":         {"CRM_DOMAIN", "SALESFORCE_DOMAIN"},
	"llm.api_key":        {"LLM_API_KEY", "GROQ_API_KEY"},
	"session.secret":     {"SESSION_SECRET", "FLASK_SECRET_KEY"},
	"employee.id":        {"EMPLOYEE_ID", "USER_ID"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.data_api_key", "")

	v.SetDefault("database.mysql.dsn", "")
	v.SetDefault("database.redis.addr", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "")

	v.SetDefault("session.secret", "supersecretkey")
	v.SetDefault("session.cookie_name", "assistant_session")
	v.SetDefault("session.ttl_hours", 24)
	v.SetDefault("session.max_turns", 50)
	v.SetDefault("session.secure_cookie", false)

	v.SetDefault("employee.id", "")
	v.SetDefault("employee.name", "")

	v.SetDefault("crm.domain", "login")
	v.SetDefault("crm.login_url", "")
	v.SetDefault("crm.api_version", "v59.0")
	v.SetDefault("crm.timeout_seconds", 15)
	v.SetDefault("crm.client_id", "")
	v.SetDefault("crm.username", "")
	v.SetDefault("crm.password", "")
	v.SetDefault("crm.security_token", "")
	v.SetDefault("crm.offline_fixture", "")
	v.SetDefault("crm.cache_ttl_seconds", 0)

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.timeout_seconds", 30)
	v.SetDefault("llm.generation.temperature", 0.2)
	v.SetDefault("llm.generation.max_tokens", 300)
	v.SetDefault("llm.prompt.system", "You are a helpful Salesforce assistant")
	v.SetDefault("llm.prompt.history_turns", 10)

	v.SetDefault("matching.fuzzy_cutoff", 0.6)
	v.SetDefault("matching.product_cutoff", 0.7)
	v.SetDefault("matching.max_fuzzy_results", 3)

	v.SetDefault("notification.transport", "smtp")
	v.SetDefault("notification.smtp.host", "")
	v.SetDefault("notification.smtp.port", 587)
	v.SetDefault("notification.smtp.username", "")
	v.SetDefault("notification.smtp.password", "")
	v.SetDefault("notification.smtp.from", "")
	v.SetDefault("notification.smtp.to", "")
	v.SetDefault("notification.smtp.timeout_seconds", 10)
	v.SetDefault("notification.kafka.brokers", "")
	v.SetDefault("notification.kafka.topic", "voucher-requests")
	v.SetDefault("notification.kafka.timeout_seconds", 10)
	v.SetDefault("notification.ledger.path", "./logs/voucher_requests.log")
	v.SetDefault("notification.ledger.max_size_mb", 50)
	v.SetDefault("notification.ledger.max_backups", 10)
	v.SetDefault("notification.ledger.max_age_days", 90)
}
