// Package crm 封装对 Salesforce 的访问：产品分配、学习资料、认证代金券与对话日志。
package crm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/simpleforce/simpleforce"

	"growth-assistant-go/internal/config"
	"growth-assistant-go/internal/model"
	"growth-assistant-go/pkg/log"
)

var (
	// ErrNotConfigured 表示缺少连接 Salesforce 所需的凭据。
	ErrNotConfigured = errors.New("crm: salesforce credentials not configured")
	// ErrAuth 表示登录失败。
	ErrAuth = errors.New("crm: salesforce authentication failed")
)

const chatLogObject = "Chat_Log__c"

// Client 定义了助手需要的 CRM 操作。
type Client interface {
	ListAssignedProducts(ctx context.Context, employeeID string) ([]string, error)
	ListLearningMaterials(ctx context.Context, products []string) ([]model.LearningMaterial, error)
	ListVouchers(ctx context.Context, employeeID string) ([]model.Voucher, error)
	AppendChatLog(ctx context.Context, entry ChatLogEntry) error
}

// ChatLogEntry 是写入 Chat_Log__c 的一条记录。
type ChatLogEntry struct {
	EmployeeID string
	Question   string
	Answer     string
	Intent     string
}

type salesforceClient struct {
	cfg        config.CRMConfig
	loginURL   string
	apiVersion string
	http       *http.Client

	mu     sync.Mutex
	client *simpleforce.Client
}

// NewSalesforceClient 创建一个用户名/密码/安全令牌登录（SOAP login）的 Salesforce 客户端，
// 不需要 Connected App。登录是惰性的：第一次查询时才会发起。
func NewSalesforceClient(cfg config.CRMConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &salesforceClient{
		cfg:        cfg,
		loginURL:   LoginURL(cfg),
		apiVersion: apiVersion(cfg.APIVersion),
		http:       &http.Client{Timeout: timeout},
	}
}

// Configured 判断凭据是否齐全。安全令牌在受信任 IP 下可以为空。
func Configured(cfg config.CRMConfig) bool {
	return cfg.Username != "" && cfg.Password != ""
}

// LoginURL 返回登录地址：显式配置的 login_url 优先，否则由 domain（login / test）拼出。
func LoginURL(cfg config.CRMConfig) string {
	if u := strings.TrimRight(cfg.LoginURL, "/"); u != "" {
		return u
	}
	domain := cfg.Domain
	if domain == "" {
		domain = "login"
	}
	return fmt.Sprintf("https://%s.salesforce.com", domain)
}

// simpleforce 的版本号不带 "v" 前缀。
func apiVersion(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return simpleforce.DefaultAPIVersion
	}
	return v
}

// ListAssignedProducts 查询分配给员工的产品（Product__c 为文本字段）。
func (c *salesforceClient) ListAssignedProducts(ctx context.Context, employeeID string) ([]string, error) {
	soql := fmt.Sprintf("SELECT Product__c FROM Product_Assignment__c WHERE Employee__c = '%s'", EscapeSOQL(employeeID))
	records, err := c.queryAll(ctx, soql)
	if err != nil {
		return nil, err
	}
	products := make([]string, 0, len(records))
	for _, r := range records {
		if p := r.StringField("Product__c"); strings.TrimSpace(p) != "" {
			products = append(products, p)
		}
	}
	return products, nil
}

// ListLearningMaterials 查询属于给定产品的学习资料。产品为空时不发起查询。
func (c *salesforceClient) ListLearningMaterials(ctx context.Context, products []string) ([]model.LearningMaterial, error) {
	if len(products) == 0 {
		return []model.LearningMaterial{}, nil
	}
	quoted := make([]string, len(products))
	for i, p := range products {
		quoted[i] = "'" + EscapeSOQL(p) + "'"
	}
	soql := "SELECT Name, Product__c, Link__c, Skill_Level__c, Material_Type__c, Description__c FROM Learning_Material__c WHERE Product__c IN (" + strings.Join(quoted, ",") + ")"
	records, err := c.queryAll(ctx, soql)
	if err != nil {
		return nil, err
	}
	out := make([]model.LearningMaterial, 0, len(records))
	for _, r := range records {
		out = append(out, model.LearningMaterial{
			Name:         r.StringField("Name"),
			Product:      r.StringField("Product__c"),
			Link:         r.StringField("Link__c"),
			SkillLevel:   r.StringField("Skill_Level__c"),
			MaterialType: r.StringField("Material_Type__c"),
			Description:  r.StringField("Description__c"),
		})
	}
	return out, nil
}

// ListVouchers 查询员工的认证代金券。
func (c *salesforceClient) ListVouchers(ctx context.Context, employeeID string) ([]model.Voucher, error) {
	soql := fmt.Sprintf("SELECT Name, Status__c, VoucherCode__c, Expiry_Date__c FROM Certification_Voucher__c WHERE Employee__c = '%s'", EscapeSOQL(employeeID))
	records, err := c.queryAll(ctx, soql)
	if err != nil {
		return nil, err
	}
	out := make([]model.Voucher, 0, len(records))
	for _, r := range records {
		out = append(out, model.Voucher{
			Name:       r.StringField("Name"),
			Status:     r.StringField("Status__c"),
			Code:       r.StringField("VoucherCode__c"),
			ExpiryDate: r.StringField("Expiry_Date__c"),
		})
	}
	return out, nil
}

// AppendChatLog 在 Chat_Log__c 中插入一条记录。
func (c *salesforceClient) AppendChatLog(ctx context.Context, entry ChatLogEntry) error {
	return c.withSession(ctx, func(sf *simpleforce.Client) error {
		obj := sf.SObject(chatLogObject).
			Set("Employee__c", entry.EmployeeID).
			Set("Question__c", entry.Question).
			Set("Answer__c", entry.Answer)
		if entry.Intent != "" {
			obj.Set("Intent__c", entry.Intent)
		}
		// simpleforce 的 Create 失败时只返回 nil，HTTP 错误细节由它自己打印。
		if obj.Create() == nil {
			return fmt.Errorf("crm: %s insert failed", chatLogObject)
		}
		return nil
	})
}

// queryAll 执行 SOQL 并跟随 nextRecordsUrl 拉取全部分页。
func (c *salesforceClient) queryAll(ctx context.Context, soql string) ([]simpleforce.SObject, error) {
	var records []simpleforce.SObject
	next := soql
	for next != "" {
		var page *simpleforce.QueryResult
		err := c.withSession(ctx, func(sf *simpleforce.Client) error {
			var err error
			page, err = sf.Query(next)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("crm: query failed: %w", err)
		}
		records = append(records, page.Records...)
		next = ""
		if !page.Done && page.NextRecordsURL != "" {
			next = page.NextRecordsURL
		}
	}
	return records, nil
}

// withSession 用当前会话执行 fn；会话失效（401）时重新登录并重试一次。
func (c *salesforceClient) withSession(ctx context.Context, fn func(*simpleforce.Client) error) error {
	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		sf, err := c.session(attempt > 0)
		if err != nil {
			return err
		}
		err = fn(sf)
		if attempt == 0 && sessionExpired(err) {
			log.Warnw("[CRM] salesforce session rejected, logging in again")
			continue
		}
		return err
	}
	return ErrAuth
}

func sessionExpired(err error) bool {
	var sfErr simpleforce.SalesforceError
	return errors.As(err, &sfErr) && sfErr.HttpCode == http.StatusUnauthorized
}

// session 返回已登录的客户端。重新登录时创建新的 simpleforce.Client 再替换，
// 正在使用旧客户端的调用不受影响。
func (c *salesforceClient) session(refresh bool) (*simpleforce.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil && !refresh {
		return c.client, nil
	}
	if !Configured(c.cfg) {
		return nil, ErrNotConfigured
	}

	clientID := c.cfg.ClientID
	if clientID == "" {
		clientID = simpleforce.DefaultClientID
	}
	sf := simpleforce.NewClient(c.loginURL, clientID, c.apiVersion)
	sf.SetHttpClient(c.http)
	if err := sf.LoginPassword(c.cfg.Username, c.cfg.Password, c.cfg.SecurityToken); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if sf.GetSid() == "" {
		return nil, fmt.Errorf("%w: login response carried no session id", ErrAuth)
	}
	c.client = sf
	log.Infow("[CRM] salesforce login succeeded", "instance", sf.GetLoc())
	return sf, nil
}

// EscapeSOQL 转义 SOQL 字符串字面量中的反斜杠与单引号。
func EscapeSOQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
