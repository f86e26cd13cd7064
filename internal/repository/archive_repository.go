package repository

import (
	"context"

	"gorm.io/gorm"

	"growth-assistant-go/internal/model"
)

// ChatLogRepository 接口定义了问答归档的持久化操作。
type ChatLogRepository interface {
	Create(ctx context.Context, entry *model.ChatLog) error
}

type chatLogRepository struct {
	db *gorm.DB
}

// NewChatLogRepository 创建一个新的 ChatLogRepository 实例。
func NewChatLogRepository(db *gorm.DB) ChatLogRepository {
	return &chatLogRepository{db: db}
}

// Create 写入一条问答记录。
func (r *chatLogRepository) Create(ctx context.Context, entry *model.ChatLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// VoucherRequestRepository 接口定义了代金券申请的持久化操作。
type VoucherRequestRepository interface {
	Create(ctx context.Context, req *model.VoucherRequest) error
	FindByEmployee(ctx context.Context, employeeID string) ([]model.VoucherRequest, error)
}

type voucherRequestRepository struct {
	db *gorm.DB
}

// NewVoucherRequestRepository 创建一个新的 VoucherRequestRepository 实例。
func NewVoucherRequestRepository(db *gorm.DB) VoucherRequestRepository {
	return &voucherRequestRepository{db: db}
}

// Create 写入一条申请记录。
func (r *voucherRequestRepository) Create(ctx context.Context, req *model.VoucherRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// FindByEmployee 返回员工的全部申请，最新的在前。
func (r *voucherRequestRepository) FindByEmployee(ctx context.Context, employeeID string) ([]model.VoucherRequest, error) {
	var reqs []model.VoucherRequest
	err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}
