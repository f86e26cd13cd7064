package model

import "time"

// VoucherRequest 对应 voucher_requests 表，记录每一次代金券申请及其通知投递结果。
type VoucherRequest struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	EmployeeID     string    `gorm:"type:varchar(64);index;not null" json:"employeeId"`
	EmployeeName   string    `gorm:"type:varchar(255);not null" json:"employeeName"`
	Certification  string    `gorm:"type:varchar(255);not null" json:"certification"`
	ExpiryDate     string    `gorm:"type:varchar(32)" json:"expiryDate"`
	DeliveryStatus string    `gorm:"type:varchar(16);not null" json:"deliveryStatus"` // delivered / logged / failed
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (VoucherRequest) TableName() string {
	return "voucher_requests"
}
