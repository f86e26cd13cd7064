// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

import "time"

// VoucherApprovalTask 是发往审批方的代金券申请事件。
type VoucherApprovalTask struct {
	RequestID     string    `json:"request_id"`
	EmployeeID    string    `json:"employee_id"`
	EmployeeName  string    `json:"employee_name"`
	Certification string    `json:"certification"`
	ExpiryDate    string    `json:"expiry_date"`
	RequestedAt   time.Time `json:"requested_at"`
}
