package model

// Employee 是助手服务的员工身份，对应 CRM 中的 User。
type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
