package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growth-assistant-go/internal/service"
	"growth-assistant-go/pkg/log"
)

// DataHandler 暴露原始目录数据与代金券申请记录。
type DataHandler struct {
	catalogs service.CatalogService
	vouchers service.VoucherRequestService
}

// NewDataHandler 创建一个新的 DataHandler。
func NewDataHandler(catalogs service.CatalogService, vouchers service.VoucherRequestService) *DataHandler {
	return &DataHandler{catalogs: catalogs, vouchers: vouchers}
}

// GetData 原样返回三类目录：{products, learning, vouchers}。
func (h *DataHandler) GetData(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogs.GetCatalog(c.Request.Context()))
}

// ListVoucherRequests 返回当前员工已提交的代金券申请。
func (h *DataHandler) ListVoucherRequests(c *gin.Context) {
	requests, err := h.vouchers.ListRequests(c.Request.Context())
	if err != nil {
		log.Errorf("查询代金券申请失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "Failed to list voucher requests", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": requests})
}

// Health 用于存活探测。
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
