package database

import (
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"growth-assistant-go/internal/model"
	"growth-assistant-go/pkg/log"
)

var DB *gorm.DB

// InitMySQL 初始化 MySQL 连接并迁移归档表（chat_logs、voucher_requests）。
func InitMySQL(dsn string) {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("failed to connect database", err)
	}

	// 配置连接池
	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := DB.AutoMigrate(&model.ChatLog{}, &model.VoucherRequest{}); err != nil {
		log.Fatal("failed to migrate archive tables", err)
	}

	log.Info("MySQL database connected successfully")
}
