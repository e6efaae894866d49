package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 会话数据只在进程内有效，默认走内存库
const DefaultDSN = "file::memory:?cache=shared"

// InitDB 初始化会话存储
// dsn: 数据库连接字符串，空串使用内存库
// models: 需要自动建表/迁移的结构体指针
func InitDB(dsn string, models ...interface{}) *gorm.DB {
	if dsn == "" {
		dsn = DefaultDSN
	}

	// 慢 SQL 和错误才打日志
	dbLogger := logger.Default.LogMode(logger.Warn)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		log.Fatalf("会话存储初始化失败: %v", err)
	}

	// 内存库只保留单连接，避免 :memory: 多连接各自看到一张空库
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("获取底层 SQL DB 失败: %v", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			log.Fatalf("自动建表出错: %v", err)
		}
	}

	log.Println("会话存储就绪 (SQLite In-Memory)")
	return db
}
