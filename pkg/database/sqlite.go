package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SQLiteConfig SQLite 配置（本地开发与测试）
type SQLiteConfig struct {
	ServiceName string
	// Path 数据库文件路径；为空时使用私有内存库
	Path string
	// Name 内存库名称，同名连接共享同一个库
	Name     string
	LogLevel string
}

// InitSQLite 初始化 SQLite 连接（纯 Go 实现，无需 cgo）
func InitSQLite(config *SQLiteConfig) (*gorm.DB, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if config.LogLevel == "" {
		config.LogLevel = "warn"
	}

	db, err := gorm.Open(sqlite.Open(buildSQLiteDSN(config)), &gorm.Config{
		Logger: getLogger(config.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}
	// SQLite 只允许一个写连接，内存库在最后一个连接关闭时即被释放
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	zap.L().Info("数据库连接成功",
		zap.String("service", serviceName(config.ServiceName)),
		zap.String("driver", "sqlite"),
		zap.String("path", config.Path),
	)
	return db, nil
}

func buildSQLiteDSN(c *SQLiteConfig) string {
	if c.Path != "" {
		return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", c.Path)
	}
	name := c.Name
	if name == "" {
		name = "academic"
	}
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
}
