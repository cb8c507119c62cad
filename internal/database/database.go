package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"terminal-terrace/academic/config"
	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/pkg/database"
)

const serviceName = "academic"

var (
	DB    *gorm.DB
	Redis *database.RedisClient
)

// InitDatabase 按配置初始化关系库，必要时初始化 Redis
func InitDatabase() error {
	conf := config.Conf

	db, err := Open(conf.Database)
	if err != nil {
		return err
	}
	DB = db

	if conf.Auth.TokenStore == config.TokenStoreRedis {
		Redis, err = database.InitRedis(&database.RedisConfig{
			ServiceName: serviceName,
			Host:        conf.Redis.Host,
			Port:        conf.Redis.Port,
			Password:    conf.Redis.Password,
			DB:          conf.Redis.DB,
			PoolSize:    conf.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Open 建立连接并迁移表结构
func Open(conf config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := conf.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}

	var (
		db  *gorm.DB
		err error
	)
	switch conf.Driver {
	case config.DriverPostgres:
		db, err = database.InitPostgres(&database.PostgresConfig{
			ServiceName:     serviceName,
			Username:        conf.Username,
			Password:        conf.Password,
			Host:            conf.Host,
			Port:            conf.Port,
			Database:        conf.Database,
			SSLMode:         conf.SSLMode,
			LogLevel:        logLevel,
			MaxIdleConns:    conf.MaxIdleConns,
			MaxOpenConns:    conf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(conf.MaxLifetime) * time.Second,
		})
	case config.DriverSQLite:
		db, err = database.InitSQLite(&database.SQLiteConfig{
			ServiceName: serviceName,
			Path:        conf.Path,
			LogLevel:    logLevel,
		})
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", conf.Driver)
	}
	if err != nil {
		return nil, err
	}

	// 初始化数据库表
	if err := model.InitTable(db); err != nil {
		return nil, fmt.Errorf("迁移数据库失败: %w", err)
	}
	return db, nil
}

// Transaction 在事务中执行 fn，fn 返回错误或 panic 时回滚
// fn 内的所有读写都必须使用 tx
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var opts []*sql.TxOptions
	if db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	}
	return db.WithContext(ctx).Transaction(fn, opts...)
}

// Close 关闭连接
func Close() {
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if Redis != nil {
		_ = Redis.Close()
	}
	zap.L().Info("数据库连接已关闭")
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return DB
}
