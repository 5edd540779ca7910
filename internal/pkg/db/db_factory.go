package db

import (
	"context"
	"fmt"
	"time"

	"wallet-api-sol/internal/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"
)

type DBType string

const (
	MySQL    DBType = "mysql"
	Postgres DBType = "postgres"
)

// PoolOption 连接池参数
type PoolOption struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
}

// DBClient 封装了 gorm.DB 和数据库类型
type DBClient struct {
	DB      *gorm.DB
	Dialect DBType
}

// NewDBClient 创建一个数据库连接客户端
func NewDBClient(dsn string, dialect DBType, pool PoolOption) (*DBClient, error) {
	var dial gorm.Dialector
	switch dialect {
	case MySQL:
		dial = mysql.Open(dsn)
	case Postgres:
		dial = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db type: %s", dialect)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: NewZapGormLogger(gormlog.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}

	return &DBClient{
		DB:      db,
		Dialect: dialect,
	}, nil
}

// ZapGormLogger 实现 GORM 的 logger.Interface，输出到自定义 zap logger
type ZapGormLogger struct {
	level gormlog.LogLevel
}

func NewZapGormLogger(level gormlog.LogLevel) *ZapGormLogger {
	return &ZapGormLogger{level: level}
}

func (l *ZapGormLogger) LogMode(level gormlog.LogLevel) gormlog.Interface {
	return &ZapGormLogger{level: level}
}

func (l *ZapGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlog.Info {
		logger.Infof(msg, data...)
	}
}

func (l *ZapGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlog.Warn {
		logger.Warnf(msg, data...)
	}
}

func (l *ZapGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlog.Error {
		logger.Errorf(msg, data...)
	}
}

func (l *ZapGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == gormlog.Silent {
		return
	}

	sql, rows := fc()
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlog.Error:
		logger.Errorf("[GORM] %s | %d rows | %v | err=%v", sql, rows, elapsed, err)
	case l.level >= gormlog.Info:
		logger.Infof("[GORM] %s | %d rows | %v", sql, rows, elapsed)
	}
}
