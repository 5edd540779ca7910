package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"wallet-api-sol/internal/config"
	"wallet-api-sol/internal/model"
	"wallet-api-sol/internal/pkg/configloader"
	"wallet-api-sol/internal/pkg/db"
	"wallet-api-sol/internal/pkg/logger"
)

var configFile = flag.String("f", "etc/wallet-api.yaml", "the config file")

// 建表工具：按模型定义同步 users / transactions 表结构
func main() {
	defer logger.Sync()
	flag.Parse()

	var c config.ApiConfig
	if err := configloader.LoadConfig(*configFile, &c); err != nil {
		panic(fmt.Sprintf("load config failed: %v", err))
	}

	idleTime, _ := time.ParseDuration(c.Database.ConnMaxIdleTime)
	client, err := db.NewDBClient(c.Database.DSN(), db.DBType(c.Database.Dialect), db.PoolOption{
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxIdleTime: idleTime,
	})
	if err != nil {
		panic(fmt.Sprintf("connect database failed: %v", err))
	}

	err = db.RetryWithBackoff(context.Background(), 3, func() error {
		return client.DB.AutoMigrate(&model.User{}, &model.Transaction{})
	})
	if err != nil {
		panic(fmt.Sprintf("migrate failed: %v", err))
	}
	logger.Infof("migration done, dialect=%s, database=%s", c.Database.Dialect, c.Database.Database)
}
