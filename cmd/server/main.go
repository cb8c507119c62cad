package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"terminal-terrace/academic/config"
	"terminal-terrace/academic/internal/database"
	"terminal-terrace/academic/internal/logger"
	"terminal-terrace/academic/internal/route"
	"terminal-terrace/academic/internal/token"
)

func main() {
	// 1. 加载配置
	config.MustLoad("config.yaml")
	conf := config.Conf

	log := logger.New(conf.Log.Env, conf.Log.Level)
	logger.Set(log)
	defer func() { _ = log.Sync() }()

	// 2. 初始化数据库
	if err := database.InitDatabase(); err != nil {
		log.Fatal("数据库初始化失败", zap.Error(err))
	}
	defer database.Close()

	// 3. 令牌存储
	var store token.Store = token.NewDBStore(database.DB)
	if conf.Auth.TokenStore == config.TokenStoreRedis {
		store = token.NewRedisStore(database.Redis)
	}
	issuer := token.NewIssuer(conf.JWT.Secret, time.Duration(conf.JWT.ExpireTime)*time.Hour, store)

	// 4. 设置路由
	if conf.Server.Mode != "" {
		gin.SetMode(conf.Server.Mode)
	}
	r := route.SetupRouter(route.Options{
		DB:          database.DB,
		Issuer:      issuer,
		Logger:      log,
		FrontendURL: conf.Server.FrontendURL,
	})

	// 5. 启动服务
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port),
		Handler:      r,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("服务启动", zap.String("addr", srv.Addr), zap.String("token_store", conf.Auth.TokenStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("服务关闭失败", zap.Error(err))
	}
}
