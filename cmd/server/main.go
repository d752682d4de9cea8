package main

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/user/cinelist/internal/config"
	"github.com/user/cinelist/internal/handler"
	"github.com/user/cinelist/internal/logger"
	"github.com/user/cinelist/internal/middleware"
	"github.com/user/cinelist/internal/model"
	"github.com/user/cinelist/internal/repository"
	"github.com/user/cinelist/internal/router"
	"github.com/user/cinelist/internal/service"
	"github.com/user/cinelist/internal/utils"
)

func main() {
	// 注册 Session 模型
	gob.Register(model.SessionUser{})

	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "日志初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	if envErr != nil {
		log.Info("未找到 .env 文件，使用系统环境变量")
	}

	// 初始化数据库
	db, err := repository.InitDB(cfg)
	if err != nil {
		log.Fatal("数据库连接失败", "driver", cfg.DBDriver, "error", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 初始化仓库
	repos := repository.NewRepositories(db)

	// 初始化缓存
	utils.InitCache()
	rdb := newRedis(cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	provider := service.NewTMDBService(cfg, rdb, log)
	if cfg.TMDBToken == "" {
		log.Warn("TMDB_TOKEN 未设置，元数据请求将会失败")
	}

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// 中间件
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.Security())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// 设置 Session 中间件，会话数据保存在数据库中，Cookie 只携带 ID
	store := gormsessions.NewStore(db, true, []byte(cfg.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("cinelist_session", store))

	// 初始化 Handler
	h := handler.NewHandler(repos, provider, cfg, log)

	// 注册路由
	router.RegisterRoutes(r, h, repos.User)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Info("服务器启动", "addr", "http://localhost:"+cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务器启动失败", "error", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("服务器强制关闭", "error", err)
		return
	}

	log.Info("服务器已退出")
}

// newRedis 未配置或连接失败时返回 nil，详情缓存随之关闭
func newRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis 不可用，跳过详情缓存", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
