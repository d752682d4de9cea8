package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/cinelist/internal/config"
	"github.com/user/cinelist/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// InitDB 按配置初始化数据库连接并迁移表结构
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if cfg.DBDriver == "sqlite" {
		dsn = cfg.SQLitePath
	}
	db, err := Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open 打开数据库连接，driver 为 postgres 或 sqlite
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		// 使用纯 Go 的 modernc 驱动，无需 CGO
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dialector = sqlite.Dialector{DriverName: "sqlite", DSN: dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"}
	case "postgres", "":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	if driver == "sqlite" {
		// sqlite 单写者，串行化连接避免 SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// Migrate 自动迁移表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Counter{},
		&model.User{},
		&model.Profile{},
		&model.Content{},
		&model.WatchlistEntry{},
		&model.Review{},
		&model.LogEntry{},
	)
}

// Repositories 仓库集合
type Repositories struct {
	DB        *gorm.DB
	Counter   *CounterRepository
	User      *UserRepository
	Profile   *ProfileRepository
	Content   *ContentRepository
	Watchlist *WatchlistRepository
	Review    *ReviewRepository
	Log       *LogRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	counter := NewCounterRepository(db)
	return &Repositories{
		DB:        db,
		Counter:   counter,
		User:      NewUserRepository(db, counter),
		Profile:   NewProfileRepository(db, counter),
		Content:   NewContentRepository(db),
		Watchlist: NewWatchlistRepository(db),
		Review:    NewReviewRepository(db),
		Log:       NewLogRepository(db),
	}
}
