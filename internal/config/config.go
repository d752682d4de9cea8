package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	Port        string
	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	SessionMaxAge time.Duration
	JWTExpiry     time.Duration

	TMDBToken       string
	TMDBBaseURL     string
	TMDBLanguage    string
	TMDBRatePerSec  float64
	TMDBTimeout     time.Duration
	TMDBCacheTTL    time.Duration
	TMDBBreakerTrip uint32

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins      []string
	AdminEmails      []string
	ReviewVisibility string
}

const defaultSecret = "your-secret-key-change-in-production"

// EnvProduction 规范化后的生产环境名，APP_ENV=prod 也会归一到这里
const EnvProduction = "production"

// DefaultCORSOrigins 未配置或配置为空时允许的前端来源
var DefaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:3001"}

// 评论可见性范围
const (
	VisibilityProfile = "profile" // 私密评论仅对撰写它的档案可见
	VisibilityAccount = "account" // 私密评论对同一账号下所有档案可见
)

// Load 加载配置
func Load() *Config {
	sessionHours, _ := strconv.Atoi(getEnv("SESSION_MAX_AGE_HOURS", "24"))
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))
	ratePerSec, _ := strconv.ParseFloat(getEnv("TMDB_RATE_PER_SEC", "20"), 64)
	timeoutSec, _ := strconv.Atoi(getEnv("TMDB_TIMEOUT_SECONDS", "10"))
	cacheMinutes, _ := strconv.Atoi(getEnv("TMDB_CACHE_MINUTES", "30"))
	breakerTrip, _ := strconv.Atoi(getEnv("TMDB_BREAKER_FAILURES", "5"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "cinelist")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := getEnv("DATABASE_URL", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL))

	env := normalizeEnv(getEnv("APP_ENV", "development"))
	appSecret := getEnv("APP_SECRET", defaultSecret)
	if env == EnvProduction && appSecret == defaultSecret {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	corsOrigins := splitList(getEnv("CORS_ORIGINS", ""))
	if len(corsOrigins) == 0 {
		corsOrigins = append([]string(nil), DefaultCORSOrigins...)
	}

	visibility := strings.ToLower(getEnv("REVIEW_VISIBILITY", VisibilityProfile))
	if visibility != VisibilityAccount {
		visibility = VisibilityProfile
	}

	return &Config{
		Env:              env,
		AppSecret:        appSecret,
		Port:             getEnv("PORT", "5001"),
		DBDriver:         getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:      dbURL,
		SQLitePath:       getEnv("SQLITE_PATH", "cinelist.db"),
		SessionMaxAge:    time.Duration(sessionHours) * time.Hour,
		JWTExpiry:        time.Duration(expiryHours) * time.Hour,
		TMDBToken:        getEnv("TMDB_TOKEN", ""),
		TMDBBaseURL:      strings.TrimRight(getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
		TMDBLanguage:     getEnv("TMDB_LANGUAGE", "en-US"),
		TMDBRatePerSec:   ratePerSec,
		TMDBTimeout:      time.Duration(timeoutSec) * time.Second,
		TMDBCacheTTL:     time.Duration(cacheMinutes) * time.Minute,
		TMDBBreakerTrip:  uint32(breakerTrip),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          redisDB,
		CORSOrigins:      corsOrigins,
		AdminEmails:      splitList(strings.ToLower(getEnv("ADMIN_EMAILS", ""))),
		ReviewVisibility: visibility,
	}
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return IsProductionEnv(c.Env)
}

// IsProductionEnv 与日志模式使用同一套判断：prod 和 production 均视为生产环境
func IsProductionEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", EnvProduction:
		return true
	}
	return false
}

func normalizeEnv(env string) string {
	if IsProductionEnv(env) {
		return EnvProduction
	}
	return strings.ToLower(strings.TrimSpace(env))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
