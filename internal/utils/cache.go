package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// Cache 全局缓存实例
var Cache *cache.Cache

// InitCache 初始化缓存
func InitCache() {
	// 默认过期时间5分钟，清理间隔10分钟
	Cache = cache.New(5*time.Minute, 10*time.Minute)
}

// CacheGet 获取缓存值，缓存未初始化时视为未命中
func CacheGet(key string) (interface{}, bool) {
	if Cache == nil {
		return nil, false
	}
	return Cache.Get(key)
}

// CacheSet 设置缓存值
func CacheSet(key string, value interface{}, duration time.Duration) {
	if Cache == nil {
		return
	}
	Cache.Set(key, value, duration)
}

type lruEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// LRUCache 带过期时间的定长 LRU 缓存
type LRUCache[T any] struct {
	storage *lru.Cache[string, lruEntry[T]]
	ttl     time.Duration
}

// NewLRUCache size 为最大条数，ttl 为单条有效期
func NewLRUCache[T any](size int, ttl time.Duration) *LRUCache[T] {
	c, _ := lru.New[string, lruEntry[T]](size)
	return &LRUCache[T]{storage: c, ttl: ttl}
}

// Set 写入或覆盖
func (c *LRUCache[T]) Set(key string, value T) {
	c.storage.Add(key, lruEntry[T]{value: value, expiresAt: time.Now().Add(c.ttl)})
}

// Get 读取，过期条目视为未命中并移除
func (c *LRUCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if time.Now().After(item.expiresAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return item.value, true
}

// Len 当前条数
func (c *LRUCache[T]) Len() int {
	return c.storage.Len()
}
