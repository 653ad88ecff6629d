package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// localCache 基于 LRU 的本地缓存实现
type localCache struct {
	config LocalConfig
	lru    *lru.LRU[string, *localItem]
	mu     sync.Mutex
}

type localItem struct {
	value      interface{}
	expiration time.Time // 零值表示跟随 LRU 的默认 TTL
}

// NewLocalCache 创建本地缓存
func NewLocalCache(config LocalConfig) Cache {
	size := config.MaxSize
	if size <= 0 {
		size = 1000
	}
	return &localCache{
		config: config,
		lru:    lru.NewLRU[string, *localItem](size, nil, config.DefaultExpiration),
	}
}

// Get 获取缓存值
func (lc *localCache) Get(ctx context.Context, key string) (interface{}, bool) {
	item, ok := lc.lru.Get(key)
	if !ok {
		return nil, false
	}
	if !item.expiration.IsZero() && time.Now().After(item.expiration) {
		lc.mu.Lock()
		lc.lru.Remove(key)
		lc.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

// Set 设置缓存值
func (lc *localCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var exp time.Time
	if expiration > 0 {
		exp = time.Now().Add(expiration)
	}
	lc.mu.Lock()
	lc.lru.Add(key, &localItem{value: value, expiration: exp})
	lc.mu.Unlock()
	return nil
}

// Delete 删除缓存
func (lc *localCache) Delete(ctx context.Context, key string) error {
	lc.mu.Lock()
	lc.lru.Remove(key)
	lc.mu.Unlock()
	return nil
}

// Exists 检查键是否存在
func (lc *localCache) Exists(ctx context.Context, key string) bool {
	_, ok := lc.Get(ctx, key)
	return ok
}

// Clear 清空所有缓存
func (lc *localCache) Clear(ctx context.Context) error {
	lc.mu.Lock()
	lc.lru.Purge()
	lc.mu.Unlock()
	return nil
}

// GetWithTTL 获取值并返回剩余TTL
func (lc *localCache) GetWithTTL(ctx context.Context, key string) (interface{}, time.Duration, bool) {
	item, ok := lc.lru.Get(key)
	if !ok {
		return nil, 0, false
	}
	if item.expiration.IsZero() {
		return item.value, lc.config.DefaultExpiration, true
	}
	ttl := time.Until(item.expiration)
	if ttl <= 0 {
		lc.mu.Lock()
		lc.lru.Remove(key)
		lc.mu.Unlock()
		return nil, 0, false
	}
	return item.value, ttl, true
}

// Close 关闭缓存连接
func (lc *localCache) Close() error {
	// 本地缓存无连接可关
	return nil
}
