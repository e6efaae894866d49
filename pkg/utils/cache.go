package utils

import (
	"sync"
	"time"

	"target_annotator_v1_202608/pkg/redcircle"
)

// ==================== 抓取结果缓存 ====================

// FetchCache 按 (API Key, TCIN) 记忆化抓取结果，进程内有效
// 使用 sync.Map 保证并发安全；存取都做深拷贝，
// 调用方改了拿到的数据不会污染缓存里的快照
type FetchCache struct {
	items sync.Map // key -> cacheItem
	ttl   time.Duration
}

// cacheItem 内部结构，包含快照和过期时间
type cacheItem struct {
	record     redcircle.Record
	expiration int64
}

func NewFetchCache(ttl time.Duration) *FetchCache {
	return &FetchCache{ttl: ttl}
}

// CacheKey 生成缓存键
func CacheKey(apiKey, tcin string) string {
	return apiKey + "|" + tcin
}

// Set 写入缓存快照
func (c *FetchCache) Set(key string, record redcircle.Record) {
	c.items.Store(key, cacheItem{
		record:     record.Clone(),
		expiration: time.Now().Add(c.ttl).Unix(),
	})
}

// Get 读取缓存并验证是否过期，返回的是快照副本
func (c *FetchCache) Get(key string) (redcircle.Record, bool) {
	val, ok := c.items.Load(key)
	if !ok {
		return nil, false
	}

	item := val.(cacheItem)

	// 懒删除
	if time.Now().Unix() > item.expiration {
		c.items.Delete(key)
		return nil, false
	}

	return item.record.Clone(), true
}

// Delete 删除缓存
func (c *FetchCache) Delete(key string) {
	c.items.Delete(key)
}

// Sweep 清理所有已过期条目，返回清理数量（定时任务调用）
func (c *FetchCache) Sweep() int {
	now := time.Now().Unix()
	removed := 0
	c.items.Range(func(key, val interface{}) bool {
		if now > val.(cacheItem).expiration {
			c.items.Delete(key)
			removed++
		}
		return true
	})
	return removed
}
