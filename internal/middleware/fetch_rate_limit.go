package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== FetchRateLimiter 抓取限流器 ====================

// FetchRateLimiter 抓取冷却限流器
// 防止用户频繁点抓取把 RedCircle 的配额打爆
type FetchRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行，允许时顺带更新最后执行时间
func (r *FetchRateLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset 重置指定 key 的冷却
func (r *FetchRateLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Gin 中间件 ====================

// FetchCooldown 抓取接口冷却中间件，按会话维度限流
// interval <= 0 时直接放行（测试/本地联调用）
func FetchCooldown(interval time.Duration) gin.HandlerFunc {
	limiter := &FetchRateLimiter{}

	return func(c *gin.Context) {
		if interval <= 0 {
			c.Next()
			return
		}

		result := limiter.Check("session:"+c.Param("id")+":fetch", interval)
		if !result.Allowed {
			wait := int(math.Ceil(result.RetryAfter.Seconds()))
			c.AbortWithStatusJSON(429, gin.H{
				"code":    429,
				"message": fmt.Sprintf("操作过于频繁，请 %d 秒后重试", wait),
			})
			return
		}

		c.Next()
	}
}
