package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"target_annotator_v1_202608/internal/service"
	"target_annotator_v1_202608/pkg/utils"
)

// ==================== 清理任务 ====================

// CleanupTask 定时清理：过期的抓取缓存条目 + 长时间不活动的会话
type CleanupTask struct {
	Cache    *utils.FetchCache
	Sessions *service.SessionService
	Cron     *cron.Cron

	sessionTTL time.Duration
}

func NewCleanupTask(cache *utils.FetchCache, sessions *service.SessionService, sessionTTL time.Duration) *CleanupTask {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &CleanupTask{
		Cache:      cache,
		Sessions:   sessions,
		Cron:       cron.New(cron.WithSeconds()), // 支持秒级控制
		sessionTTL: sessionTTL,
	}
}

// Start 启动定时任务
func (t *CleanupTask) Start() {
	// 每 10 分钟扫一轮
	_, err := t.Cron.AddFunc("0 */10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.sweepJob(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动清理定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("[Task] 清理任务已启动 (每10分钟一次)")
}

// Stop 停机时停表
func (t *CleanupTask) Stop() {
	t.Cron.Stop()
}

func (t *CleanupTask) sweepJob(ctx context.Context) {
	swept := t.Cache.Sweep()
	if swept > 0 {
		log.Printf("[Cron] 清理过期缓存条目: %d", swept)
	}

	removed, err := t.Sessions.CleanupStale(ctx, t.sessionTTL)
	if err != nil {
		log.Printf("[Cron] 清理不活动会话失败: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[Cron] 清理不活动会话: %d", removed)
	}
}
