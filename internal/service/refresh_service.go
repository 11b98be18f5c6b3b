package service

import (
	"context"
	"log"
	"time"
)

// SnapshotRefresher 定时刷新读侧快照
type SnapshotRefresher struct {
	dashboard *DashboardService
	interval  time.Duration
}

// NewSnapshotRefresher 创建刷新服务
func NewSnapshotRefresher(dashboard *DashboardService, interval time.Duration) *SnapshotRefresher {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SnapshotRefresher{dashboard: dashboard, interval: interval}
}

// Start 启动定时刷新，ctx 取消后停止
func (r *SnapshotRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)

	// 启动时先预热一次
	go r.refresh(ctx)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.refresh(ctx)
			}
		}
	}()
}

func (r *SnapshotRefresher) refresh(ctx context.Context) {
	r.dashboard.Invalidate()
	snap := r.dashboard.Snapshot(ctx)
	if snap.Err() != nil {
		log.Printf("[SnapshotRefresher] 刷新快照失败: %v", snap.Err())
		return
	}
	log.Printf("[SnapshotRefresher] 快照已刷新，共 %d 部影片", snap.Len())
}
