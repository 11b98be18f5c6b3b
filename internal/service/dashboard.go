package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/moviedash/internal/analytics"
	"github.com/user/moviedash/internal/config"
	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/utils"
	"golang.org/x/sync/singleflight"
)

const (
	snapshotKey = "movies"
	// 单次全表读取的上限，与发起请求的连接是否断开无关
	loadTimeout = 30 * time.Second
)

// MovieLoader 全表读取
type MovieLoader interface {
	FindAll(ctx context.Context) ([]model.Movie, error)
}

// DashboardService 读侧服务：缓存全表快照，供聚合接口使用
type DashboardService struct {
	loader    MovieLoader
	snapshots *cache.Cache
	filters   *utils.QueryCache[[]model.Movie]
	sf        singleflight.Group
	allowList []string
	options   []string
	now       func() time.Time
}

// NewDashboardService 创建读侧服务
func NewDashboardService(loader MovieLoader, cfg *config.Config) *DashboardService {
	return &DashboardService{
		loader:    loader,
		snapshots: utils.NewTTLCache(cfg.SnapshotTTL),
		filters:   utils.NewQueryCache[[]model.Movie](500, cfg.SnapshotTTL),
		allowList: cfg.ProviderAllowList,
		options:   cfg.ProviderOptions,
		now:       time.Now,
	}
}

// WithClock 替换时钟，测试用
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Now 当前时间（picks 计算用）
func (s *DashboardService) Now() time.Time {
	return s.now()
}

// ProviderAllowList 统计市场份额的平台白名单
func (s *DashboardService) ProviderAllowList() []string {
	return append([]string(nil), s.allowList...)
}

// ProviderOptions 可供筛选的平台
func (s *DashboardService) ProviderOptions() []string {
	return append([]string(nil), s.options...)
}

// Snapshot 返回缓存的快照，过期后重新读取；读取失败返回带错误的空快照且不缓存
func (s *DashboardService) Snapshot(ctx context.Context) *analytics.Snapshot {
	if v, ok := s.snapshots.Get(snapshotKey); ok {
		return v.(*analytics.Snapshot)
	}

	val, err, _ := s.sf.Do(snapshotKey, func() (interface{}, error) {
		if v, ok := s.snapshots.Get(snapshotKey); ok {
			return v, nil
		}
		// 多个请求共享这次读取，不能随第一个请求取消
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		movies, err := s.loader.FindAll(loadCtx)
		if err != nil {
			return nil, err
		}
		snap := analytics.NewSnapshot(movies, s.now())
		s.snapshots.SetDefault(snapshotKey, snap)
		log.Printf("[Dashboard] 已加载 %d 部影片", snap.Len())
		return snap, nil
	})
	if err != nil {
		log.Printf("[Dashboard] 读取影片失败: %v", err)
		return analytics.EmptySnapshot(fmt.Errorf("读取影片失败: %w", err), s.now())
	}
	return val.(*analytics.Snapshot)
}

// Filter 组合筛选，结果按快照加载时间和条件缓存
func (s *DashboardService) Filter(ctx context.Context, criteria analytics.Criteria) ([]model.Movie, error) {
	snap := s.Snapshot(ctx)
	if snap.Err() != nil {
		return []model.Movie{}, snap.Err()
	}

	key := fmt.Sprintf("%d|%s", snap.LoadedAt().UnixNano(), criteria.Key())
	if movies, ok := s.filters.Get(key); ok {
		return movies, nil
	}
	movies := analytics.Filter(snap.Movies(), criteria)
	s.filters.Set(key, movies)
	return movies, nil
}

// Invalidate 清空快照和筛选缓存
func (s *DashboardService) Invalidate() {
	s.snapshots.Delete(snapshotKey)
	s.filters.Purge()
}
