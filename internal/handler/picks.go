package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moviedash/internal/analytics"
	"github.com/user/moviedash/internal/utils"
)

// TodayPicks 今日上映（无则最近一部）
func (h *Handler) TodayPicks(c *gin.Context) {
	snap := h.Dashboard.Snapshot(c.Request.Context())
	h.respond(c, snap, analytics.TodayPicks(snap.Movies(), h.Dashboard.Now()))
}

// WeekPicks 上周上映，按投票数取前 N
func (h *Handler) WeekPicks(c *gin.Context) {
	var q LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "limit 须在 1-100 之间")
		return
	}

	now := h.Dashboard.Now()
	snap := h.Dashboard.Snapshot(c.Request.Context())
	start, end := analytics.LastWeekRange(now)
	h.respond(c, snap, gin.H{
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
		"movies": analytics.WeekPicks(snap.Movies(), now, q.Limit),
	})
}

// MonthPicks 本月上映
func (h *Handler) MonthPicks(c *gin.Context) {
	now := h.Dashboard.Now()
	snap := h.Dashboard.Snapshot(c.Request.Context())
	start, end := analytics.MonthRange(now)
	h.respond(c, snap, gin.H{
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
		"movies": analytics.MonthPicks(snap.Movies(), now),
	})
}

// WeekGenres 上周热门影片的类型分布
func (h *Handler) WeekGenres(c *gin.Context) {
	snap := h.Dashboard.Snapshot(c.Request.Context())
	picks := analytics.WeekPicks(snap.Movies(), h.Dashboard.Now(), 0)
	h.respond(c, snap, analytics.GenreDistribution(picks))
}

// MonthGenres 本月上映影片的类型分布
func (h *Handler) MonthGenres(c *gin.Context) {
	snap := h.Dashboard.Snapshot(c.Request.Context())
	picks := analytics.MonthPicks(snap.Movies(), h.Dashboard.Now())
	h.respond(c, snap, analytics.GenreDistribution(picks))
}
