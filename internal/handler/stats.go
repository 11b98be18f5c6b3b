package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moviedash/internal/analytics"
	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/utils"
)

// DefaultSinceYear 统计页默认只看该年份之后的影片
const DefaultSinceYear = 2010

func sinceOrDefault(year int) int {
	if year > 0 {
		return year
	}
	return DefaultSinceYear
}

// YearStats 每年上映数量，按平台、类型拆分
func (h *Handler) YearStats(c *gin.Context) {
	var q StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "无效的查询参数")
		return
	}
	providers := splitList(q.Providers)
	if len(providers) == 0 {
		providers = h.Dashboard.ProviderAllowList()
	}

	snap := h.Dashboard.Snapshot(c.Request.Context())
	movies := analytics.SinceYear(snap.Movies(), sinceOrDefault(q.SinceYear))
	h.respond(c, snap, gin.H{
		"counts":      analytics.CountByYear(movies),
		"by_provider": analytics.CountByYearAndProvider(movies, providers),
		"by_genre":    analytics.CountByYearAndGenre(movies),
	})
}

// TopPerYear 每年投票数最高的影片
func (h *Handler) TopPerYear(c *gin.Context) {
	var q SinceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "无效的查询参数")
		return
	}

	snap := h.Dashboard.Snapshot(c.Request.Context())
	movies := analytics.SinceYear(snap.Movies(), sinceOrDefault(q.SinceYear))
	h.respond(c, snap, analytics.MostPopularPerYear(movies))
}

// MonthStats 按月份统计数量、类型与平均评分
func (h *Handler) MonthStats(c *gin.Context) {
	movies, snap, ok := h.period(c)
	if !ok {
		return
	}
	h.respond(c, snap, gin.H{
		"counts":         analytics.CountByMonth(movies),
		"by_genre":       analytics.CountByMonthAndGenre(movies),
		"average_rating": analytics.AverageRatingByMonth(movies),
	})
}

// SeasonStats 按季节统计数量、类型与平均评分
func (h *Handler) SeasonStats(c *gin.Context) {
	movies, snap, ok := h.period(c)
	if !ok {
		return
	}
	h.respond(c, snap, gin.H{
		"counts":         analytics.CountBySeason(movies),
		"by_genre":       analytics.CountBySeasonAndGenre(movies),
		"average_rating": analytics.AverageRatingBySeason(movies),
	})
}

func (h *Handler) period(c *gin.Context) ([]model.Movie, *analytics.Snapshot, bool) {
	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "无效的筛选参数")
		return nil, nil, false
	}

	snap := h.Dashboard.Snapshot(c.Request.Context())
	movies := analytics.SinceYear(snap.Movies(), sinceOrDefault(q.SinceYear))
	movies = analytics.FilterByYears(movies, q.Years)
	movies = analytics.FilterByMonths(movies, q.Months)
	movies = analytics.FilterBySeasons(movies, q.Seasons)
	return movies, snap, true
}
