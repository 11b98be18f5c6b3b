package router

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moviedash/internal/handler"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/movies", h.Movies)
		api.GET("/movies/search", h.SearchMovies)

		// 热门
		picks := api.Group("/picks")
		picks.GET("/today", h.TodayPicks)
		picks.GET("/week", h.WeekPicks)
		picks.GET("/week/genres", h.WeekGenres)
		picks.GET("/month", h.MonthPicks)
		picks.GET("/month/genres", h.MonthGenres)

		// 流媒体
		streaming := api.Group("/streaming")
		streaming.GET("/filter", h.StreamingFilter)
		streaming.GET("/market-share", h.MarketShare)
		streaming.GET("/top-by-provider", h.TopByProvider)

		// 趣味统计
		stats := api.Group("/stats")
		stats.GET("/years", h.YearStats)
		stats.GET("/top-per-year", h.TopPerYear)
		stats.GET("/months", h.MonthStats)
		stats.GET("/seasons", h.SeasonStats)

		meta := api.Group("/meta")
		meta.GET("/providers", h.Providers)
		meta.GET("/genres", h.Genres)
	}
}
