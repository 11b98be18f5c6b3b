package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/user/moviedash/internal/analytics"
	"github.com/user/moviedash/internal/config"
	"github.com/user/moviedash/internal/service"
	"github.com/user/moviedash/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Config    *config.Config
	Dashboard *service.DashboardService
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, dashboard *service.DashboardService) *Handler {
	return &Handler{
		Config:    cfg,
		Dashboard: dashboard,
	}
}

// respond 快照读取失败时照常返回（空）结果，success=false 并带上错误信息
func (h *Handler) respond(c *gin.Context, snap *analytics.Snapshot, data interface{}) {
	if err := snap.Err(); err != nil {
		utils.Degraded(c, err.Error(), data)
		return
	}
	utils.Success(c, data)
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	snap := h.Dashboard.Snapshot(c.Request.Context())
	status := "ok"
	message := ""
	if err := snap.Err(); err != nil {
		status = "degraded"
		message = err.Error()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"message":   message,
		"movies":    snap.Len(),
		"loaded_at": snap.LoadedAt(),
	})
}

// Movies 全部影片，可选 since_year
func (h *Handler) Movies(c *gin.Context) {
	var q SinceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "无效的查询参数")
		return
	}

	snap := h.Dashboard.Snapshot(c.Request.Context())
	movies := snap.Movies()
	if q.SinceYear > 0 {
		movies = analytics.SinceYear(movies, q.SinceYear)
	}
	h.respond(c, snap, movies)
}

// SearchMovies 按标题搜索
func (h *Handler) SearchMovies(c *gin.Context) {
	var q TitleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "请输入搜索标题")
		return
	}

	snap := h.Dashboard.Snapshot(c.Request.Context())
	h.respond(c, snap, analytics.FilterTitle(snap.Movies(), q.Title))
}

// Providers 平台白名单与可选平台
func (h *Handler) Providers(c *gin.Context) {
	utils.Success(c, gin.H{
		"allow_list": h.Dashboard.ProviderAllowList(),
		"options":    h.Dashboard.ProviderOptions(),
	})
}

// Genres 快照中出现过的类型名称（按名称排序）
func (h *Handler) Genres(c *gin.Context) {
	snap := h.Dashboard.Snapshot(c.Request.Context())
	dist := analytics.GenreDistribution(snap.Movies())
	names := make([]string, 0, len(dist))
	for _, d := range dist {
		names = append(names, d.Key)
	}
	sort.Strings(names)
	h.respond(c, snap, names)
}
