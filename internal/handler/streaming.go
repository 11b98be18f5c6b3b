package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moviedash/internal/analytics"
	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/utils"
)

// filtered 绑定筛选参数并返回结果；参数错误时已写入 400，ok 为 false
func (h *Handler) filtered(c *gin.Context) ([]model.Movie, bool, error) {
	var q FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "无效的筛选参数")
		return nil, false, nil
	}
	criteria, err := q.Criteria()
	if err != nil {
		utils.BadRequest(c, err.Error())
		return nil, false, nil
	}

	movies, err := h.Dashboard.Filter(c.Request.Context(), criteria)
	return movies, true, err
}

func (h *Handler) respondFiltered(c *gin.Context, err error, data interface{}) {
	if err != nil {
		utils.Degraded(c, err.Error(), data)
		return
	}
	utils.Success(c, data)
}

// StreamingFilter 按平台、类型、年份、人气组合筛选
func (h *Handler) StreamingFilter(c *gin.Context) {
	movies, ok, err := h.filtered(c)
	if !ok {
		return
	}
	h.respondFiltered(c, err, movies)
}

// MarketShare 白名单平台的影片数量占比
func (h *Handler) MarketShare(c *gin.Context) {
	movies, ok, err := h.filtered(c)
	if !ok {
		return
	}
	h.respondFiltered(c, err, analytics.ProviderMarketShare(movies, h.Dashboard.ProviderAllowList()))
}

// TopByProvider 各平台投票数最高的影片
func (h *Handler) TopByProvider(c *gin.Context) {
	movies, ok, err := h.filtered(c)
	if !ok {
		return
	}
	h.respondFiltered(c, err, gin.H{
		"movies": analytics.MostPopularPerProvider(movies, nil),
		"counts": analytics.ProviderPopularityCounts(movies, nil),
	})
}
