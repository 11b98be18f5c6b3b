package handler

import (
	"errors"
	"math"
	"strings"

	"github.com/user/moviedash/internal/analytics"
)

// SinceQuery 可选起始年份
type SinceQuery struct {
	SinceYear int `form:"since_year" binding:"omitempty,gte=1800,lte=3000"`
}

// TitleQuery 标题搜索
type TitleQuery struct {
	Title string `form:"title" binding:"required,max=255"`
}

// LimitQuery 条数限制
type LimitQuery struct {
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

// FilterQuery 组合筛选参数；列表参数可重复传，也可逗号分隔
type FilterQuery struct {
	Providers []string `form:"providers"`
	Genres    []string `form:"genres"`
	YearFrom  int      `form:"year_from" binding:"omitempty,gte=1800,lte=3000"`
	YearTo    int      `form:"year_to" binding:"omitempty,gte=1800,lte=3000"`
	Metric    string   `form:"metric" binding:"omitempty,oneof=vote_count vote_average"`
	Min       *float64 `form:"min" binding:"omitempty,gte=0"`
	Max       *float64 `form:"max" binding:"omitempty,gte=0"`
}

// Criteria 转换为筛选条件
func (q FilterQuery) Criteria() (analytics.Criteria, error) {
	if q.YearFrom > 0 && q.YearTo > 0 && q.YearFrom > q.YearTo {
		return analytics.Criteria{}, errors.New("year_from 不能大于 year_to")
	}

	c := analytics.Criteria{
		Providers: splitList(q.Providers),
		Genres:    splitList(q.Genres),
		YearFrom:  q.YearFrom,
		YearTo:    q.YearTo,
	}
	if q.Min != nil || q.Max != nil {
		r := &analytics.Range{Metric: q.Metric, Min: 0, Max: math.Inf(1)}
		if r.Metric == "" {
			r.Metric = analytics.MetricVoteCount
		}
		if q.Min != nil {
			r.Min = *q.Min
		}
		if q.Max != nil {
			r.Max = *q.Max
		}
		if r.Min > r.Max {
			return analytics.Criteria{}, errors.New("min 不能大于 max")
		}
		c.Popularity = r
	}
	return c, nil
}

// PeriodQuery 月份 / 季节 / 年份筛选
type PeriodQuery struct {
	Months    []int    `form:"months" binding:"omitempty,dive,gte=1,lte=12"`
	Seasons   []string `form:"seasons" binding:"omitempty,dive,oneof=Winter Spring Summer Autumn"`
	Years     []int    `form:"years" binding:"omitempty,dive,gte=1800,lte=3000"`
	SinceYear int      `form:"since_year" binding:"omitempty,gte=1800,lte=3000"`
}

// StatsQuery 年份统计参数
type StatsQuery struct {
	Providers []string `form:"providers"`
	SinceYear int      `form:"since_year" binding:"omitempty,gte=1800,lte=3000"`
}

// splitList 拆分逗号分隔的值并去掉空项
func splitList(values []string) []string {
	res := []string{}
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				res = append(res, s)
			}
		}
	}
	return res
}
