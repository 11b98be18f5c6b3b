package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/user/moviedash/internal/model"
)

// 人气区间可用的指标
const (
	MetricVoteCount   = "vote_count"
	MetricVoteAverage = "vote_average"
)

// Range 人气区间（闭区间）
type Range struct {
	Metric string
	Min    float64
	Max    float64
}

// Criteria 组合筛选条件，各条件之间为 AND；列表为空、年份为 0、Popularity 为 nil 表示不限
type Criteria struct {
	Providers  []string
	Genres     []string
	YearFrom   int
	YearTo     int
	Popularity *Range
}

// Key 规范化后的条件字符串，用作缓存键
func (c Criteria) Key() string {
	providers := append([]string(nil), c.Providers...)
	genres := append([]string(nil), c.Genres...)
	sort.Strings(providers)
	sort.Strings(genres)

	key := fmt.Sprintf("p=%s|g=%s|y=%d-%d", strings.Join(providers, ","), strings.Join(genres, ","), c.YearFrom, c.YearTo)
	if c.Popularity != nil {
		key += fmt.Sprintf("|%s=%g-%g", c.Popularity.Metric, c.Popularity.Min, c.Popularity.Max)
	}
	return key
}

// FilterTitle 标题包含 query（不区分大小写）；标题为空的影片永远不匹配
func FilterTitle(movies []model.Movie, query string) []model.Movie {
	q := strings.ToLower(strings.TrimSpace(query))
	res := []model.Movie{}
	for _, m := range movies {
		if m.Title == "" {
			continue
		}
		if strings.Contains(strings.ToLower(m.Title), q) {
			res = append(res, m)
		}
	}
	return res
}

// Filter 组合筛选
func Filter(movies []model.Movie, c Criteria) []model.Movie {
	res := []model.Movie{}
	for _, m := range movies {
		if matches(m, c) {
			res = append(res, m)
		}
	}
	return res
}

func matches(m model.Movie, c Criteria) bool {
	if len(c.Providers) > 0 && !anyOf(c.Providers, m.HasProvider) {
		return false
	}
	if len(c.Genres) > 0 && !anyOf(c.Genres, m.HasGenre) {
		return false
	}
	if c.YearFrom > 0 || c.YearTo > 0 {
		y, ok := m.ReleaseYear()
		if !ok {
			return false
		}
		if c.YearFrom > 0 && y < c.YearFrom {
			return false
		}
		if c.YearTo > 0 && y > c.YearTo {
			return false
		}
	}
	if c.Popularity != nil {
		var v float64
		switch c.Popularity.Metric {
		case MetricVoteAverage:
			v = m.VoteAverage
		default:
			v = float64(m.VoteCount)
		}
		if v < c.Popularity.Min || v > c.Popularity.Max {
			return false
		}
	}
	return true
}

func anyOf(values []string, has func(string) bool) bool {
	for _, v := range values {
		if has(v) {
			return true
		}
	}
	return false
}

// FilterByYears 上映年份在 years 中
func FilterByYears(movies []model.Movie, years []int) []model.Movie {
	set := make(map[int]bool, len(years))
	for _, y := range years {
		set[y] = true
	}
	return filterBy(movies, len(years) == 0, func(m model.Movie) bool {
		y, ok := m.ReleaseYear()
		return ok && set[y]
	})
}

// FilterByMonths 上映月份（1-12）在 months 中
func FilterByMonths(movies []model.Movie, months []int) []model.Movie {
	set := make(map[int]bool, len(months))
	for _, mo := range months {
		set[mo] = true
	}
	return filterBy(movies, len(months) == 0, func(m model.Movie) bool {
		mo, ok := m.ReleaseMonth()
		return ok && set[mo]
	})
}

// FilterBySeasons 上映季节在 seasons 中
func FilterBySeasons(movies []model.Movie, seasons []string) []model.Movie {
	set := toSet(seasons)
	return filterBy(movies, len(seasons) == 0, func(m model.Movie) bool {
		s, ok := movieSeason(m)
		return ok && set[s]
	})
}

// SinceYear 上映年份 >= year 的影片
func SinceYear(movies []model.Movie, year int) []model.Movie {
	return filterBy(movies, false, func(m model.Movie) bool {
		y, ok := m.ReleaseYear()
		return ok && y >= year
	})
}

// filterBy all 为 true 时返回全部影片的副本
func filterBy(movies []model.Movie, all bool, keep func(model.Movie) bool) []model.Movie {
	res := []model.Movie{}
	for _, m := range movies {
		if all || keep(m) {
			res = append(res, m)
		}
	}
	return res
}
