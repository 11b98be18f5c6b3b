package analytics

import (
	"sort"
	"strconv"

	"github.com/user/moviedash/internal/model"
)

// dimension 从影片取分组键及其排序值，ok 为 false 表示该影片不参与分组
type dimension func(m model.Movie) (key string, order int, ok bool)

func byYear(m model.Movie) (string, int, bool) {
	y, ok := m.ReleaseYear()
	return strconv.Itoa(y), y, ok
}

func byMonth(m model.Movie) (string, int, bool) {
	month, ok := m.ReleaseMonth()
	return MonthName(month), month, ok
}

func bySeason(m model.Movie) (string, int, bool) {
	s, ok := movieSeason(m)
	return s, seasonOrder(s), ok
}

// CountByYear 按上映年份计数，年份升序；无上映日期的影片不计入
func CountByYear(movies []model.Movie) []model.Count {
	return countBy(movies, byYear)
}

// CountByMonth 按上映月份计数，1 月到 12 月
func CountByMonth(movies []model.Movie) []model.Count {
	return countBy(movies, byMonth)
}

// CountBySeason 按季节计数，冬春夏秋
func CountBySeason(movies []model.Movie) []model.Count {
	return countBy(movies, bySeason)
}

// CountByYearAndProvider 年份 x 平台；allow 为空表示不限平台
func CountByYearAndProvider(movies []model.Movie, allow []string) []model.GroupCount {
	allowed := toSet(allow)
	return groupCountBy(movies, byYear, func(m model.Movie) []string {
		if len(allowed) == 0 {
			return m.Providers
		}
		res := make([]string, 0, len(m.Providers))
		for _, p := range m.Providers {
			if allowed[p] {
				res = append(res, p)
			}
		}
		return res
	})
}

// CountByYearAndGenre 年份 x 类型
func CountByYearAndGenre(movies []model.Movie) []model.GroupCount {
	return groupCountBy(movies, byYear, genresOf)
}

// CountByMonthAndGenre 月份 x 类型
func CountByMonthAndGenre(movies []model.Movie) []model.GroupCount {
	return groupCountBy(movies, byMonth, genresOf)
}

// CountBySeasonAndGenre 季节 x 类型
func CountBySeasonAndGenre(movies []model.Movie) []model.GroupCount {
	return groupCountBy(movies, bySeason, genresOf)
}

// AverageRatingByMonth 各月份 vote_average 均值
func AverageRatingByMonth(movies []model.Movie) []model.Average {
	return averageBy(movies, byMonth)
}

// AverageRatingBySeason 各季节 vote_average 均值
func AverageRatingBySeason(movies []model.Movie) []model.Average {
	return averageBy(movies, bySeason)
}

// GenreDistribution 类型分布，数量降序，同数量按名称
func GenreDistribution(movies []model.Movie) []model.Count {
	counts := map[string]int{}
	for _, m := range movies {
		for _, g := range genresOf(m) {
			counts[g]++
		}
	}
	return sortedByCount(counts)
}

func genresOf(m model.Movie) []string {
	return m.GenreNames()
}

func countBy(movies []model.Movie, dim dimension) []model.Count {
	counts := map[string]int{}
	orders := map[string]int{}
	for _, m := range movies {
		key, order, ok := dim(m)
		if !ok {
			continue
		}
		counts[key]++
		orders[key] = order
	}

	res := make([]model.Count, 0, len(counts))
	for k, c := range counts {
		res = append(res, model.Count{Key: k, Count: c})
	}
	sort.Slice(res, func(i, j int) bool {
		oi, oj := orders[res[i].Key], orders[res[j].Key]
		if oi != oj {
			return oi < oj
		}
		return res[i].Key < res[j].Key
	})
	return res
}

// groupCountBy 每部影片在同一分组内只计一次
func groupCountBy(movies []model.Movie, dim dimension, groups func(model.Movie) []string) []model.GroupCount {
	type pair struct{ key, group string }
	counts := map[pair]int{}
	orders := map[string]int{}
	for _, m := range movies {
		key, order, ok := dim(m)
		if !ok {
			continue
		}
		seen := map[string]bool{}
		for _, g := range groups(m) {
			if g == "" || seen[g] {
				continue
			}
			seen[g] = true
			counts[pair{key, g}]++
			orders[key] = order
		}
	}

	res := make([]model.GroupCount, 0, len(counts))
	for p, c := range counts {
		res = append(res, model.GroupCount{Key: p.key, Group: p.group, Count: c})
	}
	sort.Slice(res, func(i, j int) bool {
		oi, oj := orders[res[i].Key], orders[res[j].Key]
		if oi != oj {
			return oi < oj
		}
		if res[i].Key != res[j].Key {
			return res[i].Key < res[j].Key
		}
		return res[i].Group < res[j].Group
	})
	return res
}

func averageBy(movies []model.Movie, dim dimension) []model.Average {
	sums := map[string]float64{}
	counts := map[string]int{}
	orders := map[string]int{}
	for _, m := range movies {
		key, order, ok := dim(m)
		if !ok {
			continue
		}
		sums[key] += m.VoteAverage
		counts[key]++
		orders[key] = order
	}

	res := make([]model.Average, 0, len(sums))
	for k, s := range sums {
		res = append(res, model.Average{Key: k, Average: s / float64(counts[k])})
	}
	sort.Slice(res, func(i, j int) bool {
		oi, oj := orders[res[i].Key], orders[res[j].Key]
		if oi != oj {
			return oi < oj
		}
		return res[i].Key < res[j].Key
	})
	return res
}

func sortedByCount(counts map[string]int) []model.Count {
	res := make([]model.Count, 0, len(counts))
	for k, c := range counts {
		res = append(res, model.Count{Key: k, Count: c})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Key < res[j].Key
	})
	return res
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
