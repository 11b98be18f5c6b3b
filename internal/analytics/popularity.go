package analytics

import (
	"sort"

	"github.com/user/moviedash/internal/model"
)

// ExplodeProviders 每个（影片, 平台）一行，影片其余字段原样保留
func ExplodeProviders(movies []model.Movie) []model.ProviderMovie {
	res := []model.ProviderMovie{}
	for _, m := range movies {
		for _, p := range m.Providers {
			res = append(res, model.ProviderMovie{Provider: p, Movie: m})
		}
	}
	return res
}

// ExplodeGenres 每个（影片, 类型）一行，未知类型跳过
func ExplodeGenres(movies []model.Movie) []model.GenreMovie {
	res := []model.GenreMovie{}
	for _, m := range movies {
		for _, g := range m.GenreNames() {
			res = append(res, model.GenreMovie{Genre: g, Movie: m})
		}
	}
	return res
}

// MostPopularPerYear 每个年份 vote_count 最高的一部，并列时取先出现的；按年份升序
func MostPopularPerYear(movies []model.Movie) []model.YearPick {
	best := map[int]int{}
	for i, m := range movies {
		y, ok := m.ReleaseYear()
		if !ok {
			continue
		}
		if j, seen := best[y]; !seen || m.VoteCount > movies[j].VoteCount {
			best[y] = i
		}
	}

	res := make([]model.YearPick, 0, len(best))
	for y, i := range best {
		res = append(res, model.YearPick{Year: y, Movie: movies[i]})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Year < res[j].Year
	})
	return res
}

// ProviderMarketShare 白名单内各平台的（影片, 平台）数量，数量降序
func ProviderMarketShare(movies []model.Movie, allow []string) []model.Count {
	allowed := toSet(allow)
	counts := map[string]int{}
	for _, pm := range ExplodeProviders(movies) {
		if allowed[pm.Provider] {
			counts[pm.Provider]++
		}
	}
	return sortedByCount(counts)
}

// MostPopularPerProvider 各平台 vote_count 最高的影片；allow 为空表示不限平台，结果按平台名排序
func MostPopularPerProvider(movies []model.Movie, allow []string) []model.ProviderMovie {
	allowed := toSet(allow)
	pairs := ExplodeProviders(movies)
	best := map[string]int{}
	for i, pm := range pairs {
		if len(allowed) > 0 && !allowed[pm.Provider] {
			continue
		}
		if j, seen := best[pm.Provider]; !seen || pm.Movie.VoteCount > pairs[j].Movie.VoteCount {
			best[pm.Provider] = i
		}
	}

	res := make([]model.ProviderMovie, 0, len(best))
	for _, i := range best {
		res = append(res, pairs[i])
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Provider < res[j].Provider
	})
	return res
}

// ProviderPopularityCounts 各平台拥有的"平台最热门影片"数量
func ProviderPopularityCounts(movies []model.Movie, allow []string) []model.Count {
	counts := map[string]int{}
	for _, pm := range MostPopularPerProvider(movies, allow) {
		counts[pm.Provider]++
	}
	return sortedByCount(counts)
}
