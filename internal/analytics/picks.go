package analytics

import (
	"sort"
	"time"

	"github.com/user/moviedash/internal/model"
)

// WeekPicksLimit 上周热门最多返回条数
const WeekPicksLimit = 10

// TodayPicks 今天上映的影片；没有则回退到今天之前最近上映的一部
func TodayPicks(movies []model.Movie, now time.Time) []model.Movie {
	today := dateOnly(now)
	res := []model.Movie{}
	for _, m := range movies {
		if m.ReleaseDate != nil && dateOnly(*m.ReleaseDate).Equal(today) {
			res = append(res, m)
		}
	}
	if len(res) > 0 {
		return res
	}

	latest := -1
	var latestDate time.Time
	for i, m := range movies {
		if m.ReleaseDate == nil {
			continue
		}
		d := dateOnly(*m.ReleaseDate)
		if !d.Before(today) {
			continue
		}
		if latest < 0 || d.After(latestDate) {
			latest, latestDate = i, d
		}
	}
	if latest >= 0 {
		res = append(res, movies[latest])
	}
	return res
}

// LastWeekRange 上一个完整的周一到周日（闭区间）
func LastWeekRange(now time.Time) (time.Time, time.Time) {
	today := dateOnly(now)
	weekday := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -(weekday + 7))
	return start, start.AddDate(0, 0, 6)
}

// MonthRange 当月第一天到最后一天（闭区间）
func MonthRange(now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// WeekPicks 上周上映的影片，按 vote_count 降序取前 limit 条（limit <= 0 时取默认值）
func WeekPicks(movies []model.Movie, now time.Time, limit int) []model.Movie {
	if limit <= 0 {
		limit = WeekPicksLimit
	}
	start, end := LastWeekRange(now)
	res := releasedBetween(movies, start, end)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].VoteCount > res[j].VoteCount
	})
	if len(res) > limit {
		res = res[:limit]
	}
	return res
}

// MonthPicks 本月上映的影片
func MonthPicks(movies []model.Movie, now time.Time) []model.Movie {
	start, end := MonthRange(now)
	return releasedBetween(movies, start, end)
}

func releasedBetween(movies []model.Movie, start, end time.Time) []model.Movie {
	res := []model.Movie{}
	for _, m := range movies {
		if m.ReleaseDate == nil {
			continue
		}
		d := dateOnly(*m.ReleaseDate)
		if !d.Before(start) && !d.After(end) {
			res = append(res, m)
		}
	}
	return res
}

// dateOnly 按 t 自身时区取日历日期，统一到 UTC 零点比较
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
