package analytics

import (
	"time"

	"github.com/user/moviedash/internal/model"
)

// 季节（北半球，按月份划分）
const (
	Winter = "Winter"
	Spring = "Spring"
	Summer = "Summer"
	Autumn = "Autumn"
)

// Seasons 展示顺序
var Seasons = []string{Winter, Spring, Summer, Autumn}

// Season 12/1/2 月为冬季，3-5 春季，6-8 夏季，其余秋季
func Season(month int) string {
	switch month {
	case 12, 1, 2:
		return Winter
	case 3, 4, 5:
		return Spring
	case 6, 7, 8:
		return Summer
	default:
		return Autumn
	}
}

func seasonOrder(season string) int {
	for i, s := range Seasons {
		if s == season {
			return i
		}
	}
	return len(Seasons)
}

// MonthName 1 -> January
func MonthName(month int) string {
	return time.Month(month).String()
}

// MonthNumber January -> 1，不认识的名称返回 0
func MonthNumber(name string) int {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return int(m)
		}
	}
	return 0
}

func movieSeason(m model.Movie) (string, bool) {
	month, ok := m.ReleaseMonth()
	if !ok {
		return "", false
	}
	return Season(month), true
}
