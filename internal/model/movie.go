package model

import (
	"time"
)

// Movie 电影记录（TMDB 元数据 + 流媒体上架信息），按 MovieID 唯一
type Movie struct {
	ID                   int          `json:"id" db:"id"`
	MovieID              int          `json:"movie_id" db:"movie_id" validate:"gt=0"`
	Title                string       `json:"title" db:"title" validate:"max=255"`
	Overview             string       `json:"overview" db:"overview"`
	VoteAverage          float64      `json:"vote_average" db:"vote_average" validate:"gte=0,lte=10"`
	VoteCount            int          `json:"vote_count" db:"vote_count" validate:"gte=0"`
	ReleaseDate          *time.Time   `json:"release_date" db:"release_date"`
	Genres               []*string    `json:"genres" db:"genres"`
	Providers            []string     `json:"providers" db:"providers" validate:"dive,required"`
	ProviderReleaseDates []*time.Time `json:"provider_release_dates" db:"provider_release_dates"`
	PosterImage          *string      `json:"poster_image" db:"poster_image" validate:"omitempty,max=255"`
	Trending             bool         `json:"trending" db:"trending"`
	FetchedAt            time.Time    `json:"fetched_at" db:"fetched_at"`
}

// GenreNames 返回非空的类型名称
func (m *Movie) GenreNames() []string {
	res := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		if g != nil && *g != "" {
			res = append(res, *g)
		}
	}
	return res
}

// HasProvider 判断是否在指定平台上架
func (m *Movie) HasProvider(name string) bool {
	for _, p := range m.Providers {
		if p == name {
			return true
		}
	}
	return false
}

// HasGenre 判断是否属于指定类型
func (m *Movie) HasGenre(name string) bool {
	for _, g := range m.Genres {
		if g != nil && *g == name {
			return true
		}
	}
	return false
}

// ReleaseYear 上映年份，没有上映日期时 ok 为 false
func (m *Movie) ReleaseYear() (int, bool) {
	if m.ReleaseDate == nil {
		return 0, false
	}
	return m.ReleaseDate.Year(), true
}

// ReleaseMonth 上映月份（1-12）
func (m *Movie) ReleaseMonth() (int, bool) {
	if m.ReleaseDate == nil {
		return 0, false
	}
	return int(m.ReleaseDate.Month()), true
}
