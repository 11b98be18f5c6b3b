package service

import (
	"log"
	"strings"
	"time"

	"github.com/user/moviedash/internal/model"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// Normalizer 把 TMDB 原始数据整理成入库记录
type Normalizer struct {
	genres        map[int]string
	posterBaseURL string
}

// NewNormalizer genres 为本次运行获取的类型映射
func NewNormalizer(genres map[int]string, posterBaseURL string) *Normalizer {
	if genres == nil {
		genres = map[int]string{}
	}
	return &Normalizer{
		genres:        genres,
		posterBaseURL: posterBaseURL,
	}
}

// Normalize 整理单部影片，fetchedAt 为本次运行时间
func (n *Normalizer) Normalize(raw model.CatalogMovie, providers model.WatchProviders, fetchedAt time.Time) *model.Movie {
	movie := &model.Movie{
		MovieID:     raw.ID,
		Title:       raw.Title,
		Overview:    raw.Overview,
		VoteAverage: raw.VoteAverage,
		VoteCount:   raw.VoteCount,
		ReleaseDate: ParseDate(raw.ReleaseDate),
		Genres:      n.genreNames(raw.GenreIDs),
		PosterImage: n.posterURL(raw.PosterPath),
		Trending:    raw.Trending,
		FetchedAt:   fetchedAt,
	}
	movie.Providers, movie.ProviderReleaseDates = normalizeProviders(providers)
	return movie
}

// genreNames 未知的类型 ID 对应 nil
func (n *Normalizer) genreNames(ids []int) []*string {
	names := make([]*string, 0, len(ids))
	for _, id := range ids {
		if name, ok := n.genres[id]; ok {
			names = append(names, &name)
		} else {
			names = append(names, nil)
		}
	}
	return names
}

func (n *Normalizer) posterURL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	url := n.posterBaseURL + *path
	return &url
}

// normalizeProviders 平台去重（保留首次出现及其日期），日期逐个解析
func normalizeProviders(p model.WatchProviders) ([]string, []*time.Time) {
	names := make([]string, 0, len(p.Names))
	dates := make([]*time.Time, 0, len(p.Names))
	seen := make(map[string]bool, len(p.Names))
	for i, name := range p.Names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var raw string
		if i < len(p.ReleaseDates) {
			raw = p.ReleaseDates[i]
		}
		names = append(names, name)
		dates = append(dates, ParseDate(raw))
	}
	return names, dates
}

// ParseDate 解析日期，空串或解析失败返回 nil
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	log.Printf("[Normalizer] 日期转换失败: %q", s)
	return nil
}
