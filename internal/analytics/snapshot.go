// Package analytics 基于一次全表读取的快照做内存聚合，所有函数不修改输入，结果总是非 nil
package analytics

import (
	"slices"
	"time"

	"github.com/user/moviedash/internal/model"
)

// Snapshot 一次全表读取的只读快照
type Snapshot struct {
	movies   []model.Movie
	loadedAt time.Time
	err      error
}

// NewSnapshot 深拷贝传入的影片，之后对 movies 的修改不会影响快照
func NewSnapshot(movies []model.Movie, loadedAt time.Time) *Snapshot {
	return &Snapshot{movies: cloneMovies(movies), loadedAt: loadedAt}
}

// EmptySnapshot 读取失败时返回的空快照，携带错误
func EmptySnapshot(err error, loadedAt time.Time) *Snapshot {
	return &Snapshot{movies: []model.Movie{}, loadedAt: loadedAt, err: err}
}

// Movies 返回深拷贝，调用方可以随意排序或修改
func (s *Snapshot) Movies() []model.Movie {
	return cloneMovies(s.movies)
}

func cloneMovies(movies []model.Movie) []model.Movie {
	cp := make([]model.Movie, len(movies))
	for i := range movies {
		cp[i] = cloneMovie(movies[i])
	}
	return cp
}

// cloneMovie 复制切片和指针字段，nil 保持为 nil
func cloneMovie(m model.Movie) model.Movie {
	m.ReleaseDate = clonePtr(m.ReleaseDate)
	m.PosterImage = clonePtr(m.PosterImage)
	m.Providers = slices.Clone(m.Providers)
	if m.Genres != nil {
		genres := make([]*string, len(m.Genres))
		for i, g := range m.Genres {
			genres[i] = clonePtr(g)
		}
		m.Genres = genres
	}
	if m.ProviderReleaseDates != nil {
		dates := make([]*time.Time, len(m.ProviderReleaseDates))
		for i, d := range m.ProviderReleaseDates {
			dates[i] = clonePtr(d)
		}
		m.ProviderReleaseDates = dates
	}
	return m
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (s *Snapshot) Len() int {
	return len(s.movies)
}

func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Err 非 nil 表示快照读取失败（此时快照为空）
func (s *Snapshot) Err() error {
	return s.err
}
