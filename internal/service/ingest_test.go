package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moviedash/internal/config"
	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/utils"
)

type fakeCatalog struct {
	trending    []model.CatalogMovie
	discovered  []model.CatalogMovie
	genres      map[int]string
	providers   map[int]model.WatchProviders
	trendingErr error
	providerErr error
	calls       []string
}

func (f *fakeCatalog) FetchTrending(ctx context.Context, mediaType, timeWindow string, pages int) ([]model.CatalogMovie, error) {
	f.calls = append(f.calls, "trending")
	if f.trendingErr != nil {
		return nil, f.trendingErr
	}
	res := append([]model.CatalogMovie(nil), f.trending...)
	for i := range res {
		res[i].Trending = true
	}
	return res, nil
}

func (f *fakeCatalog) DiscoverByYear(ctx context.Context, yearFrom, yearTo int, genres string, pages int) ([]model.CatalogMovie, error) {
	f.calls = append(f.calls, "discover")
	return append([]model.CatalogMovie(nil), f.discovered...), nil
}

func (f *fakeCatalog) FetchGenres(ctx context.Context) (map[int]string, error) {
	f.calls = append(f.calls, "genres")
	return f.genres, nil
}

func (f *fakeCatalog) FetchWatchProviders(ctx context.Context, movieID int) (model.WatchProviders, error) {
	f.calls = append(f.calls, "providers")
	if f.providerErr != nil {
		return model.WatchProviders{}, f.providerErr
	}
	if p, ok := f.providers[movieID]; ok {
		return p, nil
	}
	return model.WatchProviders{Names: []string{}, ReleaseDates: []string{}}, nil
}

// memoryStore 按 movie_id 覆盖写入，模拟 ON CONFLICT DO UPDATE
type memoryStore struct {
	rows      map[int]model.Movie
	order     []int
	failIDs   map[int]bool
	schemaErr error
	upserts   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: map[int]model.Movie{}, failIDs: map[int]bool{}}
}

func (s *memoryStore) EnsureSchema(ctx context.Context) error {
	return s.schemaErr
}

func (s *memoryStore) Upsert(ctx context.Context, movie *model.Movie) error {
	s.upserts++
	if s.failIDs[movie.MovieID] {
		return errors.New("pq: value too long for type character varying(255)")
	}
	if _, ok := s.rows[movie.MovieID]; !ok {
		s.order = append(s.order, movie.MovieID)
	}
	s.rows[movie.MovieID] = *movie
	return nil
}

func testIngestConfig() *config.Config {
	return &config.Config{
		TMDB:     config.TMDBConfig{ImageBaseURL: "https://img"},
		Trending: config.TrendingConfig{MediaType: "movie", Window: "day", Pages: 1},
		Discover: config.DiscoverConfig{FromYear: 2010, ToYear: 2024, Genres: "28", Pages: 1},
	}
}

func TestDedupeByMovieID(t *testing.T) {
	in := []model.CatalogMovie{
		{ID: 1, VoteCount: 1, Trending: true},
		{ID: 2, VoteCount: 2},
		{ID: 1, VoteCount: 10},
		{ID: 2, VoteCount: 20},
		{ID: 3, VoteCount: 3},
		{ID: 3, VoteCount: 30, Trending: true},
	}

	out := DedupeByMovieID(in)
	require.Len(t, out, 3)

	// 热门榜记录优先
	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, 1, out[0].VoteCount)
	assert.True(t, out[0].Trending)

	// 同来源后出现的覆盖
	assert.Equal(t, 2, out[1].ID)
	assert.Equal(t, 20, out[1].VoteCount)

	assert.Equal(t, 3, out[2].ID)
	assert.Equal(t, 30, out[2].VoteCount)
	assert.True(t, out[2].Trending)
}

func TestIngestRun(t *testing.T) {
	catalog := &fakeCatalog{
		trending: []model.CatalogMovie{
			{ID: 42, Title: "Trending", VoteCount: 10, ReleaseDate: "2024-07-01", GenreIDs: []int{28}},
		},
		discovered: []model.CatalogMovie{
			{ID: 42, Title: "Discovered", VoteCount: 20, ReleaseDate: "2024-07-01"},
			{ID: 7, Title: "Other", VoteCount: 5, ReleaseDate: "garbage"},
		},
		genres: map[int]string{28: "Action"},
		providers: map[int]model.WatchProviders{
			42: {Names: []string{"Netflix"}, ReleaseDates: []string{"2024-07-02"}},
		},
	}
	store := newMemoryStore()
	now := time.Date(2024, 7, 17, 3, 0, 0, 0, time.UTC)

	svc := NewIngestService(catalog, store, testIngestConfig())
	svc.now = func() time.Time { return now }

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Trending)
	assert.Equal(t, 2, report.Discovered)
	assert.Equal(t, 2, report.Unique)
	assert.Equal(t, 2, report.Upserted)
	assert.Empty(t, report.Failed)

	assert.Equal(t, []string{"trending", "genres", "discover", "providers", "providers"}, catalog.calls)
	assert.Equal(t, []int{42, 7}, store.order)

	m := store.rows[42]
	assert.True(t, m.Trending)
	assert.Equal(t, "Trending", m.Title)
	assert.Equal(t, []string{"Netflix"}, m.Providers)
	require.Len(t, m.Genres, 1)
	assert.Equal(t, "Action", *m.Genres[0])
	assert.Equal(t, now, m.FetchedAt)

	other := store.rows[7]
	assert.Nil(t, other.ReleaseDate)
	assert.Equal(t, now, other.FetchedAt)
}

// 同一 movie_id 跨两次运行：后一次写入覆盖前一次
func TestIngestRun_UpsertOverwritesAcrossRuns(t *testing.T) {
	store := newMemoryStore()

	first := &fakeCatalog{discovered: []model.CatalogMovie{{ID: 42, Title: "A", VoteCount: 10}}}
	svc := NewIngestService(first, store, testIngestConfig())
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	second := &fakeCatalog{discovered: []model.CatalogMovie{{ID: 42, Title: "A", VoteCount: 20}}}
	svc = NewIngestService(second, store, testIngestConfig())
	_, err = svc.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, store.rows, 1)
	assert.Equal(t, 20, store.rows[42].VoteCount)
	assert.False(t, store.rows[42].Trending)
}

func TestIngestRun_IsolatesFailedRecords(t *testing.T) {
	catalog := &fakeCatalog{
		discovered: []model.CatalogMovie{
			{ID: 1, Title: "Good"},
			{ID: 2, Title: "Write fails"},
			{ID: 3, Title: "Bad rating", VoteAverage: 11},
			{ID: 4, Title: "Also good"},
		},
	}
	store := newMemoryStore()
	store.failIDs[2] = true

	report, err := NewIngestService(catalog, store, testIngestConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Upserted)
	require.Len(t, report.Failed, 2)
	assert.Equal(t, 2, report.Failed[0].MovieID)
	assert.Contains(t, report.Failed[0].Error, "varying(255)")
	assert.Equal(t, 3, report.Failed[1].MovieID)
	assert.Equal(t, []int{1, 4}, store.order)
	// 校验失败的记录不会写入
	assert.Equal(t, 3, store.upserts)
}

func TestIngestRun_FetchErrorAborts(t *testing.T) {
	fetchErr := &utils.FetchError{StatusCode: 401, URL: "https://api", Body: "Invalid API key"}
	catalog := &fakeCatalog{trendingErr: fetchErr}
	store := newMemoryStore()

	_, err := NewIngestService(catalog, store, testIngestConfig()).Run(context.Background())
	require.Error(t, err)

	var target *utils.FetchError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 401, target.StatusCode)
	assert.Zero(t, store.upserts)
}

func TestIngestRun_ProviderErrorAbortsBeforeUpsert(t *testing.T) {
	catalog := &fakeCatalog{
		discovered:  []model.CatalogMovie{{ID: 1, Title: "A"}},
		providerErr: &utils.FetchError{StatusCode: 500},
	}
	store := newMemoryStore()

	_, err := NewIngestService(catalog, store, testIngestConfig()).Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, store.upserts)
}

func TestIngestRun_SchemaErrorAborts(t *testing.T) {
	catalog := &fakeCatalog{discovered: []model.CatalogMovie{{ID: 1}}}
	store := newMemoryStore()
	store.schemaErr = errors.New("connection refused")

	_, err := NewIngestService(catalog, store, testIngestConfig()).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, catalog.calls)
	assert.Zero(t, store.upserts)
}

func TestMovieValidator(t *testing.T) {
	v := NewMovieValidator()
	d := time.Now()

	ok := &model.Movie{MovieID: 1, Providers: []string{"Netflix"}, ProviderReleaseDates: []*time.Time{&d}}
	assert.NoError(t, v.Struct(ok))

	misaligned := &model.Movie{MovieID: 1, Providers: []string{"Netflix"}, ProviderReleaseDates: []*time.Time{}}
	assert.Error(t, v.Struct(misaligned))

	noID := &model.Movie{MovieID: 0}
	assert.Error(t, v.Struct(noID))

	negative := &model.Movie{MovieID: 1, VoteCount: -1}
	assert.Error(t, v.Struct(negative))
}
