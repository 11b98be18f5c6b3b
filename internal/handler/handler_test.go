package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moviedash/internal/config"
	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/service"
)

type stubLoader struct {
	movies []model.Movie
	err    error
}

func (s stubLoader) FindAll(ctx context.Context) ([]model.Movie, error) {
	return s.movies, s.err
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
}

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func strp(s string) *string { return &s }

// 2024-07-17 周三
var now = time.Date(2024, 7, 17, 12, 0, 0, 0, time.UTC)

func fixtures() []model.Movie {
	return []model.Movie{
		{ID: 1, MovieID: 1, Title: "The Matrix Reloaded", VoteCount: 500, VoteAverage: 7.2,
			ReleaseDate: date("2024-07-10"), Providers: []string{"Netflix", "Disney Plus"},
			Genres: []*string{strp("Action")}},
		{ID: 2, MovieID: 2, Title: "Inside Out 2", VoteCount: 900, VoteAverage: 7.8,
			ReleaseDate: date("2024-07-17"), Providers: []string{"Disney Plus"},
			Genres: []*string{strp("Animation"), strp("Comedy")}},
		{ID: 3, MovieID: 3, Title: "", VoteCount: 50,
			ReleaseDate: date("2015-01-03"), Providers: []string{"Apple TV"}},
		{ID: 4, MovieID: 4, Title: "Undated", VoteCount: 5},
	}
}

func setupRouter(t *testing.T, loader service.MovieLoader) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		SnapshotTTL:       time.Minute,
		ProviderAllowList: []string{"Netflix", "Disney Plus"},
		ProviderOptions:   []string{"Netflix", "Disney Plus", "Apple TV"},
	}
	dashboard := service.NewDashboardService(loader, cfg).WithClock(func() time.Time { return now })
	h := NewHandler(cfg, dashboard)

	r := gin.New()
	r.GET("/health", h.Health)
	api := r.Group("/api")
	api.GET("/movies", h.Movies)
	api.GET("/movies/search", h.SearchMovies)
	api.GET("/picks/today", h.TodayPicks)
	api.GET("/picks/week", h.WeekPicks)
	api.GET("/picks/week/genres", h.WeekGenres)
	api.GET("/picks/month", h.MonthPicks)
	api.GET("/picks/month/genres", h.MonthGenres)
	api.GET("/streaming/filter", h.StreamingFilter)
	api.GET("/streaming/market-share", h.MarketShare)
	api.GET("/streaming/top-by-provider", h.TopByProvider)
	api.GET("/stats/years", h.YearStats)
	api.GET("/stats/top-per-year", h.TopPerYear)
	api.GET("/stats/months", h.MonthStats)
	api.GET("/stats/seasons", h.SeasonStats)
	api.GET("/meta/providers", h.Providers)
	api.GET("/meta/genres", h.Genres)
	return r
}

func get(t *testing.T, r *gin.Engine, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)

	var env envelope
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
		return w, env
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func decodeMovies(t *testing.T, raw json.RawMessage) []model.Movie {
	t.Helper()
	var movies []model.Movie
	require.NoError(t, json.Unmarshal(raw, &movies))
	return movies
}

func TestMovies(t *testing.T) {
	r := setupRouter(t, stubLoader{movies: fixtures()})

	w, env := get(t, r, "/api/movies")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Len(t, decodeMovies(t, env.Data), 4)

	_, env = get(t, r, "/api/movies?since_year=2020")
	assert.Len(t, decodeMovies(t, env.Data), 2)
}

func TestSearchMovies(t *testing.T) {
	r := setupRouter(t, stubLoader{movies: fixtures()})

	_, env := get(t, r, "/api/movies/search?title=matrix")
	movies := decodeMovies(t, env.Data)
	require.Len(t, movies, 1)
	assert.Equal(t, "The Matrix Reloaded", movies[0].Title)

	w, env := get(t, r, "/api/movies/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestPicks(t *testing.T) {
	r := setupRouter(t, stubLoader{movies: fixtures()})

	_, env := get(t, r, "/api/picks/today")
	today := decodeMovies(t, env.Data)
	require.Len(t, today, 1)
	assert.Equal(t, 2, today[0].MovieID)

	_, env = get(t, r, "/api/picks/week")
	var week struct {
		Start  string        `json:"start"`
		End    string        `json:"end"`
		Movies []model.Movie `json:"movies"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &week))
	assert.Equal(t, "2024-07-08", week.Start)
	assert.Equal(t, "2024-07-14", week.End)
	require.Len(t, week.Movies, 1)
	assert.Equal(t, 1, week.Movies[0].MovieID)

	_, env = get(t, r, "/api/picks/month")
	var month struct {
		Movies []model.Movie `json:"movies"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &month))
	assert.Len(t, month.Movies, 2)

	_, env = get(t, r, "/api/picks/month/genres")
	var genres []model.Count
	require.NoError(t, json.Unmarshal(env.Data, &genres))
	assert.Len(t, genres, 3)

	w, _ := get(t, r, "/api/picks/week?limit=0")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = get(t, r, "/api/picks/week?limit=1000")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamingFilter(t *testing.T) {
	r := setupRouter(t, stubLoader{movies: fixtures()})

	_, env := get(t, r, "/api/streaming/filter?providers=Netflix,Apple%20TV&year_from=2010")
	movies := decodeMovies(t, env.Data)
	require.Len(t, movies, 2)
	assert.Equal(t, 1, movies[0].MovieID)
	assert.Equal(t, 3, movies[1].MovieID)

	_, env = get(t, r, "/api/streaming/filter?providers=Disney%20Plus&min=600")
	movies = decodeMovies(t, env.Data)
	require.Len(t, movies, 1)
	assert.Equal(t, 2, movies[0].MovieID)

	_, env = get(t, r, "/api/streaming/filter?genres=Comedy&genres=Action&metric=vote_average&min=7.5&max=10")
	movies = decodeMovies(t, env.Data)
	require.Len(t, movies, 1)
	assert.Equal(t, 2, movies[0].MovieID)
}

func TestStreamingFilter_BadParams(t *testing.T) {
	r := setupRouter(t, stubLoader{movies: fixtures()})

	for _, target := range []string{
		"/api/streaming/filter?metric=popularity",
		"/api/streaming/filter?year_from=2024&year_to=2010",
		"/api/streaming/filter?min=10&max=1",
		"/api/streaming/filter?min=-1",
	} {
		w, env := get(t, r, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.False(t, env.Success, target)
	}
}

func TestMarketShareAndTopByProvider(t *testing.T) {
	r := setupRouter(t, stubLoader{movies: fixtures()})

	_, env := get(t, r, "/api/streaming/market-share")
	var share []model.Count
	require.NoError(t, json.Unmarshal(env.Data, &share))
	assert.Equal(t, []model.Count{{Key: "Disney Plus", Count: 2}, {Key: "Netflix", Count: 1}}, share)

	_, env = get(t, r, "/api/streaming/top-by-provider")
	var top struct {
		Movies []model.ProviderMovie `json:"movies"`
		Counts []model.Count         `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &top))
	require.Len(t, top.Movies, 3)
	assert.Equal(t, "Apple TV", top.Movies[0].Provider)
	assert.Equal(t, "Disney Plus", top.Movies[1].Provider)
	assert.Equal(t, 2, top.Movies[1].Movie.MovieID)
	assert.Len(t, top.Counts, 3)
}

func TestStats(t *testing.T) {
	r := setupRouter(t, stubLoader{movies: fixtures()})

	_, env := get(t, r, "/api/stats/years")
	var years struct {
		Counts     []model.Count      `json:"counts"`
		ByProvider []model.GroupCount `json:"by_provider"`
		ByGenre    []model.GroupCount `json:"by_genre"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &years))
	assert.Equal(t, []model.Count{{Key: "2015", Count: 1}, {Key: "2024", Count: 2}}, years.Counts)
	assert.Equal(t, []model.GroupCount{
		{Key: "2024", Group: "Disney Plus", Count: 2},
		{Key: "2024", Group: "Netflix", Count: 1},
	}, years.ByProvider)

	_, env = get(t, r, "/api/stats/top-per-year")
	var picks []model.YearPick
	require.NoError(t, json.Unmarshal(env.Data, &picks))
	require.Len(t, picks, 2)
	assert.Equal(t, 2015, picks[0].Year)
	assert.Equal(t, 2, picks[1].Movie.MovieID)

	_, env = get(t, r, "/api/stats/seasons?seasons=Summer")
	var seasons struct {
		Counts []model.Count `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &seasons))
	assert.Equal(t, []model.Count{{Key: "Summer", Count: 2}}, seasons.Counts)

	_, env = get(t, r, "/api/stats/months?months=1&since_year=2000")
	var months struct {
		Counts []model.Count `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &months))
	assert.Equal(t, []model.Count{{Key: "January", Count: 1}}, months.Counts)

	w, _ := get(t, r, "/api/stats/seasons?seasons=Monsoon")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = get(t, r, "/api/stats/months?months=13")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeta(t *testing.T) {
	r := setupRouter(t, stubLoader{movies: fixtures()})

	_, env := get(t, r, "/api/meta/genres")
	var genres []string
	require.NoError(t, json.Unmarshal(env.Data, &genres))
	assert.Equal(t, []string{"Action", "Animation", "Comedy"}, genres)

	_, env = get(t, r, "/api/meta/providers")
	var providers struct {
		AllowList []string `json:"allow_list"`
		Options   []string `json:"options"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &providers))
	assert.Equal(t, []string{"Netflix", "Disney Plus"}, providers.AllowList)
	assert.Len(t, providers.Options, 3)
}

func TestDegradedWhenStoreUnavailable(t *testing.T) {
	r := setupRouter(t, stubLoader{err: errors.New("dial tcp: connection refused")})

	for _, target := range []string{
		"/api/movies",
		"/api/movies/search?title=x",
		"/api/picks/today",
		"/api/picks/week",
		"/api/streaming/filter",
		"/api/streaming/market-share",
		"/api/stats/years",
		"/api/stats/seasons",
		"/api/meta/genres",
	} {
		w, env := get(t, r, target)
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.False(t, env.Success, target)
		assert.Contains(t, env.Message, "connection refused", target)
		assert.NotEqual(t, "null", string(env.Data), target)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}
