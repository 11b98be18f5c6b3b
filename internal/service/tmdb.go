package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/user/moviedash/internal/config"
	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/utils"
)

// TMDBService TMDB 目录接口客户端
type TMDBService struct {
	client  *utils.HTTPClient
	baseURL string
	apiKey  string
	region  string
}

// NewTMDBService 创建 TMDB 客户端
func NewTMDBService(cfg config.TMDBConfig) *TMDBService {
	return &TMDBService{
		client:  utils.NewHTTPClient(cfg.Timeout, cfg.RPS),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		region:  cfg.Region,
	}
}

// Region 返回查询地区
func (s *TMDBService) Region() string {
	return s.region
}

// Fetch 请求单个接口，非 2xx 返回 *utils.FetchError
func (s *TMDBService) Fetch(ctx context.Context, path string, params url.Values, target interface{}) error {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("api_key", s.apiKey)
	return s.client.GetJSON(ctx, s.baseURL+path, q, target)
}

// FetchPages 依次请求第 1..pages 页，按页序拼接 results
func (s *TMDBService) FetchPages(ctx context.Context, path string, params url.Values, pages int) ([]model.CatalogMovie, error) {
	var movies []model.CatalogMovie
	for page := 1; page <= pages; page++ {
		q := url.Values{}
		for k, vs := range params {
			q[k] = append([]string(nil), vs...)
		}
		q.Set("page", strconv.Itoa(page))

		var result model.CatalogPage
		if err := s.Fetch(ctx, path, q, &result); err != nil {
			return nil, fmt.Errorf("获取 %s 第 %d 页失败: %w", path, page, err)
		}
		movies = append(movies, result.Results...)
	}
	return movies, nil
}

// FetchTrending 获取热门榜，全部标记为 trending
func (s *TMDBService) FetchTrending(ctx context.Context, mediaType, timeWindow string, pages int) ([]model.CatalogMovie, error) {
	path := fmt.Sprintf("/trending/%s/%s", mediaType, timeWindow)
	movies, err := s.FetchPages(ctx, path, url.Values{"region": {s.region}}, pages)
	if err != nil {
		return nil, err
	}
	for i := range movies {
		movies[i].Trending = true
	}
	log.Printf("[TMDB] 热门榜 %s/%s 共 %d 条", mediaType, timeWindow, len(movies))
	return movies, nil
}

// DiscoverByYear 按上映年份区间与类型发现影片，全部标记为非 trending
func (s *TMDBService) DiscoverByYear(ctx context.Context, yearFrom, yearTo int, genres string, pages int) ([]model.CatalogMovie, error) {
	params := url.Values{
		"region":                   {s.region},
		"primary_release_date.gte": {fmt.Sprintf("%d-01-01", yearFrom)},
		"primary_release_date.lte": {fmt.Sprintf("%d-12-31", yearTo)},
	}
	if genres != "" {
		params.Set("with_genres", genres)
	}

	movies, err := s.FetchPages(ctx, "/discover/movie", params, pages)
	if err != nil {
		return nil, err
	}
	for i := range movies {
		movies[i].Trending = false
	}
	log.Printf("[TMDB] 发现 %d-%d 类型 %q 共 %d 条", yearFrom, yearTo, genres, len(movies))
	return movies, nil
}

// FetchGenres 获取类型 ID -> 名称映射
func (s *TMDBService) FetchGenres(ctx context.Context) (map[int]string, error) {
	var result model.GenreList
	if err := s.Fetch(ctx, "/genre/movie/list", url.Values{"language": {"en-US"}}, &result); err != nil {
		return nil, fmt.Errorf("获取类型列表失败: %w", err)
	}

	genres := make(map[int]string, len(result.Genres))
	for _, g := range result.Genres {
		genres[g.ID] = g.Name
	}
	return genres, nil
}

// FetchWatchProviders 获取影片在本地区的订阅平台（仅 flatrate，忽略租借与购买）
func (s *TMDBService) FetchWatchProviders(ctx context.Context, movieID int) (model.WatchProviders, error) {
	providers := model.WatchProviders{
		Names:        []string{},
		ReleaseDates: []string{},
	}

	var result model.WatchProviderResponse
	path := fmt.Sprintf("/movie/%d/watch/providers", movieID)
	if err := s.Fetch(ctx, path, url.Values{"watch_region": {s.region}}, &result); err != nil {
		return providers, fmt.Errorf("获取影片 %d 播放平台失败: %w", movieID, err)
	}

	region, ok := result.Results[s.region]
	if !ok {
		return providers, nil
	}
	for _, p := range region.Flatrate {
		providers.Names = append(providers.Names, p.ProviderName)
		providers.ReleaseDates = append(providers.ReleaseDates, p.ReleaseDate)
	}
	return providers, nil
}
