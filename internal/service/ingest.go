package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/user/moviedash/internal/config"
	"github.com/user/moviedash/internal/model"
)

// Catalog 影片目录数据源
type Catalog interface {
	FetchTrending(ctx context.Context, mediaType, timeWindow string, pages int) ([]model.CatalogMovie, error)
	DiscoverByYear(ctx context.Context, yearFrom, yearTo int, genres string, pages int) ([]model.CatalogMovie, error)
	FetchGenres(ctx context.Context) (map[int]string, error)
	FetchWatchProviders(ctx context.Context, movieID int) (model.WatchProviders, error)
}

// MovieStore 影片持久化
type MovieStore interface {
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, movie *model.Movie) error
}

// FailedRecord 写入失败的记录
type FailedRecord struct {
	MovieID int    `json:"movie_id"`
	Error   string `json:"error"`
}

// IngestReport 单次同步结果
type IngestReport struct {
	StartedAt  time.Time      `json:"started_at"`
	Duration   time.Duration  `json:"duration"`
	Trending   int            `json:"trending"`
	Discovered int            `json:"discovered"`
	Unique     int            `json:"unique"`
	Upserted   int            `json:"upserted"`
	Failed     []FailedRecord `json:"failed"`
}

// IngestService 抓取 -> 整理 -> 去重 -> 入库
type IngestService struct {
	catalog  Catalog
	store    MovieStore
	trending config.TrendingConfig
	discover config.DiscoverConfig
	imageURL string
	validate *validator.Validate
	now      func() time.Time
}

// NewIngestService 创建同步服务
func NewIngestService(catalog Catalog, store MovieStore, cfg *config.Config) *IngestService {
	return &IngestService{
		catalog:  catalog,
		store:    store,
		trending: cfg.Trending,
		discover: cfg.Discover,
		imageURL: cfg.TMDB.ImageBaseURL,
		validate: NewMovieValidator(),
		now:      time.Now,
	}
}

// NewMovieValidator 入库前校验，包括平台与上架日期的下标对齐
func NewMovieValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		movie := sl.Current().Interface().(model.Movie)
		if len(movie.Providers) != len(movie.ProviderReleaseDates) {
			sl.ReportError(movie.ProviderReleaseDates, "ProviderReleaseDates", "ProviderReleaseDates", "aligned", "")
		}
	}, model.Movie{})
	return v
}

// Run 执行一次完整同步；抓取或建表失败直接返回错误，单条写入失败记录后继续
func (s *IngestService) Run(ctx context.Context) (*IngestReport, error) {
	report := &IngestReport{StartedAt: s.now(), Failed: []FailedRecord{}}

	if err := s.store.EnsureSchema(ctx); err != nil {
		return report, err
	}

	trending, err := s.catalog.FetchTrending(ctx, s.trending.MediaType, s.trending.Window, s.trending.Pages)
	if err != nil {
		return report, fmt.Errorf("获取热门榜失败: %w", err)
	}
	report.Trending = len(trending)

	genres, err := s.catalog.FetchGenres(ctx)
	if err != nil {
		return report, err
	}

	discovered, err := s.catalog.DiscoverByYear(ctx, s.discover.FromYear, s.discover.ToYear, s.discover.Genres, s.discover.Pages)
	if err != nil {
		return report, fmt.Errorf("发现影片失败: %w", err)
	}
	report.Discovered = len(discovered)

	all := make([]model.CatalogMovie, 0, len(trending)+len(discovered))
	all = append(all, trending...)
	all = append(all, discovered...)
	unique := DedupeByMovieID(all)
	report.Unique = len(unique)
	log.Printf("[Ingest] 热门 %d 条，发现 %d 条，去重后 %d 条", report.Trending, report.Discovered, report.Unique)

	fetchedAt := s.now()
	normalizer := NewNormalizer(genres, s.imageURL)
	movies := make([]*model.Movie, 0, len(unique))
	for _, raw := range unique {
		providers, err := s.catalog.FetchWatchProviders(ctx, raw.ID)
		if err != nil {
			return report, err
		}
		movies = append(movies, normalizer.Normalize(raw, providers, fetchedAt))
	}

	for _, movie := range movies {
		if err := s.upsert(ctx, movie); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			log.Printf("[Ingest] 写入影片失败 (MovieID: %d): %v", movie.MovieID, err)
			report.Failed = append(report.Failed, FailedRecord{MovieID: movie.MovieID, Error: err.Error()})
			continue
		}
		report.Upserted++
	}

	report.Duration = s.now().Sub(report.StartedAt)
	log.Printf("[Ingest] 同步完成: 写入 %d 条，失败 %d 条，耗时 %v", report.Upserted, len(report.Failed), report.Duration)
	return report, nil
}

func (s *IngestService) upsert(ctx context.Context, movie *model.Movie) error {
	if err := s.validate.Struct(movie); err != nil {
		return fmt.Errorf("记录校验失败: %w", err)
	}
	return s.store.Upsert(ctx, movie)
}

// DedupeByMovieID 按 ID 去重，保留首次出现的位置；热门榜记录优先，其余情况后出现的覆盖先出现的
func DedupeByMovieID(movies []model.CatalogMovie) []model.CatalogMovie {
	index := make(map[int]int, len(movies))
	res := make([]model.CatalogMovie, 0, len(movies))
	for _, m := range movies {
		i, ok := index[m.ID]
		if !ok {
			index[m.ID] = len(res)
			res = append(res, m)
			continue
		}
		if res[i].Trending && !m.Trending {
			continue
		}
		res[i] = m
	}
	return res
}
