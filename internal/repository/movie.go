package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/user/moviedash/internal/model"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

const movieColumns = `id, movie_id, COALESCE(title, ''), COALESCE(overview, ''),
	COALESCE(vote_average, 0)::float8, COALESCE(vote_count, 0), release_date,
	genres, providers, provider_release_dates::text[], poster_image,
	COALESCE(trending, false), fetched_at`

type MovieRepository struct {
	db    *gorm.DB
	table string
}

// NewMovieRepository table 可带 schema 前缀，如 student.movies
func NewMovieRepository(db *gorm.DB, table string) *MovieRepository {
	if table == "" {
		table = "movies"
	}
	return &MovieRepository{db: db, table: table}
}

// Table 返回表名
func (r *MovieRepository) Table() string {
	return r.table
}

// checkTable 表名会拼进 SQL，每条语句执行前校验
func (r *MovieRepository) checkTable() error {
	if !identPattern.MatchString(r.table) {
		return fmt.Errorf("非法表名: %q", r.table)
	}
	return nil
}

// EnsureSchema 建表（不存在时），movie_id 唯一
func (r *MovieRepository) EnsureSchema(ctx context.Context) error {
	if err := r.checkTable(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if schema, _, ok := strings.Cut(r.table, "."); ok {
		if err := db.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schema)).Error; err != nil {
			return fmt.Errorf("创建 schema 失败: %w", err)
		}
	}

	err := db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			movie_id INTEGER UNIQUE,
			title VARCHAR(255),
			vote_average NUMERIC,
			vote_count INTEGER,
			overview TEXT,
			release_date DATE,
			genres TEXT[],
			providers TEXT[],
			provider_release_dates DATE[],
			poster_image VARCHAR(255),
			trending BOOLEAN,
			fetched_at TIMESTAMP
		)
	`, r.table)).Error
	if err != nil {
		return fmt.Errorf("创建表 %s 失败: %w", r.table, err)
	}
	return nil
}

// Upsert 按 movie_id 插入或覆盖全部非主键字段，单条语句保证原子性
func (r *MovieRepository) Upsert(ctx context.Context, movie *model.Movie) error {
	if err := r.checkTable(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(fmt.Sprintf(`
		INSERT INTO %s (movie_id, title, vote_average, vote_count, overview, release_date,
		                genres, providers, provider_release_dates, poster_image, trending, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?::date, ?::text[], ?::text[], ?::date[], ?, ?, ?)
		ON CONFLICT (movie_id) DO UPDATE SET
			title = EXCLUDED.title,
			vote_average = EXCLUDED.vote_average,
			vote_count = EXCLUDED.vote_count,
			overview = EXCLUDED.overview,
			release_date = EXCLUDED.release_date,
			genres = EXCLUDED.genres,
			providers = EXCLUDED.providers,
			provider_release_dates = EXCLUDED.provider_release_dates,
			poster_image = EXCLUDED.poster_image,
			trending = EXCLUDED.trending,
			fetched_at = EXCLUDED.fetched_at
	`, r.table),
		movie.MovieID, nullIfEmpty(movie.Title), movie.VoteAverage, movie.VoteCount, movie.Overview,
		dateParam(movie.ReleaseDate),
		pq.Array(toNullStrings(movie.Genres)),
		pq.Array(nonNil(movie.Providers)),
		pq.Array(datesToNullStrings(movie.ProviderReleaseDates)),
		stringParam(movie.PosterImage), movie.Trending, movie.FetchedAt,
	).Error
}

// FindAll 读取整张表（按 id 排序）
func (r *MovieRepository) FindAll(ctx context.Context) ([]model.Movie, error) {
	if err := r.checkTable(); err != nil {
		return nil, err
	}
	rows, err := r.db.WithContext(ctx).
		Raw(fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, movieColumns, r.table)).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []model.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	return movies, rows.Err()
}

// FindByMovieID 根据 TMDB ID 查找电影，不存在返回 nil
func (r *MovieRepository) FindByMovieID(ctx context.Context, movieID int) (*model.Movie, error) {
	if err := r.checkTable(); err != nil {
		return nil, err
	}
	rows, err := r.db.WithContext(ctx).
		Raw(fmt.Sprintf(`SELECT %s FROM %s WHERE movie_id = ? LIMIT 1`, movieColumns, r.table), movieID).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanMovie(rows)
}

// Count 统计行数
func (r *MovieRepository) Count(ctx context.Context) (int64, error) {
	if err := r.checkTable(); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).Table(r.table).Count(&count).Error
	return count, err
}

func scanMovie(rows *sql.Rows) (*model.Movie, error) {
	var (
		movie         model.Movie
		releaseDate   sql.NullTime
		genres        []sql.NullString
		providers     []sql.NullString
		providerDates []sql.NullString
		poster        sql.NullString
		fetchedAt     sql.NullTime
	)

	err := rows.Scan(
		&movie.ID, &movie.MovieID, &movie.Title, &movie.Overview,
		&movie.VoteAverage, &movie.VoteCount, &releaseDate,
		pq.Array(&genres), pq.Array(&providers), pq.Array(&providerDates), &poster,
		&movie.Trending, &fetchedAt,
	)
	if err != nil {
		return nil, err
	}

	if releaseDate.Valid {
		d := dateOf(releaseDate.Time)
		movie.ReleaseDate = &d
	}
	movie.Genres = make([]*string, 0, len(genres))
	for _, g := range genres {
		if g.Valid {
			name := g.String
			movie.Genres = append(movie.Genres, &name)
		} else {
			movie.Genres = append(movie.Genres, nil)
		}
	}
	// 平台与日期保持下标对齐，平台名为空的条目一并丢弃
	movie.Providers = make([]string, 0, len(providers))
	movie.ProviderReleaseDates = make([]*time.Time, 0, len(providers))
	for i, p := range providers {
		if !p.Valid || p.String == "" {
			continue
		}
		movie.Providers = append(movie.Providers, p.String)
		var date *time.Time
		if i < len(providerDates) && providerDates[i].Valid {
			if t, err := time.Parse(dateLayout, providerDates[i].String); err == nil {
				date = &t
			}
		}
		movie.ProviderReleaseDates = append(movie.ProviderReleaseDates, date)
	}
	if poster.Valid {
		s := poster.String
		movie.PosterImage = &s
	}
	if fetchedAt.Valid {
		movie.FetchedAt = fetchedAt.Time
	}
	return &movie, nil
}

// dateOf 取日历日期，丢弃时区
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateParam(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func stringParam(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// nullIfEmpty 空标题按 NULL 存储
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func toNullStrings(values []*string) []sql.NullString {
	res := make([]sql.NullString, 0, len(values))
	for _, v := range values {
		if v == nil {
			res = append(res, sql.NullString{})
		} else {
			res = append(res, sql.NullString{String: *v, Valid: true})
		}
	}
	return res
}

func datesToNullStrings(dates []*time.Time) []sql.NullString {
	res := make([]sql.NullString, 0, len(dates))
	for _, d := range dates {
		if d == nil {
			res = append(res, sql.NullString{})
		} else {
			res = append(res, sql.NullString{String: d.Format(dateLayout), Valid: true})
		}
	}
	return res
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
