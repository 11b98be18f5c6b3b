package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// 默认统计的流媒体平台（市场份额、平台最热门影片）
var defaultProviderAllowList = []string{
	"Amazon Prime Video", "Netflix", "Disney Plus", "Now TV Cinema", "Paramount Plus", "Sky Go",
}

// Config 应用配置
type Config struct {
	Env         string
	DatabaseURL string
	DBSchema    string
	MoviesTable string
	Port        string
	CORSOrigins []string

	TMDB     TMDBConfig
	Trending TrendingConfig
	Discover DiscoverConfig

	SnapshotTTL       time.Duration
	SnapshotRefresh   time.Duration
	ProviderAllowList []string
	ProviderOptions   []string
}

// TMDBConfig TMDB 接口配置
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Region       string
	RPS          float64
	Timeout      time.Duration
}

// TrendingConfig 热门榜抓取配置
type TrendingConfig struct {
	MediaType string
	Window    string
	Pages     int
}

// DiscoverConfig 按年份/类型发现影片的抓取配置
type DiscoverConfig struct {
	FromYear int
	ToYear   int
	Genres   string
	Pages    int
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "moviedash")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	allowList := getEnvList("PROVIDER_ALLOWLIST", defaultProviderAllowList)
	options := getEnvList("PROVIDER_OPTIONS", append(append([]string{}, allowList...), "Apple TV"))

	return &Config{
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: dbURL,
		DBSchema:    getEnv("DB_SCHEMA", ""),
		MoviesTable: getEnv("MOVIES_TABLE", "movies"),
		Port:        getEnv("PORT", "5005"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			BaseURL:      strings.TrimRight(getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
			Region:       getEnv("TMDB_REGION", "GB"),
			RPS:          getEnvFloat("TMDB_RPS", 40),
			Timeout:      time.Duration(getEnvInt("TMDB_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Trending: TrendingConfig{
			MediaType: getEnv("TRENDING_MEDIA_TYPE", "movie"),
			Window:    getEnv("TRENDING_WINDOW", "day"),
			Pages:     getEnvInt("TRENDING_PAGES", 10),
		},
		Discover: DiscoverConfig{
			FromYear: getEnvInt("DISCOVER_FROM_YEAR", 2010),
			ToYear:   getEnvInt("DISCOVER_TO_YEAR", time.Now().Year()),
			Genres:   getEnv("DISCOVER_GENRES", "28"),
			Pages:    getEnvInt("DISCOVER_PAGES", 200),
		},
		SnapshotTTL:       time.Duration(getEnvInt("SNAPSHOT_TTL_MINUTES", 10)) * time.Minute,
		SnapshotRefresh:   time.Duration(getEnvInt("SNAPSHOT_REFRESH_MINUTES", 60)) * time.Minute,
		ProviderAllowList: allowList,
		ProviderOptions:   options,
	}
}

// QualifiedTable 返回带 schema 前缀的表名
func (c *Config) QualifiedTable() string {
	if c.DBSchema == "" {
		return c.MoviesTable
	}
	return c.DBSchema + "." + c.MoviesTable
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList 解析逗号分隔的列表，空项会被忽略
func getEnvList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var res []string
	for _, p := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(p); s != "" {
			res = append(res, s)
		}
	}
	if len(res) == 0 {
		return defaultValue
	}
	return res
}
