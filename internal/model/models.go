package model

// CatalogMovie TMDB 列表接口返回的单部影片（trending / discover）
type CatalogMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	ReleaseDate string  `json:"release_date"`
	GenreIDs    []int   `json:"genre_ids"`
	PosterPath  *string `json:"poster_path"`
	Trending    bool    `json:"-"` // 本地标记：来自热门榜为 true
}

// CatalogPage 分页列表响应
type CatalogPage struct {
	Page         int            `json:"page"`
	Results      []CatalogMovie `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// Genre 类型
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList 类型列表响应
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// WatchProvider 单个平台的上架信息
type WatchProvider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	ReleaseDate  string `json:"release_date,omitempty"`
}

// WatchProviderRegion 某地区的上架信息，按付费方式分组
type WatchProviderRegion struct {
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate"`
	Rent     []WatchProvider `json:"rent"`
	Buy      []WatchProvider `json:"buy"`
}

// WatchProviderResponse watch/providers 接口响应
type WatchProviderResponse struct {
	ID      int                            `json:"id"`
	Results map[string]WatchProviderRegion `json:"results"`
}

// WatchProviders 单部影片的订阅平台，Names 与 ReleaseDates 下标对齐
type WatchProviders struct {
	Names        []string
	ReleaseDates []string
}
