package model

// Count 单维度计数
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// GroupCount 双维度计数（堆叠图）
type GroupCount struct {
	Key   string `json:"key"`
	Group string `json:"group"`
	Count int    `json:"count"`
}

// Average 单维度均值
type Average struct {
	Key     string  `json:"key"`
	Average float64 `json:"average"`
}

// YearPick 某年份的代表影片
type YearPick struct {
	Year  int   `json:"year"`
	Movie Movie `json:"movie"`
}

// ProviderMovie 展开后的（影片, 平台）对
type ProviderMovie struct {
	Provider string `json:"provider"`
	Movie    Movie  `json:"movie"`
}

// GenreMovie 展开后的（影片, 类型）对
type GenreMovie struct {
	Genre string `json:"genre"`
	Movie Movie  `json:"movie"`
}
