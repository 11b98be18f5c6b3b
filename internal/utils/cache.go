package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// NewTTLCache 影片快照缓存，过期时间非正时取 5 分钟，清理间隔为两倍过期时间
func NewTTLCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return cache.New(ttl, 2*ttl)
}

type entry[T any] struct {
	value    T
	deadline time.Time
}

// QueryCache 按查询条件缓存筛选结果，容量满时淘汰最久未用的条目
type QueryCache[T any] struct {
	lru *lru.Cache[string, entry[T]]
	ttl time.Duration
	now func() time.Time
}

// NewQueryCache size 为最大条目数，ttl 为单条有效期
func NewQueryCache[T any](size int, ttl time.Duration) *QueryCache[T] {
	if size <= 0 {
		size = 128
	}
	l, _ := lru.New[string, entry[T]](size)
	return &QueryCache[T]{lru: l, ttl: ttl, now: time.Now}
}

func (c *QueryCache[T]) Set(key string, value T) {
	c.lru.Add(key, entry[T]{value: value, deadline: c.now().Add(c.ttl)})
}

// Get 过期条目视为未命中并移除
func (c *QueryCache[T]) Get(key string) (T, bool) {
	e, ok := c.lru.Get(key)
	if ok && c.now().Before(e.deadline) {
		return e.value, true
	}
	if ok {
		c.lru.Remove(key)
	}
	var zero T
	return zero, false
}

func (c *QueryCache[T]) Purge() { c.lru.Purge() }

func (c *QueryCache[T]) Len() int { return c.lru.Len() }
