package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 只做计数（登录限流），不缓存业务数据。nil 表示未启用。
type Cache struct {
	RDB *redis.Client
}

// New addr 为空时返回 nil
func New(addr, pass string, db int) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) Enabled() bool { return c != nil && c.RDB != nil }

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

// Hit 固定窗口计数：窗口 key 与过期时间在同一个 MULTI 里创建，返回窗口内累计次数
func (c *Cache) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	var incr *redis.IntCmd
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SetArgs(ctx, key, 0, redis.SetArgs{Mode: "NX", TTL: window})
		incr = p.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.RDB.Close()
}
