package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"assets-management/config"
)

// Client Redis 客户端封装
// 当前用于 Refresh Token 的服务端存储（登出吊销、刷新轮换）
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Refresh Token 存储 ──
//
// 每个用户同一时刻只保留一个有效 Refresh Token，key 为用户 ID，
// TTL 与 Token 有效期一致。刷新时覆盖写入即完成轮换。

const refreshPrefix = "token:refresh:"

func refreshKey(userID uint) string {
	return refreshPrefix + strconv.FormatUint(uint64(userID), 10)
}

// StoreRefreshToken 写入用户当前有效的 Refresh Token
func (c *Client) StoreRefreshToken(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, refreshKey(userID), token, ttl).Err()
}

// GetRefreshToken 读取用户当前有效的 Refresh Token；不存在时返回空串
func (c *Client) GetRefreshToken(ctx context.Context, userID uint) (string, error) {
	val, err := c.rdb.Get(ctx, refreshKey(userID)).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// DeleteRefreshToken 删除用户的 Refresh Token（登出吊销）
func (c *Client) DeleteRefreshToken(ctx context.Context, userID uint) error {
	return c.rdb.Del(ctx, refreshKey(userID)).Err()
}

// ── 速率限制 ──

// CheckRateLimit 固定窗口计数的速率限制
// 同一 key 在 window 内最多放行 limit 次；窗口过期自动重置
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
