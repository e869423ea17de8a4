package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	applog "vendorvault/pkg/logger"
)

// InitRedis 初始化 Redis 连接
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password, // 没有密码则留空
		DB:       db,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	applog.Infof("Redis 连接成功")
	return rdb, nil
}
