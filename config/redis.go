package config

import "time"

// RedisConfig 缓存配置。
// 说明：Redis 在本服务中只承载"排序后结果列表"与协作方数据的旁路缓存，丢失不影响正确性。
type RedisConfig struct {
	Addr         string        `json:"addr" yaml:"addr"`                 // 地址 host:port
	Password     string        `json:"password" yaml:"password"`         // 密码
	DB           int           `json:"db" yaml:"db"`                     // 库编号
	PoolSize     int           `json:"poolSize" yaml:"poolSize"`         // 连接池大小
	DialTimeout  time.Duration `json:"dialTimeout" yaml:"dialTimeout"`   // 连接超时
	ReadTimeout  time.Duration `json:"readTimeout" yaml:"readTimeout"`   // 读超时
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout"` // 写超时
}

// DefaultRedisConfig 返回本地开发的默认配置。
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "127.0.0.1:6379",
		Password:     "",
		DB:           0,
		PoolSize:     64,
		DialTimeout:  time.Second,
		ReadTimeout:  200 * time.Millisecond,
		WriteTimeout: 200 * time.Millisecond,
	}
}
