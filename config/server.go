package config

import "time"

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr           string        `json:"addr" yaml:"addr"`                     // 监听地址
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"` // 单请求超时
	RateLimitRate  float64       `json:"rateLimitRate" yaml:"rateLimitRate"`   // 令牌桶每秒产生令牌数
	RateLimitBurst int           `json:"rateLimitBurst" yaml:"rateLimitBurst"` // 令牌桶容量
}

// DefaultServerConfig 返回本地开发的默认配置。
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           ":8080",
		RequestTimeout: 3 * time.Second,
		RateLimitRate:  20,
		RateLimitBurst: 40,
	}
}
