package config

import "time"

// MySQLConfig 数据库配置。
// Replicas 非空时通过 dbresolver 开启读写分离（批量任务的大范围扫描走从库）。
type MySQLConfig struct {
	DSN             string        `json:"dsn" yaml:"dsn"`                         // 主库 DSN
	Replicas        []string      `json:"replicas" yaml:"replicas"`               // 从库 DSN 列表（可为空）
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`       // 最大连接数
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`       // 最大空闲连接数
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"` // 连接最大存活时间
	LogSlowQuery    time.Duration `json:"logSlowQuery" yaml:"logSlowQuery"`       // 慢查询阈值
}

// DefaultMySQLConfig 返回本地开发的默认配置。
func DefaultMySQLConfig() MySQLConfig {
	return MySQLConfig{
		DSN:             "root:root@tcp(127.0.0.1:3306)/recommend?charset=utf8mb4&parseTime=True&loc=Local",
		MaxOpenConns:    100,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		LogSlowQuery:    200 * time.Millisecond,
	}
}
