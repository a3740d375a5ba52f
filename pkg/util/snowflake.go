package util

import (
	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

// InitSnowflake 初始化雪花算法节点（进程启动时调用一次）。
// nodeId 取部署实例编号，保证多实例生成的 id 不冲突。
func InitSnowflake(nodeId int64) error {
	n, err := snowflake.NewNode(nodeId)
	if err != nil {
		return err
	}
	node = n
	return nil
}

// NextID 生成全局唯一 id（用于 mq 任务标识等）。
func NextID() int64 {
	if node == nil {
		return 0
	}
	return node.Generate().Int64()
}
