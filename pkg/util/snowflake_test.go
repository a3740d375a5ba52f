package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSnowflakeInvalidNodeId(t *testing.T) {
	// 节点编号超出 10 bit 范围必须报错，调用方据此终止启动
	err := InitSnowflake(1024)
	require.Error(t, err)
}

func TestInitSnowflakeAndNextID(t *testing.T) {
	require.NoError(t, InitSnowflake(1))

	a := NextID()
	b := NextID()
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
}
