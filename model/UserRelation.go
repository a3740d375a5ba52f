package model

import (
	"time"

	"gorm.io/gorm"
)

// 关系状态
const (
	RelationStatusFriend  int8 = 0 // 好友
	RelationStatusBlocked int8 = 1 // 拉黑
	RelationStatusDeleted int8 = 2 // 已删除
)

// UserRelation 维护用户之间的单向关系（好友/拉黑），社交图谱协作方数据，本服务只读。
// 约束：uniqueIndex:uidx_user_peer 确保同一对用户不重复；长度与 user_info.uuid 保持一致（char(20)）。
// 好友关系成对出现（A→B 与 B→A 各一行），拉黑关系单向（user 拉黑 peer）。
type UserRelation struct {
	Id        int64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	UserUuid  string         `gorm:"column:user_uuid;type:char(20);not null;uniqueIndex:uidx_user_peer;index;comment:用户uuid"`
	PeerUuid  string         `gorm:"column:peer_uuid;type:char(20);not null;index;uniqueIndex:uidx_user_peer;comment:对端用户uuid"`
	Status    int8           `gorm:"column:status;not null;default:0;comment:关系状态 0.好友 1.拉黑 2.删除"`
	Source    string         `gorm:"column:source;type:varchar(64);comment:添加来源，如搜索/推荐/二维码"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (UserRelation) TableName() string { return "user_relation" }
