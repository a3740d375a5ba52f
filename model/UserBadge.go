package model

import (
	"time"
)

// Badge 徽章定义表（协作方数据，本服务只读）。
type Badge struct {
	Id   int64  `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Name string `gorm:"column:name;type:varchar(128);not null;uniqueIndex;comment:徽章名称"`
}

func (Badge) TableName() string { return "badge" }

// UserBadge 用户持有的徽章（协作方数据，本服务只读）。
// 约束：uniqueIndex:uidx_user_badge 保证同一用户不重复持有同一徽章。
type UserBadge struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	UserUuid  string    `gorm:"column:user_uuid;type:char(20);not null;index;uniqueIndex:uidx_user_badge;comment:用户uuid"`
	BadgeId   int64     `gorm:"column:badge_id;not null;uniqueIndex:uidx_user_badge;comment:徽章id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserBadge) TableName() string { return "user_badge" }
