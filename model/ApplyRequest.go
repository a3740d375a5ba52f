package model

import (
	"time"

	"gorm.io/gorm"
)

// 好友申请状态
const (
	ApplyStatusPending  int8 = 0 // 待处理
	ApplyStatusAccepted int8 = 1 // 已同意
	ApplyStatusRejected int8 = 2 // 已拒绝
)

// ApplyRequest 好友申请表（协作方数据，本服务只读）。
// 推荐过滤规则：存在待处理申请（无论方向）的用户对不进入推荐结果。
type ApplyRequest struct {
	Id            int64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	ApplicantUuid string         `gorm:"column:applicant_uuid;type:char(20);not null;index;comment:申请人uuid"`
	TargetUuid    string         `gorm:"column:target_uuid;type:char(20);not null;index;comment:被申请人uuid"`
	Status        int8           `gorm:"column:status;not null;default:0;comment:申请状态 0.待处理 1.已同意 2.已拒绝"`
	Reason        string         `gorm:"column:reason;type:varchar(100);comment:申请理由"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (ApplyRequest) TableName() string { return "apply_request" }
