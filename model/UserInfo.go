package model

import (
	"time"

	"gorm.io/gorm"
)

// 推荐引导阶段（对应新手引导的"推荐好友"教程进度）
const (
	TutorialStageNone     int8 = 0 // 未开始
	TutorialStagePicture  int8 = 1 // 已上传推荐页图片
	TutorialStageFinished int8 = 2 // 已完成最终教程，进入推荐池
)

// UserInfo 用户画像信息（协作方数据，本服务只读）。
// 资格判定：is_onboarded=1 且 tutorial_stage=最终教程 的用户才参与推荐边宇宙。
type UserInfo struct {
	Id            int64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Uuid          string         `gorm:"column:uuid;type:char(20);not null;uniqueIndex;comment:用户uuid"`
	Nickname      string         `gorm:"column:nickname;type:varchar(64);comment:昵称"`
	Avatar        string         `gorm:"column:avatar;type:varchar(255);comment:头像"`
	University    string         `gorm:"column:university;type:varchar(128);index;comment:所属大学"`
	ClassYear     int32          `gorm:"column:class_year;comment:入学届别，如2024"`
	IsOnboarded   bool           `gorm:"column:is_onboarded;not null;default:0;comment:是否完成注册引导"`
	TutorialStage int8           `gorm:"column:tutorial_stage;not null;default:0;comment:推荐教程阶段 0.未开始 1.传图 2.完成"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (UserInfo) TableName() string { return "user_info" }

// Eligible 是否具备进入推荐池的资格
func (u *UserInfo) Eligible() bool {
	return u.IsOnboarded && u.TutorialStage == TutorialStageFinished
}
