package model

import (
	"time"

	"gorm.io/gorm"
)

// PeopleRecommend 维护"推荐人"有向特征边：recipient 看到 candidate。
// 约束：uniqueIndex:uidx_recipient_candidate 保证同一有向对只有一行；
// A→B 与 B→A 是两行（interested_feature 不对称，其余特征按方向冗余存储换取查询局部性）。
// 结构特征只由重算任务写入，interested_feature 只由曝光衰减写入，行只由同步任务插入。
type PeopleRecommend struct {
	Id            int64  `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	RecipientUuid string `gorm:"column:recipient_uuid;type:char(20);not null;uniqueIndex:uidx_recipient_candidate;index:idx_recipient;comment:接收推荐的用户uuid"`
	CandidateUuid string `gorm:"column:candidate_uuid;type:char(20);not null;index;uniqueIndex:uidx_recipient_candidate;comment:被推荐的用户uuid"`
	// 四个结构特征，取值 [0,1]，由重算任务根据协作方状态计算
	FriendFeature     float64 `gorm:"column:friend_feature;not null;default:0;comment:共同好友数/50 封顶归一"`
	UniversityFeature float64 `gorm:"column:university_feature;not null;default:0;comment:同校为1"`
	BadgeFeature      float64 `gorm:"column:badge_feature;not null;default:0;comment:共同徽章数/5 封顶归一"`
	ClassYearFeature  float64 `gorm:"column:class_year_feature;not null;default:0;comment:同届为1"`
	// 兴趣特征 (0,1]，创建时为 1.0，每次曝光未转化 ×0.9，无下限
	InterestedFeature float64 `gorm:"column:interested_feature;not null;default:1;comment:隐式负反馈衰减特征"`
	// dirty=1 表示结构特征已失效，等待重算任务处理；置脏幂等
	Dirty     bool           `gorm:"column:dirty;not null;default:0;index:idx_dirty;comment:结构特征待重算标记"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"` // 端点失去资格时逻辑下线
}

func (PeopleRecommend) TableName() string { return "people_recommend" }
