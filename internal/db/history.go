package db

import "gorm.io/gorm"

const (
	// HistoryActionAdd 表示新建学员
	HistoryActionAdd = "add"
	// HistoryActionEdit 表示编辑学员档案
	HistoryActionEdit = "edit"
	// HistoryActionDelete 表示删除学员
	HistoryActionDelete = "delete"
	// HistoryActionExercise 表示调整训练计划
	HistoryActionExercise = "exercise"
	// HistoryActionDiet 表示调整饮食计划
	HistoryActionDiet = "diet"
	// HistoryActionSupplement 表示调整补剂计划
	HistoryActionSupplement = "supplement"
)

// HistoryEntry 记录一次成功变更的审计条目
// 条目一经写入不再修改或重排，只能被整体清空
// StudentName 在写入时固化，学员删除后仍可追溯
// Day/ItemCount 为结构化字段，Details 在写入时由它们一次性生成
type HistoryEntry struct {
	gorm.Model
	Action      string `gorm:"size:20;index;not null"`
	StudentID   uint   `gorm:"index"`
	StudentName string `gorm:"index"`
	Day         int
	ItemCount   int
	Details     string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (HistoryEntry) TableName() string {
	return "history_entries"
}

// HistoryActions 列出全部合法的审计动作类型。
var HistoryActions = []string{
	HistoryActionAdd,
	HistoryActionEdit,
	HistoryActionDelete,
	HistoryActionExercise,
	HistoryActionDiet,
	HistoryActionSupplement,
}

// ValidHistoryAction 判断给定动作是否属于六类审计动作之一。
func ValidHistoryAction(action string) bool {
	for _, candidate := range HistoryActions {
		if action == candidate {
			return true
		}
	}
	return false
}
