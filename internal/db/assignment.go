package db

import "gorm.io/gorm"

const (
	// PlanDayMin 表示训练计划的第一天
	PlanDayMin = 1
	// PlanDayMax 表示训练计划的最后一天，四天计划固定不变
	PlanDayMax = 4
)

const (
	// SupplementKindSupplement 表示补剂条目
	SupplementKindSupplement = "supplement"
	// SupplementKindVitamin 表示维生素条目
	SupplementKindVitamin = "vitamin"
)

// ExerciseAssignment 记录某学员某一天的单个训练动作安排
// Student + Day + ExerciseID 采用唯一索引，保证同一天内动作不重复
// 不同 Day 的记录彼此独立，写入某一天不会触碰其他天
type ExerciseAssignment struct {
	gorm.Model
	StudentID  uint    `gorm:"index;index:idx_exercise_assignment_unique,unique"`
	Student    Student `gorm:"constraint:OnDelete:CASCADE"`
	Day        int     `gorm:"index:idx_exercise_assignment_unique,unique"`
	ExerciseID uint    `gorm:"index:idx_exercise_assignment_unique,unique"`
	Sets       int
	Reps       string
}

// TableName 重写确保唯一索引作用到 student_id + day + exercise_id
func (ExerciseAssignment) TableName() string {
	return "exercise_assignments"
}

// DietAssignment 记录学员饮食计划中的单个餐食条目
// Student + MealID 唯一，集合语义由服务层整体替换保证
type DietAssignment struct {
	gorm.Model
	StudentID uint    `gorm:"index;index:idx_diet_assignment_unique,unique"`
	Student   Student `gorm:"constraint:OnDelete:CASCADE"`
	MealID    uint    `gorm:"index:idx_diet_assignment_unique,unique"`
}

// TableName 自定义表名以保持命名一致。
func (DietAssignment) TableName() string {
	return "diet_assignments"
}

// SupplementAssignment 记录学员的补剂/维生素条目
// Kind 区分 supplement 与 vitamin，两类集合始终作为一个整体被替换
type SupplementAssignment struct {
	gorm.Model
	StudentID uint    `gorm:"index;index:idx_supplement_assignment_unique,unique"`
	Student   Student `gorm:"constraint:OnDelete:CASCADE"`
	Kind      string  `gorm:"size:20;index:idx_supplement_assignment_unique,unique"`
	ItemID    uint    `gorm:"index:idx_supplement_assignment_unique,unique"`
}

// TableName 自定义表名以保持命名一致。
func (SupplementAssignment) TableName() string {
	return "supplement_assignments"
}
