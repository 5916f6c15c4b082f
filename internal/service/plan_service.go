package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gymlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrInvalidPlanDay 当训练日不在 1-4 范围内时返回
	ErrInvalidPlanDay = errors.New("plan day out of range")
	// ErrInvalidExerciseItem 当训练条目的组数/动作配置异常时返回
	ErrInvalidExerciseItem = errors.New("invalid exercise item")
)

// PlanService 负责学员三类计划（训练/饮食/补剂）的读取与整体替换
// 每次写入都是针对单个集合的全量替换，天与天之间互不影响

type PlanService struct {
	db *gorm.DB
}

// ExerciseItem 描述训练计划中的单个动作条目
type ExerciseItem struct {
	ExerciseID uint
	Sets       int
	Reps       string
}

// SupplementPlanInput 定义补剂计划输入，两类集合必须一并提供
type SupplementPlanInput struct {
	SupplementIDs []uint
	VitaminIDs    []uint
}

// SupplementPlan 汇总学员当前的补剂/维生素条目
type SupplementPlan struct {
	SupplementIDs []uint
	VitaminIDs    []uint
}

// NewPlanService 构造 PlanService
func NewPlanService(gdb *gorm.DB) *PlanService {
	return &PlanService{db: gdb}
}

func (s *PlanService) ensureStudent(tx *gorm.DB, studentID uint) error {
	var student db.Student
	if err := tx.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("find student: %w", err)
	}
	return nil
}

func validatePlanDay(day int) error {
	if day < db.PlanDayMin || day > db.PlanDayMax {
		return fmt.Errorf("%w: day %d", ErrInvalidPlanDay, day)
	}
	return nil
}

// normalizeExerciseItems 去重并校验条目，同一动作在同一天最多出现一次
func normalizeExerciseItems(items []ExerciseItem) ([]ExerciseItem, error) {
	seen := make(map[uint]struct{}, len(items))
	normalized := make([]ExerciseItem, 0, len(items))

	for _, item := range items {
		if item.ExerciseID == 0 {
			return nil, fmt.Errorf("%w: exercise id is required", ErrInvalidExerciseItem)
		}
		if item.Sets <= 0 {
			return nil, fmt.Errorf("%w: sets must be positive", ErrInvalidExerciseItem)
		}
		if _, ok := seen[item.ExerciseID]; ok {
			continue
		}
		seen[item.ExerciseID] = struct{}{}
		item.Reps = strings.TrimSpace(item.Reps)
		normalized = append(normalized, item)
	}

	return normalized, nil
}

// SaveExercisePlan 以读-改-写方式整体替换某学员某一天的训练集合
// 同一学员的其他天不被读取也不被修改
func (s *PlanService) SaveExercisePlan(studentID uint, day int, items []ExerciseItem) error {
	if err := validatePlanDay(day); err != nil {
		return err
	}

	normalized, err := normalizeExerciseItems(items)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureStudent(tx, studentID); err != nil {
			return err
		}

		if err := tx.Unscoped().
			Where("student_id = ? AND day = ?", studentID, day).
			Delete(&db.ExerciseAssignment{}).Error; err != nil {
			return err
		}

		for _, item := range normalized {
			record := db.ExerciseAssignment{
				StudentID:  studentID,
				Day:        day,
				ExerciseID: item.ExerciseID,
				Sets:       item.Sets,
				Reps:       item.Reps,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return err
		}
		return fmt.Errorf("save exercise plan: %w", err)
	}

	return nil
}

// ToggleExercise 切换某动作在某天集合中的成员资格：存在则移除，不存在则加入
// 携带相同 sets/reps 连续切换两次，集合回到原状
func (s *PlanService) ToggleExercise(studentID uint, day int, item ExerciseItem) (added bool, err error) {
	if err := validatePlanDay(day); err != nil {
		return false, err
	}
	if item.ExerciseID == 0 || item.Sets <= 0 {
		return false, fmt.Errorf("%w: exercise id and positive sets are required", ErrInvalidExerciseItem)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureStudent(tx, studentID); err != nil {
			return err
		}

		var existing db.ExerciseAssignment
		findErr := tx.Where("student_id = ? AND day = ? AND exercise_id = ?", studentID, day, item.ExerciseID).
			First(&existing).Error
		if findErr == nil {
			return tx.Unscoped().Delete(&existing).Error
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		record := db.ExerciseAssignment{
			StudentID:  studentID,
			Day:        day,
			ExerciseID: item.ExerciseID,
			Sets:       item.Sets,
			Reps:       strings.TrimSpace(item.Reps),
		}
		added = true
		return tx.Create(&record).Error
	})
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return false, err
		}
		return false, fmt.Errorf("toggle exercise: %w", err)
	}

	return added, nil
}

// ExercisePlan 返回某学员某一天的训练集合
func (s *PlanService) ExercisePlan(studentID uint, day int) ([]db.ExerciseAssignment, error) {
	if err := validatePlanDay(day); err != nil {
		return nil, err
	}

	var records []db.ExerciseAssignment
	if err := s.db.Where("student_id = ? AND day = ?", studentID, day).
		Order("exercise_id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list exercise plan: %w", err)
	}
	return records, nil
}

// ExercisePlansByDay 返回某学员四天计划的全量视图，键为天数
func (s *PlanService) ExercisePlansByDay(studentID uint) (map[int][]db.ExerciseAssignment, error) {
	var records []db.ExerciseAssignment
	if err := s.db.Where("student_id = ?", studentID).
		Order("day ASC").
		Order("exercise_id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list exercise plans: %w", err)
	}

	plans := make(map[int][]db.ExerciseAssignment, db.PlanDayMax)
	for day := db.PlanDayMin; day <= db.PlanDayMax; day++ {
		plans[day] = []db.ExerciseAssignment{}
	}
	for _, record := range records {
		plans[record.Day] = append(plans[record.Day], record)
	}
	return plans, nil
}

// SaveDietPlan 整体替换学员的饮食集合
func (s *PlanService) SaveDietPlan(studentID uint, mealIDs []uint) error {
	normalized := uniqueIDs(mealIDs)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureStudent(tx, studentID); err != nil {
			return err
		}

		if err := tx.Unscoped().Where("student_id = ?", studentID).Delete(&db.DietAssignment{}).Error; err != nil {
			return err
		}

		for _, mealID := range normalized {
			if err := tx.Create(&db.DietAssignment{StudentID: studentID, MealID: mealID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return err
		}
		return fmt.Errorf("save diet plan: %w", err)
	}

	return nil
}

// DietPlan 返回学员当前的饮食集合
func (s *PlanService) DietPlan(studentID uint) ([]uint, error) {
	var records []db.DietAssignment
	if err := s.db.Where("student_id = ?", studentID).Order("meal_id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list diet plan: %w", err)
	}

	ids := make([]uint, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.MealID)
	}
	return ids, nil
}

// SaveSupplementPlan 将补剂与维生素两类集合作为一个整体替换
// 不支持只替换其中一类，两类必须同时给出
func (s *PlanService) SaveSupplementPlan(studentID uint, input SupplementPlanInput) error {
	supplements := uniqueIDs(input.SupplementIDs)
	vitamins := uniqueIDs(input.VitaminIDs)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureStudent(tx, studentID); err != nil {
			return err
		}

		if err := tx.Unscoped().Where("student_id = ?", studentID).Delete(&db.SupplementAssignment{}).Error; err != nil {
			return err
		}

		for _, itemID := range supplements {
			record := db.SupplementAssignment{StudentID: studentID, Kind: db.SupplementKindSupplement, ItemID: itemID}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		for _, itemID := range vitamins {
			record := db.SupplementAssignment{StudentID: studentID, Kind: db.SupplementKindVitamin, ItemID: itemID}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return err
		}
		return fmt.Errorf("save supplement plan: %w", err)
	}

	return nil
}

// SupplementPlanFor 返回学员当前的补剂/维生素集合
func (s *PlanService) SupplementPlanFor(studentID uint) (*SupplementPlan, error) {
	var records []db.SupplementAssignment
	if err := s.db.Where("student_id = ?", studentID).Order("item_id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list supplement plan: %w", err)
	}

	plan := &SupplementPlan{SupplementIDs: []uint{}, VitaminIDs: []uint{}}
	for _, record := range records {
		switch record.Kind {
		case db.SupplementKindVitamin:
			plan.VitaminIDs = append(plan.VitaminIDs, record.ItemID)
		default:
			plan.SupplementIDs = append(plan.SupplementIDs, record.ItemID)
		}
	}
	return plan, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
