package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gymlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrStudentNotFound 在指定学员不存在时返回
	ErrStudentNotFound = errors.New("student not found")
	// ErrStudentNameRequired 在学员姓名为空时返回
	ErrStudentNameRequired = errors.New("student name is required")
)

// StudentService 负责学员名册的增删改查
// 所有写入在返回前落盘，校验失败不产生任何变更

type StudentService struct {
	db *gorm.DB
}

// StudentFilter 描述名册列表过滤条件
type StudentFilter struct {
	Search string
}

// StudentInput 定义创建/更新学员时可配置字段
type StudentInput struct {
	Name      string
	Phone     string
	AvatarURL string
	Note      string
	HeightCM  float64
	WeightKG  float64
	Age       int
}

// NewStudentService 构造 StudentService
func NewStudentService(gdb *gorm.DB) *StudentService {
	return &StudentService{db: gdb}
}

// List 返回学员集合，支持按姓名/电话模糊搜索
func (s *StudentService) List(filter StudentFilter) ([]db.Student, error) {
	var students []db.Student

	query := s.db.Model(&db.Student{})

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.TrimSpace(filter.Search))
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	if err := query.Order("created_at DESC").Order("id DESC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	return students, nil
}

// Get 根据 ID 获取学员
func (s *StudentService) Get(id uint) (*db.Student, error) {
	var student db.Student
	if err := s.db.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &student, nil
}

// Create 新建学员，ID 由数据库单调分配且不复用
func (s *StudentService) Create(input StudentInput) (*db.Student, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrStudentNameRequired
	}

	student := db.Student{
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		AvatarURL: strings.TrimSpace(input.AvatarURL),
		Note:      input.Note,
		HeightCM:  input.HeightCM,
		WeightKG:  input.WeightKG,
		Age:       input.Age,
	}

	if err := s.db.Create(&student).Error; err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return &student, nil
}

// Update 按 ID 就地合并学员档案字段
func (s *StudentService) Update(id uint, input StudentInput) (*db.Student, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrStudentNameRequired
	}

	var existing db.Student
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Phone = strings.TrimSpace(input.Phone)
	existing.AvatarURL = strings.TrimSpace(input.AvatarURL)
	existing.Note = input.Note
	existing.HeightCM = input.HeightCM
	existing.WeightKG = input.WeightKG
	existing.Age = input.Age

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	return &existing, nil
}

// Save 按是否携带 existingID 决定创建或更新，二者共用同一套校验
func (s *StudentService) Save(input StudentInput, existingID uint) (*db.Student, error) {
	if existingID != 0 {
		return s.Update(existingID, input)
	}
	return s.Create(input)
}

// Delete 删除学员并级联清空其三类计划，历史记录保持不动
func (s *StudentService) Delete(id uint) error {
	var student db.Student
	if err := s.db.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("find student: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("student_id = ?", id).Delete(&db.ExerciseAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("student_id = ?", id).Delete(&db.DietAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("student_id = ?", id).Delete(&db.SupplementAssignment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&student).Error
	})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	return nil
}

// Count 返回当前名册中的学员总数
func (s *StudentService) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&db.Student{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}
