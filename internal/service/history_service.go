package service

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gymlog/internal/db"
	"gorm.io/gorm"
)

// ErrInvalidHistoryAction 当审计动作不在六类枚举内时返回
var ErrInvalidHistoryAction = errors.New("invalid history action")

const historyDateFormat = "2006-01-02"

// HistoryService 负责审计日志的追加与查询
// 日志只追加不修改，单条不可删除，仅支持整体清空

type HistoryService struct {
	db *gorm.DB
}

// HistoryFilter 描述审计日志查询条件，Action 与 Search 为 AND 关系
type HistoryFilter struct {
	Action string
	Search string
}

// HistoryInput 定义追加审计条目时的结构化字段
type HistoryInput struct {
	Action      string
	StudentID   uint
	StudentName string
	Day         int
	ItemCount   int
	Details     string
}

// HistoryDayGroup 表示按自然日分组后的一个日志桶
type HistoryDayGroup struct {
	Date    string
	Entries []db.HistoryEntry
}

// NewHistoryService 构造 HistoryService
func NewHistoryService(gdb *gorm.DB) *HistoryService {
	return &HistoryService{db: gdb}
}

// Append 追加一条审计记录并立即落盘
func (s *HistoryService) Append(input HistoryInput) (*db.HistoryEntry, error) {
	if !db.ValidHistoryAction(input.Action) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHistoryAction, input.Action)
	}

	entry := db.HistoryEntry{
		Action:      input.Action,
		StudentID:   input.StudentID,
		StudentName: strings.TrimSpace(input.StudentName),
		Day:         input.Day,
		ItemCount:   input.ItemCount,
		Details:     strings.TrimSpace(input.Details),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("append history entry: %w", err)
	}
	return &entry, nil
}

// Query 返回符合过滤条件的审计记录，按时间倒序排列（最新在前）
// Search 对学员姓名与详情做大小写不敏感的包含匹配
func (s *HistoryService) Query(filter HistoryFilter) ([]db.HistoryEntry, error) {
	query := s.db.Model(&db.HistoryEntry{})

	if action := strings.TrimSpace(filter.Action); action != "" {
		if !db.ValidHistoryAction(action) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidHistoryAction, action)
		}
		query = query.Where("action = ?", action)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := fmt.Sprintf("%%%s%%", strings.ToLower(search))
		query = query.Where("LOWER(student_name) LIKE ? OR LOWER(details) LIKE ?", like, like)
	}

	var entries []db.HistoryEntry
	if err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	return entries, nil
}

// Count 返回审计日志总条数
func (s *HistoryService) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&db.HistoryEntry{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}

// GroupByDate 将一组日志按自然日分桶：桶按日期倒序，桶内按时间倒序
// 每条输入记录恰好落入一个桶
func GroupByDate(entries []db.HistoryEntry) []HistoryDayGroup {
	buckets := make(map[string][]db.HistoryEntry)

	for _, entry := range entries {
		key := entry.CreatedAt.Format(historyDateFormat)
		buckets[key] = append(buckets[key], entry)
	}

	groups := make([]HistoryDayGroup, 0, len(buckets))
	for date, bucket := range buckets {
		slices.SortFunc(bucket, func(a, b db.HistoryEntry) int {
			if diff := b.CreatedAt.Compare(a.CreatedAt); diff != 0 {
				return diff
			}
			return cmp.Compare(b.ID, a.ID)
		})
		groups = append(groups, HistoryDayGroup{Date: date, Entries: bucket})
	}

	slices.SortFunc(groups, func(a, b HistoryDayGroup) int {
		return cmp.Compare(b.Date, a.Date)
	})

	return groups
}

// Clear 清空全部审计日志，不影响学员与计划数据，且不可恢复
func (s *HistoryService) Clear() error {
	if err := s.db.Unscoped().Where("1 = 1").Delete(&db.HistoryEntry{}).Error; err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
