package service

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gymlog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RefreshService 实现失效信号：进程内一个单调递增的序号加上订阅者广播
// 序号同时写入 system_settings，挂在同一数据库上的其他进程据此感知变更
// 读取方只把序号当作依赖键：序号变了就丢弃缓存并重读名册与日志

type RefreshService struct {
	db *gorm.DB

	mu          sync.Mutex
	seq         uint64
	subscribers map[chan uint64]struct{}
}

// NewRefreshService 构造 RefreshService，并从持久化序号恢复当前值
func NewRefreshService(gdb *gorm.DB) *RefreshService {
	s := &RefreshService{
		db:          gdb,
		subscribers: make(map[chan uint64]struct{}),
	}

	var setting db.SystemSetting
	if err := gdb.Where("key = ?", db.SettingKeyRefreshSeq).First(&setting).Error; err == nil {
		if parsed, parseErr := strconv.ParseUint(setting.Value, 10, 64); parseErr == nil {
			s.seq = parsed
		}
	}

	return s
}

// Seq 返回当前失效序号
func (s *RefreshService) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Trigger 递增序号、持久化并唤醒所有订阅者
func (s *RefreshService) Trigger() (uint64, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq

	// 慢速订阅者不阻塞触发方，漏掉的序号由下一次读取补齐
	for subscriber := range s.subscribers {
		select {
		case subscriber <- seq:
		default:
		}
	}
	s.mu.Unlock()

	if err := s.persistSeq(seq); err != nil {
		return seq, err
	}
	return seq, nil
}

// Subscribe 注册一个订阅通道，通道带缓冲以容忍突发触发
func (s *RefreshService) Subscribe() chan uint64 {
	subscriber := make(chan uint64, 1)

	s.mu.Lock()
	s.subscribers[subscriber] = struct{}{}
	s.mu.Unlock()

	return subscriber
}

// Unsubscribe 注销订阅通道并关闭它
func (s *RefreshService) Unsubscribe(subscriber chan uint64) {
	s.mu.Lock()
	_, ok := s.subscribers[subscriber]
	if ok {
		delete(s.subscribers, subscriber)
	}
	s.mu.Unlock()

	if ok {
		close(subscriber)
	}
}

// SubscriberCount 返回当前订阅者数量，主要面向测试场景
func (s *RefreshService) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *RefreshService) persistSeq(seq uint64) error {
	setting := db.SystemSetting{Key: db.SettingKeyRefreshSeq, Value: strconv.FormatUint(seq, 10)}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      setting.Value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("persist refresh seq: %w", err)
	}
	return nil
}
