package service

import (
	"testing"

	"github.com/gymlog/internal/db"
)

func TestRefreshServiceSeqIsMonotonic(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewRefreshService(db.DB)

	if svc.Seq() != 0 {
		t.Fatalf("expected initial seq 0, got %d", svc.Seq())
	}

	last := uint64(0)
	for i := 0; i < 5; i++ {
		seq, err := svc.Trigger()
		if err != nil {
			t.Fatalf("Trigger returned error: %v", err)
		}
		if seq <= last {
			t.Fatalf("expected strictly increasing seq, got %d after %d", seq, last)
		}
		last = seq
	}

	if svc.Seq() != 5 {
		t.Fatalf("expected seq 5, got %d", svc.Seq())
	}
}

func TestRefreshServiceNotifiesSubscribers(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewRefreshService(db.DB)

	first := svc.Subscribe()
	second := svc.Subscribe()
	defer svc.Unsubscribe(second)

	seq, err := svc.Trigger()
	if err != nil {
		t.Fatalf("Trigger returned error: %v", err)
	}

	select {
	case got := <-first:
		if got != seq {
			t.Fatalf("expected seq %d, got %d", seq, got)
		}
	default:
		t.Fatal("expected first subscriber to be notified")
	}

	select {
	case got := <-second:
		if got != seq {
			t.Fatalf("expected seq %d, got %d", seq, got)
		}
	default:
		t.Fatal("expected second subscriber to be notified")
	}

	// 注销后通道被关闭，不再接收新序号
	svc.Unsubscribe(first)
	if _, ok := <-first; ok {
		t.Fatal("expected channel closed after unsubscribe")
	}

	if svc.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber left, got %d", svc.SubscriberCount())
	}
}

func TestRefreshServiceSlowSubscriberDoesNotBlock(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewRefreshService(db.DB)
	subscriber := svc.Subscribe()
	defer svc.Unsubscribe(subscriber)

	// 连续触发超过通道缓冲也不能阻塞触发方
	for i := 0; i < 3; i++ {
		if _, err := svc.Trigger(); err != nil {
			t.Fatalf("Trigger returned error: %v", err)
		}
	}

	// 订阅者至少能看到一个序号，剩余变更由重读补齐
	select {
	case seq := <-subscriber:
		if seq == 0 {
			t.Fatal("expected non-zero seq")
		}
	default:
		t.Fatal("expected at least one notification")
	}
}

func TestRefreshServicePersistsSeqAcrossInstances(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewRefreshService(db.DB)
	for i := 0; i < 3; i++ {
		if _, err := svc.Trigger(); err != nil {
			t.Fatalf("Trigger returned error: %v", err)
		}
	}

	// 另一个进程挂到同一数据库时能读到已持久化的序号
	revived := NewRefreshService(db.DB)
	if revived.Seq() != 3 {
		t.Fatalf("expected revived seq 3, got %d", revived.Seq())
	}
}
