package service

import (
	"testing"

	"github.com/gymlog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.Student{},
		&db.ExerciseAssignment{},
		&db.DietAssignment{},
		&db.SupplementAssignment{},
		&db.HistoryEntry{},
		&db.SystemSetting{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func mustCreateStudent(t *testing.T, svc *StudentService, name string) *db.Student {
	t.Helper()
	student, err := svc.Create(StudentInput{Name: name})
	if err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	return student
}
