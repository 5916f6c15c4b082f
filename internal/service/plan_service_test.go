package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gymlog/internal/db"
)

func TestPlanServiceSaveExercisePlanReplacesDay(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	students := NewStudentService(db.DB)
	plans := NewPlanService(db.DB)
	student := mustCreateStudent(t, students, "王磊")

	if err := plans.SaveExercisePlan(student.ID, 1, []ExerciseItem{
		{ExerciseID: 7, Sets: 3, Reps: "12"},
		{ExerciseID: 9, Sets: 4, Reps: "8-10"},
	}); err != nil {
		t.Fatalf("SaveExercisePlan returned error: %v", err)
	}

	// 整体替换：旧集合被完全覆盖
	if err := plans.SaveExercisePlan(student.ID, 1, []ExerciseItem{
		{ExerciseID: 9, Sets: 5, Reps: "6"},
	}); err != nil {
		t.Fatalf("SaveExercisePlan replace returned error: %v", err)
	}

	records, err := plans.ExercisePlan(student.ID, 1)
	if err != nil {
		t.Fatalf("ExercisePlan returned error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record after replace, got %d", len(records))
	}
	if records[0].ExerciseID != 9 || records[0].Sets != 5 {
		t.Fatalf("unexpected record after replace: %+v", records[0])
	}

	// 空列表清空当天计划
	if err := plans.SaveExercisePlan(student.ID, 1, nil); err != nil {
		t.Fatalf("SaveExercisePlan clear returned error: %v", err)
	}
	records, err = plans.ExercisePlan(student.ID, 1)
	if err != nil {
		t.Fatalf("ExercisePlan returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty day, got %d records", len(records))
	}
}

func TestPlanServiceDayIndependence(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	students := NewStudentService(db.DB)
	plans := NewPlanService(db.DB)
	student := mustCreateStudent(t, students, "李娜")

	if err := plans.SaveExercisePlan(student.ID, 1, []ExerciseItem{{ExerciseID: 1, Sets: 3, Reps: "12"}}); err != nil {
		t.Fatalf("SaveExercisePlan day 1 returned error: %v", err)
	}
	if err := plans.SaveExercisePlan(student.ID, 3, []ExerciseItem{{ExerciseID: 2, Sets: 4, Reps: "10"}}); err != nil {
		t.Fatalf("SaveExercisePlan day 3 returned error: %v", err)
	}

	before, err := plans.ExercisePlan(student.ID, 1)
	if err != nil {
		t.Fatalf("ExercisePlan returned error: %v", err)
	}
	beforeDay3, err := plans.ExercisePlan(student.ID, 3)
	if err != nil {
		t.Fatalf("ExercisePlan returned error: %v", err)
	}

	// 写第 2 天不触碰第 1/3/4 天
	if err := plans.SaveExercisePlan(student.ID, 2, []ExerciseItem{{ExerciseID: 5, Sets: 5, Reps: "5"}}); err != nil {
		t.Fatalf("SaveExercisePlan day 2 returned error: %v", err)
	}

	after, err := plans.ExercisePlan(student.ID, 1)
	if err != nil {
		t.Fatalf("ExercisePlan returned error: %v", err)
	}
	afterDay3, err := plans.ExercisePlan(student.ID, 3)
	if err != nil {
		t.Fatalf("ExercisePlan returned error: %v", err)
	}
	day4, err := plans.ExercisePlan(student.ID, 4)
	if err != nil {
		t.Fatalf("ExercisePlan returned error: %v", err)
	}

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("day 1 changed by writing day 2: before=%+v after=%+v", before, after)
	}
	if !reflect.DeepEqual(beforeDay3, afterDay3) {
		t.Fatalf("day 3 changed by writing day 2: before=%+v after=%+v", beforeDay3, afterDay3)
	}
	if len(day4) != 0 {
		t.Fatalf("expected day 4 empty, got %d records", len(day4))
	}
}

func TestPlanServiceValidation(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	students := NewStudentService(db.DB)
	plans := NewPlanService(db.DB)
	student := mustCreateStudent(t, students, "张强")

	// 未知学员
	if err := plans.SaveExercisePlan(9999, 1, nil); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}

	// 训练日越界
	if err := plans.SaveExercisePlan(student.ID, 5, nil); !errors.Is(err, ErrInvalidPlanDay) {
		t.Fatalf("expected ErrInvalidPlanDay, got %v", err)
	}
	if err := plans.SaveExercisePlan(student.ID, 0, nil); !errors.Is(err, ErrInvalidPlanDay) {
		t.Fatalf("expected ErrInvalidPlanDay, got %v", err)
	}

	// 组数必须为正
	if err := plans.SaveExercisePlan(student.ID, 1, []ExerciseItem{{ExerciseID: 1, Sets: 0}}); !errors.Is(err, ErrInvalidExerciseItem) {
		t.Fatalf("expected ErrInvalidExerciseItem, got %v", err)
	}

	// 同一动作重复提交只保留一条
	if err := plans.SaveExercisePlan(student.ID, 1, []ExerciseItem{
		{ExerciseID: 7, Sets: 3, Reps: "12"},
		{ExerciseID: 7, Sets: 4, Reps: "10"},
	}); err != nil {
		t.Fatalf("SaveExercisePlan returned error: %v", err)
	}

	records, err := plans.ExercisePlan(student.ID, 1)
	if err != nil {
		t.Fatalf("ExercisePlan returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected deduplicated single record, got %d", len(records))
	}
	if records[0].Sets != 3 {
		t.Fatalf("expected first occurrence to win, got sets=%d", records[0].Sets)
	}
}

func TestPlanServiceToggleExerciseIsIdempotentPair(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	students := NewStudentService(db.DB)
	plans := NewPlanService(db.DB)
	student := mustCreateStudent(t, students, "王磊")

	if err := plans.SaveExercisePlan(student.ID, 2, []ExerciseItem{{ExerciseID: 1, Sets: 3, Reps: "12"}}); err != nil {
		t.Fatalf("SaveExercisePlan returned error: %v", err)
	}

	item := ExerciseItem{ExerciseID: 8, Sets: 4, Reps: "10"}

	added, err := plans.ToggleExercise(student.ID, 2, item)
	if err != nil {
		t.Fatalf("ToggleExercise returned error: %v", err)
	}
	if !added {
		t.Fatal("expected first toggle to add")
	}

	added, err = plans.ToggleExercise(student.ID, 2, item)
	if err != nil {
		t.Fatalf("ToggleExercise returned error: %v", err)
	}
	if added {
		t.Fatal("expected second toggle to remove")
	}

	// 两次切换后集合回到原状
	records, err := plans.ExercisePlan(student.ID, 2)
	if err != nil {
		t.Fatalf("ExercisePlan returned error: %v", err)
	}
	if len(records) != 1 || records[0].ExerciseID != 1 {
		t.Fatalf("expected original membership, got %+v", records)
	}
}

func TestPlanServiceDietPlanReplace(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	students := NewStudentService(db.DB)
	plans := NewPlanService(db.DB)
	student := mustCreateStudent(t, students, "李娜")

	if err := plans.SaveDietPlan(student.ID, []uint{1, 2, 2, 3}); err != nil {
		t.Fatalf("SaveDietPlan returned error: %v", err)
	}

	mealIDs, err := plans.DietPlan(student.ID)
	if err != nil {
		t.Fatalf("DietPlan returned error: %v", err)
	}
	if !reflect.DeepEqual(mealIDs, []uint{1, 2, 3}) {
		t.Fatalf("expected deduplicated meals [1 2 3], got %v", mealIDs)
	}

	if err := plans.SaveDietPlan(student.ID, []uint{5}); err != nil {
		t.Fatalf("SaveDietPlan replace returned error: %v", err)
	}

	mealIDs, err = plans.DietPlan(student.ID)
	if err != nil {
		t.Fatalf("DietPlan returned error: %v", err)
	}
	if !reflect.DeepEqual(mealIDs, []uint{5}) {
		t.Fatalf("expected meals [5], got %v", mealIDs)
	}
}

func TestPlanServiceSupplementPlanReplacesBothKinds(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	students := NewStudentService(db.DB)
	plans := NewPlanService(db.DB)
	student := mustCreateStudent(t, students, "张强")

	if err := plans.SaveSupplementPlan(student.ID, SupplementPlanInput{
		SupplementIDs: []uint{1, 2},
		VitaminIDs:    []uint{7},
	}); err != nil {
		t.Fatalf("SaveSupplementPlan returned error: %v", err)
	}

	// 两类集合作为整体被替换，提交空维生素集合也会清掉旧维生素
	if err := plans.SaveSupplementPlan(student.ID, SupplementPlanInput{
		SupplementIDs: []uint{3},
		VitaminIDs:    []uint{},
	}); err != nil {
		t.Fatalf("SaveSupplementPlan replace returned error: %v", err)
	}

	plan, err := plans.SupplementPlanFor(student.ID)
	if err != nil {
		t.Fatalf("SupplementPlanFor returned error: %v", err)
	}

	if !reflect.DeepEqual(plan.SupplementIDs, []uint{3}) {
		t.Fatalf("expected supplements [3], got %v", plan.SupplementIDs)
	}
	if len(plan.VitaminIDs) != 0 {
		t.Fatalf("expected vitamins cleared, got %v", plan.VitaminIDs)
	}
}
