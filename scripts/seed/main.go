package main

import (
	"fmt"
	"log"

	"github.com/gymlog/internal/config"
	"github.com/gymlog/internal/db"
	"github.com/gymlog/internal/service"
)

// 演示数据生成器：通过调度器写入，保证每条变更都带审计记录
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	dispatcher := service.NewDispatcher(db.DB)

	fmt.Println("开始生成演示数据...")

	students := []service.StudentInput{
		{Name: "王磊", Phone: "13800000001", HeightCM: 178, WeightKG: 74.5, Age: 27, Note: "目标：**增肌**，每周四练"},
		{Name: "李娜", Phone: "13800000002", HeightCM: 165, WeightKG: 58, Age: 31, Note: "目标：减脂，膝盖旧伤注意深蹲幅度"},
		{Name: "张强", Phone: "13800000003", HeightCM: 182, WeightKG: 88, Age: 24},
	}

	for _, input := range students {
		student, err := dispatcher.AddStudent(input)
		if err != nil {
			log.Fatal("创建学员失败:", err)
		}

		if err := dispatcher.AssignExercises(student.ID, 1, []service.ExerciseItem{
			{ExerciseID: 1, Sets: 4, Reps: "12"},
			{ExerciseID: 3, Sets: 3, Reps: "10-12"},
		}); err != nil {
			log.Fatal("安排训练计划失败:", err)
		}

		if err := dispatcher.AssignExercises(student.ID, 2, []service.ExerciseItem{
			{ExerciseID: 5, Sets: 4, Reps: "8"},
		}); err != nil {
			log.Fatal("安排训练计划失败:", err)
		}

		if err := dispatcher.AssignDiet(student.ID, []uint{1, 2, 4}); err != nil {
			log.Fatal("安排饮食计划失败:", err)
		}

		if err := dispatcher.AssignSupplements(student.ID, service.SupplementPlanInput{
			SupplementIDs: []uint{1, 2},
			VitaminIDs:    []uint{3},
		}); err != nil {
			log.Fatal("安排补剂计划失败:", err)
		}
	}

	count, err := dispatcher.History().Count()
	if err != nil {
		log.Fatal("读取审计日志失败:", err)
	}

	fmt.Println("演示数据生成完成！")
	fmt.Printf("学员: %d 名\n", len(students))
	fmt.Printf("审计日志: %d 条\n", count)
}
