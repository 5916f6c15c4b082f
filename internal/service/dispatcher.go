package service

import (
	"fmt"

	"github.com/gymlog/internal/db"
	"gorm.io/gorm"
)

// Dispatcher 是唯一把仓库写入、审计记录与失效广播耦合在一起的地方
// 约定：先从变更前状态解析展示名，再执行写入；写入成功才追加恰好一条
// 审计记录并触发刷新；写入失败则原样返回错误，不记日志也不广播

type Dispatcher struct {
	students *StudentService
	plans    *PlanService
	history  *HistoryService
	refresh  *RefreshService
}

// NewDispatcher 构造 Dispatcher
func NewDispatcher(gdb *gorm.DB) *Dispatcher {
	return &Dispatcher{
		students: NewStudentService(gdb),
		plans:    NewPlanService(gdb),
		history:  NewHistoryService(gdb),
		refresh:  NewRefreshService(gdb),
	}
}

// Students 暴露底层名册服务，供只读路径使用
func (d *Dispatcher) Students() *StudentService {
	return d.students
}

// Plans 暴露底层计划服务，供只读路径使用
func (d *Dispatcher) Plans() *PlanService {
	return d.plans
}

// History 暴露底层审计服务，供只读路径使用
func (d *Dispatcher) History() *HistoryService {
	return d.history
}

// Refresh 暴露失效信号服务
func (d *Dispatcher) Refresh() *RefreshService {
	return d.refresh
}

func (d *Dispatcher) record(input HistoryInput) error {
	if _, err := d.history.Append(input); err != nil {
		return err
	}
	if _, err := d.refresh.Trigger(); err != nil {
		return err
	}
	return nil
}

// AddStudent 新建学员并记录 add 类型审计条目
func (d *Dispatcher) AddStudent(input StudentInput) (*db.Student, error) {
	student, err := d.students.Create(input)
	if err != nil {
		return nil, err
	}

	if err := d.record(HistoryInput{
		Action:      db.HistoryActionAdd,
		StudentID:   student.ID,
		StudentName: student.Name,
		Details:     fmt.Sprintf("新建学员 %s", student.Name),
	}); err != nil {
		return student, err
	}

	return student, nil
}

// UpdateStudent 更新学员档案并记录 edit 类型审计条目
func (d *Dispatcher) UpdateStudent(id uint, input StudentInput) (*db.Student, error) {
	student, err := d.students.Update(id, input)
	if err != nil {
		return nil, err
	}

	if err := d.record(HistoryInput{
		Action:      db.HistoryActionEdit,
		StudentID:   student.ID,
		StudentName: student.Name,
		Details:     fmt.Sprintf("更新了 %s 的档案", student.Name),
	}); err != nil {
		return student, err
	}

	return student, nil
}

// SaveStudent 按是否携带 existingID 分派到新建或更新
func (d *Dispatcher) SaveStudent(input StudentInput, existingID uint) (*db.Student, error) {
	if existingID != 0 {
		return d.UpdateStudent(existingID, input)
	}
	return d.AddStudent(input)
}

// DeleteStudent 删除学员并记录 delete 类型审计条目
// 展示名必须在删除前解析，删除后名册中已无该学员可查
func (d *Dispatcher) DeleteStudent(id uint) error {
	student, err := d.students.Get(id)
	if err != nil {
		return err
	}

	if err := d.students.Delete(id); err != nil {
		return err
	}

	return d.record(HistoryInput{
		Action:      db.HistoryActionDelete,
		StudentID:   student.ID,
		StudentName: student.Name,
		Details:     fmt.Sprintf("删除学员 %s", student.Name),
	})
}

// AssignExercises 替换某学员某一天的训练计划并记录 exercise 类型审计条目
func (d *Dispatcher) AssignExercises(studentID uint, day int, items []ExerciseItem) error {
	student, err := d.students.Get(studentID)
	if err != nil {
		return err
	}

	if err := d.plans.SaveExercisePlan(studentID, day, items); err != nil {
		return err
	}

	stored, err := d.plans.ExercisePlan(studentID, day)
	if err != nil {
		return err
	}

	return d.record(HistoryInput{
		Action:      db.HistoryActionExercise,
		StudentID:   student.ID,
		StudentName: student.Name,
		Day:         day,
		ItemCount:   len(stored),
		Details:     fmt.Sprintf("为 %s 安排了第 %d 天的训练计划（%d 个动作）", student.Name, day, len(stored)),
	})
}

// ToggleExercise 切换单个动作的成员资格并记录 exercise 类型审计条目
func (d *Dispatcher) ToggleExercise(studentID uint, day int, item ExerciseItem) (bool, error) {
	student, err := d.students.Get(studentID)
	if err != nil {
		return false, err
	}

	added, err := d.plans.ToggleExercise(studentID, day, item)
	if err != nil {
		return false, err
	}

	verb := "移除"
	if added {
		verb = "加入"
	}

	stored, err := d.plans.ExercisePlan(studentID, day)
	if err != nil {
		return added, err
	}

	if err := d.record(HistoryInput{
		Action:      db.HistoryActionExercise,
		StudentID:   student.ID,
		StudentName: student.Name,
		Day:         day,
		ItemCount:   len(stored),
		Details:     fmt.Sprintf("在 %s 第 %d 天的训练计划中%s动作 %d", student.Name, day, verb, item.ExerciseID),
	}); err != nil {
		return added, err
	}

	return added, nil
}

// AssignDiet 替换学员的饮食计划并记录 diet 类型审计条目
func (d *Dispatcher) AssignDiet(studentID uint, mealIDs []uint) error {
	student, err := d.students.Get(studentID)
	if err != nil {
		return err
	}

	if err := d.plans.SaveDietPlan(studentID, mealIDs); err != nil {
		return err
	}

	stored, err := d.plans.DietPlan(studentID)
	if err != nil {
		return err
	}

	return d.record(HistoryInput{
		Action:      db.HistoryActionDiet,
		StudentID:   student.ID,
		StudentName: student.Name,
		ItemCount:   len(stored),
		Details:     fmt.Sprintf("更新了 %s 的饮食计划（%d 项）", student.Name, len(stored)),
	})
}

// AssignSupplements 整体替换学员的补剂/维生素计划并记录 supplement 类型审计条目
func (d *Dispatcher) AssignSupplements(studentID uint, input SupplementPlanInput) error {
	student, err := d.students.Get(studentID)
	if err != nil {
		return err
	}

	if err := d.plans.SaveSupplementPlan(studentID, input); err != nil {
		return err
	}

	stored, err := d.plans.SupplementPlanFor(studentID)
	if err != nil {
		return err
	}

	return d.record(HistoryInput{
		Action:      db.HistoryActionSupplement,
		StudentID:   student.ID,
		StudentName: student.Name,
		ItemCount:   len(stored.SupplementIDs) + len(stored.VitaminIDs),
		Details: fmt.Sprintf("更新了 %s 的补剂计划（补剂 %d 项 / 维生素 %d 项）",
			student.Name, len(stored.SupplementIDs), len(stored.VitaminIDs)),
	})
}

// ClearHistory 清空审计日志；清空本身不产生新条目，但会触发刷新
func (d *Dispatcher) ClearHistory() error {
	if err := d.history.Clear(); err != nil {
		return err
	}
	if _, err := d.refresh.Trigger(); err != nil {
		return err
	}
	return nil
}
