package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gymlog/internal/db"
	"github.com/gymlog/internal/service"
)

type exerciseItemPayload struct {
	ExerciseID uint   `json:"exercise_id"`
	Sets       int    `json:"sets"`
	Reps       string `json:"reps"`
}

type exercisePlanPayload struct {
	Items []exerciseItemPayload `json:"items"`
}

type supplementPlanPayload struct {
	SupplementIDs *[]uint `json:"supplement_ids"`
	VitaminIDs    *[]uint `json:"vitamin_ids"`
}

type dietPlanPayload struct {
	MealIDs []uint `json:"meal_ids"`
}

// GetExercisePlan 返回某学员某一天的训练计划
func (a *API) GetExercisePlan(c *gin.Context) {
	studentID, day, ok := parsePlanKey(c)
	if !ok {
		return
	}

	records, err := a.plans.ExercisePlan(studentID, day)
	if err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"student_id": studentID,
		"day":        day,
		"items":      serializeExerciseItems(records),
	})
}

// GetExercisePlans 返回某学员四天计划的全量视图
func (a *API) GetExercisePlans(c *gin.Context) {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的学员ID")
		return
	}

	if _, err := a.students.Get(studentID); err != nil {
		handleStudentError(c, err)
		return
	}

	plans, err := a.plans.ExercisePlansByDay(studentID)
	if err != nil {
		handlePlanError(c, err)
		return
	}

	days := make(map[int][]gin.H, len(plans))
	for day, records := range plans {
		days[day] = serializeExerciseItems(records)
	}

	c.JSON(http.StatusOK, gin.H{"student_id": studentID, "days": days})
}

// SaveExercisePlan 整体替换某学员某一天的训练计划（经由调度器）
func (a *API) SaveExercisePlan(c *gin.Context) {
	studentID, day, ok := parsePlanKey(c)
	if !ok {
		return
	}

	var payload exercisePlanPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	items := make([]service.ExerciseItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, service.ExerciseItem{
			ExerciseID: item.ExerciseID,
			Sets:       item.Sets,
			Reps:       item.Reps,
		})
	}

	if err := a.dispatcher.AssignExercises(studentID, day, items); err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true, "student_id": studentID, "day": day})
}

// ToggleExercise 切换某动作在某天计划中的成员资格（经由调度器）
func (a *API) ToggleExercise(c *gin.Context) {
	studentID, day, ok := parsePlanKey(c)
	if !ok {
		return
	}

	var payload exerciseItemPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	added, err := a.dispatcher.ToggleExercise(studentID, day, service.ExerciseItem{
		ExerciseID: payload.ExerciseID,
		Sets:       payload.Sets,
		Reps:       payload.Reps,
	})
	if err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"added": added, "student_id": studentID, "day": day})
}

// GetDietPlan 返回学员的饮食计划
func (a *API) GetDietPlan(c *gin.Context) {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的学员ID")
		return
	}

	if _, err := a.students.Get(studentID); err != nil {
		handleStudentError(c, err)
		return
	}

	mealIDs, err := a.plans.DietPlan(studentID)
	if err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"student_id": studentID, "meal_ids": mealIDs})
}

// SaveDietPlan 整体替换学员的饮食计划（经由调度器）
func (a *API) SaveDietPlan(c *gin.Context) {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的学员ID")
		return
	}

	var payload dietPlanPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if err := a.dispatcher.AssignDiet(studentID, payload.MealIDs); err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true, "student_id": studentID})
}

// GetSupplementPlan 返回学员的补剂/维生素计划
func (a *API) GetSupplementPlan(c *gin.Context) {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的学员ID")
		return
	}

	if _, err := a.students.Get(studentID); err != nil {
		handleStudentError(c, err)
		return
	}

	plan, err := a.plans.SupplementPlanFor(studentID)
	if err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"student_id":     studentID,
		"supplement_ids": plan.SupplementIDs,
		"vitamin_ids":    plan.VitaminIDs,
	})
}

// SaveSupplementPlan 整体替换补剂/维生素计划，两类集合必须同时提供
func (a *API) SaveSupplementPlan(c *gin.Context) {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的学员ID")
		return
	}

	var payload supplementPlanPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	// 只替换其中一类不是受支持的操作
	if payload.SupplementIDs == nil || payload.VitaminIDs == nil {
		respondError(c, http.StatusBadRequest, "补剂与维生素两类集合必须同时提供")
		return
	}

	input := service.SupplementPlanInput{
		SupplementIDs: *payload.SupplementIDs,
		VitaminIDs:    *payload.VitaminIDs,
	}

	if err := a.dispatcher.AssignSupplements(studentID, input); err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true, "student_id": studentID})
}

func parsePlanKey(c *gin.Context) (uint, int, bool) {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的学员ID")
		return 0, 0, false
	}

	day, err := parseIntParam(c, "day")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的训练日")
		return 0, 0, false
	}

	return studentID, day, true
}

func serializeExerciseItems(records []db.ExerciseAssignment) []gin.H {
	items := make([]gin.H, 0, len(records))
	for _, record := range records {
		items = append(items, gin.H{
			"exercise_id": record.ExerciseID,
			"sets":        record.Sets,
			"reps":        record.Reps,
		})
	}
	return items
}

func handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		respondError(c, http.StatusNotFound, "学员不存在")
	case errors.Is(err, service.ErrInvalidPlanDay):
		respondError(c, http.StatusBadRequest, "训练日必须在 1-4 之间")
	case errors.Is(err, service.ErrInvalidExerciseItem):
		respondError(c, http.StatusBadRequest, "训练条目配置无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
