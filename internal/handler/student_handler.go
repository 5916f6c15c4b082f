package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymlog/internal/db"
	"github.com/gymlog/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type studentPayload struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	AvatarURL string  `json:"avatar_url"`
	Note      string  `json:"note"`
	HeightCM  float64 `json:"height_cm"`
	WeightKG  float64 `json:"weight_kg"`
	Age       int     `json:"age"`
}

// ListStudents 返回学员名册 JSON，支持按姓名/电话搜索
func (a *API) ListStudents(c *gin.Context) {
	filter := service.StudentFilter{Search: c.Query("search")}

	students, err := a.students.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取学员列表失败")
		return
	}

	items := make([]gin.H, 0, len(students))
	for _, student := range students {
		items = append(items, studentToPayload(student))
	}

	c.JSON(http.StatusOK, gin.H{"students": items})
}

// GetStudent 返回单个学员详情，附带渲染后的备注 HTML
func (a *API) GetStudent(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的学员ID")
		return
	}

	student, err := a.students.Get(id)
	if err != nil {
		handleStudentError(c, err)
		return
	}

	payload := studentToPayload(*student)
	payload["note_html"] = renderNoteHTML(student.Note)

	c.JSON(http.StatusOK, gin.H{"student": payload})
}

// CreateStudent 新建学员（经由调度器，成功后自动记录审计并广播刷新）
func (a *API) CreateStudent(c *gin.Context) {
	input, ok := parseStudentInput(c)
	if !ok {
		return
	}

	student, err := a.dispatcher.AddStudent(input)
	if err != nil {
		handleStudentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"student": studentToPayload(*student)})
}

// UpdateStudent 更新学员档案（经由调度器）
func (a *API) UpdateStudent(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的学员ID")
		return
	}

	input, ok := parseStudentInput(c)
	if !ok {
		return
	}

	student, err := a.dispatcher.UpdateStudent(id, input)
	if err != nil {
		handleStudentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"student": studentToPayload(*student)})
}

// DeleteStudent 删除学员及其全部计划（经由调度器）
func (a *API) DeleteStudent(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的学员ID")
		return
	}

	if err := a.dispatcher.DeleteStudent(id); err != nil {
		handleStudentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func parseStudentInput(c *gin.Context) (service.StudentInput, bool) {
	var payload studentPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return service.StudentInput{}, false
	}

	return service.StudentInput{
		Name:      payload.Name,
		Phone:     payload.Phone,
		AvatarURL: payload.AvatarURL,
		Note:      payload.Note,
		HeightCM:  payload.HeightCM,
		WeightKG:  payload.WeightKG,
		Age:       payload.Age,
	}, true
}

func studentToPayload(student db.Student) gin.H {
	return gin.H{
		"id":         student.ID,
		"name":       student.Name,
		"phone":      student.Phone,
		"avatar_url": student.AvatarURL,
		"note":       student.Note,
		"height_cm":  student.HeightCM,
		"weight_kg":  student.WeightKG,
		"age":        student.Age,
		"created_at": student.CreatedAt.Format(time.RFC3339),
	}
}

// renderNoteHTML 把教练备注从 Markdown 渲染为净化后的 HTML
func renderNoteHTML(note string) string {
	if note == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(note), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}

func handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		respondError(c, http.StatusNotFound, "学员不存在")
	case errors.Is(err, service.ErrStudentNameRequired):
		respondError(c, http.StatusBadRequest, "学员姓名不能为空")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
