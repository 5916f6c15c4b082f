package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymlog/internal/db"
	"github.com/gymlog/internal/service"
)

// ListHistory 返回审计日志，支持 type 过滤与关键字搜索，按时间倒序
func (a *API) ListHistory(c *gin.Context) {
	filter := service.HistoryFilter{
		Action: c.Query("type"),
		Search: c.Query("search"),
	}

	entries, err := a.history.Query(filter)
	if err != nil {
		handleHistoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": serializeHistoryEntries(entries)})
}

// ListHistoryGrouped 返回按自然日分桶的审计日志视图
func (a *API) ListHistoryGrouped(c *gin.Context) {
	filter := service.HistoryFilter{
		Action: c.Query("type"),
		Search: c.Query("search"),
	}

	entries, err := a.history.Query(filter)
	if err != nil {
		handleHistoryError(c, err)
		return
	}

	groups := service.GroupByDate(entries)
	payload := make([]gin.H, 0, len(groups))
	for _, group := range groups {
		payload = append(payload, gin.H{
			"date":    group.Date,
			"entries": serializeHistoryEntries(group.Entries),
		})
	}

	c.JSON(http.StatusOK, gin.H{"groups": payload})
}

// ClearHistory 整体清空审计日志，操作不可恢复
func (a *API) ClearHistory(c *gin.Context) {
	if err := a.dispatcher.ClearHistory(); err != nil {
		respondError(c, http.StatusInternalServerError, "清空日志失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

func serializeHistoryEntries(entries []db.HistoryEntry) []gin.H {
	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		item := gin.H{
			"id":           entry.ID,
			"type":         entry.Action,
			"student_id":   entry.StudentID,
			"student_name": entry.StudentName,
			"details":      entry.Details,
			"timestamp":    entry.CreatedAt.Format(time.RFC3339),
		}
		if entry.Day != 0 {
			item["day"] = entry.Day
		}
		if entry.ItemCount != 0 {
			item["item_count"] = entry.ItemCount
		}
		items = append(items, item)
	}
	return items
}

func handleHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidHistoryAction):
		respondError(c, http.StatusBadRequest, "无效的日志类型")
	default:
		respondError(c, http.StatusInternalServerError, "获取日志失败")
	}
}
