package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gymlog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	dispatcher *service.Dispatcher
	students   *service.StudentService
	plans      *service.PlanService
	history    *service.HistoryService
	refresh    *service.RefreshService
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, uploadDir, uploadURL string) *API {
	dispatcher := service.NewDispatcher(gdb)

	return &API{
		db:         gdb,
		dispatcher: dispatcher,
		students:   dispatcher.Students(),
		plans:      dispatcher.Plans(),
		history:    dispatcher.History(),
		refresh:    dispatcher.Refresh(),
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
	}
}

// Ping 用于健康检查
func (a *API) Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}
