package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetRefreshSeq 返回当前失效序号，读取方将其作为缓存依赖键
func (a *API) GetRefreshSeq(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"seq": a.refresh.Seq()})
}

// StreamRefresh 通过 SSE 向打开的视图推送失效序号
// 每个连接一个订阅通道，连接断开即注销
func (a *API) StreamRefresh(c *gin.Context) {
	subscriber := a.refresh.Subscribe()
	defer a.refresh.Unsubscribe(subscriber)

	// 先推一次当前序号，新连接无需等待下一次变更
	c.SSEvent("refresh", gin.H{"seq": a.refresh.Seq()})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case seq, ok := <-subscriber:
			if !ok {
				return false
			}
			c.SSEvent("refresh", gin.H{"seq": seq})
			return true
		case <-clientGone:
			return false
		}
	})
}
