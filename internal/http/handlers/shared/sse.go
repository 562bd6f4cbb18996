package shared

import (
	"io"
	"time"

	"github.com/ordertrack/internal/broadcast"

	"github.com/gin-gonic/gin"
)

const sseHeartbeatInterval = 15 * time.Second

// StreamBroadcast 以 SSE 方式转发指定频道的广播事件，直到客户端断开。
// 定期发送心跳避免中间代理断开空闲连接。
func StreamBroadcast(c *gin.Context, hub *broadcast.Hub, channel string) {
	sub := hub.Subscribe(channel)
	defer hub.Unsubscribe(sub)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(sseHeartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(event.Name, event)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
