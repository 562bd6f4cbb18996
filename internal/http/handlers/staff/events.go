package staff

import (
	"github.com/ordertrack/internal/constants"
	handlershared "github.com/ordertrack/internal/http/handlers/shared"
	"github.com/ordertrack/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SubscribePoolEvents 订阅角色事件池（SSE）
// 经理收到新待处理订单，配送员收到可领取订单。
// 管理员可通过 pool 参数选择任一事件池。
func (h *Handler) SubscribePoolEvents(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	channel := ""
	switch getUserRole(c) {
	case constants.RoleManager:
		channel = constants.ChannelManagerPool
	case constants.RoleDeliveryPerson:
		channel = constants.ChannelDeliveryPool
	case constants.RoleAdmin:
		if c.Query("pool") == "delivery" {
			channel = constants.ChannelDeliveryPool
		} else {
			channel = constants.ChannelManagerPool
		}
	default:
		respondError(c, response.CodeForbidden, "no event pool for this role", nil)
		return
	}

	requestLog(c).Debugw("pool_events_subscribed",
		"channel", channel,
		"user_id", uid,
	)
	handlershared.StreamBroadcast(c, h.Hub, channel)
}
