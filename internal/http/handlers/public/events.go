package public

import (
	"github.com/ordertrack/internal/broadcast"
	handlershared "github.com/ordertrack/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// SubscribeOrderEvents 订阅单个订单的实时状态事件（SSE）
// 访问权限与订单详情一致。
func (h *Handler) SubscribeOrderEvents(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	order, err := h.resolveAccessibleOrder(c, uid)
	if err != nil {
		respondOrderLookupError(c, err)
		return
	}

	requestLog(c).Debugw("order_events_subscribed",
		"order_no", order.OrderNumber,
		"user_id", uid,
	)
	handlershared.StreamBroadcast(c, h.Hub, broadcast.OrderChannel(order.OrderNumber))
}
