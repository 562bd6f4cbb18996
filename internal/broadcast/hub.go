package broadcast

import (
	"sync"

	"github.com/ordertrack/internal/constants"
	"github.com/ordertrack/internal/logger"
)

// Event 广播事件
type Event struct {
	Name        string `json:"event"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status,omitempty"`
}

// Subscription 一个订阅者在某个频道上的订阅
// C 上收不到的事件直接丢弃（至多一次，不回放）
type Subscription struct {
	Channel string
	C       chan Event
}

// Hub 频道到订阅者集合的显式注册表
// 订阅者连接时加入，断开时必须调用 Unsubscribe 清理
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Subscription]struct{}
	buffer   int

	bridge *redisBridge
}

// NewHub 创建广播中心
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		channels: make(map[string]map[*Subscription]struct{}),
		buffer:   buffer,
	}
}

// OrderChannel 订单频道键
func OrderChannel(orderNumber string) string {
	return constants.ChannelOrderPrefix + orderNumber
}

// Subscribe 在频道上注册订阅者
func (h *Hub) Subscribe(channel string) *Subscription {
	sub := &Subscription{
		Channel: channel,
		C:       make(chan Event, h.buffer),
	}
	h.mu.Lock()
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.channels[channel] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe 注销订阅者并移除空频道
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	if subs, ok := h.channels[sub.Channel]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.channels, sub.Channel)
		}
	}
	h.mu.Unlock()
}

// SubscriberCount 频道当前订阅者数量
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Publish 向频道发布事件
// 启用 Redis 桥接时经由 Redis 转发，保证多实例一致的扇出
func (h *Hub) Publish(channel string, event Event) {
	if h == nil {
		return
	}
	if h.bridge != nil {
		if err := h.bridge.publish(channel, event); err != nil {
			logger.Warnw("broadcast_redis_publish_failed",
				"channel", channel,
				"event", event.Name,
				"error", err,
			)
			h.deliverLocal(channel, event)
		}
		return
	}
	h.deliverLocal(channel, event)
}

// deliverLocal 投递给本进程订阅者，缓冲满时丢弃
func (h *Hub) deliverLocal(channel string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.channels[channel] {
		select {
		case sub.C <- event:
		default:
			logger.Debugw("broadcast_subscriber_dropped_event",
				"channel", channel,
				"event", event.Name,
			)
		}
	}
}
