package broadcast

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ordertrack/internal/logger"

	"github.com/redis/go-redis/v9"
)

type redisBridge struct {
	client *redis.Client
	prefix string
}

func (b *redisBridge) topic(channel string) string {
	return b.prefix + ":broadcast:" + channel
}

func (b *redisBridge) publish(channel string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(context.Background(), b.topic(channel), payload).Err()
}

// EnableRedisBridge 让 Hub 经由 Redis Pub/Sub 扇出
// 订阅本前缀下的所有广播主题并投递给本进程订阅者
func (h *Hub) EnableRedisBridge(ctx context.Context, client *redis.Client, prefix string) {
	if h == nil || client == nil {
		return
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "ot"
	}
	bridge := &redisBridge{client: client, prefix: prefix}
	h.bridge = bridge

	pubsub := client.PSubscribe(ctx, bridge.topic("*"))
	go func() {
		defer pubsub.Close()
		topicPrefix := bridge.topic("")
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logger.Warnw("broadcast_redis_payload_invalid", "error", err)
					continue
				}
				channel := strings.TrimPrefix(msg.Channel, topicPrefix)
				h.deliverLocal(channel, event)
			}
		}
	}()
}
