package events

import (
	"encoding/json"
	"time"

	"github.com/ordertrack/internal/config"
	"github.com/ordertrack/internal/logger"

	"github.com/IBM/sarama"
)

// OrderEvent 写入事件流的订单状态事件
type OrderEvent struct {
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	ActorID     uint      `json:"actor_id,omitempty"`
	At          time.Time `json:"at"`
}

// Producer 订单事件流生产者（Kafka，可选）
type Producer struct {
	producer sarama.AsyncProducer
	topic    string
	enabled  bool
}

// NewProducer 创建生产者，未启用时返回空实现
func NewProducer(cfg *config.KafkaConfig) (*Producer, error) {
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		return &Producer{enabled: false}, nil
	}

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Compression = sarama.CompressionSnappy
	sc.Producer.Flush.Frequency = 500 * time.Millisecond
	sc.Producer.Retry.Max = 5

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, err
	}

	go func() {
		for perr := range producer.Errors() {
			logger.Warnw("order_event_publish_failed", "error", perr.Err)
		}
	}()

	return &Producer{
		producer: producer,
		topic:    cfg.Topic,
		enabled:  true,
	}, nil
}

// Enabled 判断事件流是否启用
func (p *Producer) Enabled() bool {
	return p != nil && p.enabled && p.producer != nil
}

// PublishOrderEvent 发布订单状态事件（异步，失败只记日志）
func (p *Producer) PublishOrderEvent(event OrderEvent) {
	if !p.Enabled() {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Warnw("order_event_marshal_failed", "error", err)
		return
	}
	p.producer.Input() <- &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderNumber),
		Value: sarama.ByteEncoder(payload),
	}
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.producer.Close()
}
