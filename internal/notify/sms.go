package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ordertrack/internal/config"
	"github.com/ordertrack/internal/logger"
)

// SMSSender 短信网关接口
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// NewSMSSender 根据配置创建短信网关
func NewSMSSender(cfg *config.SMSConfig) SMSSender {
	if cfg == nil || !cfg.Enabled {
		return &NoopSMSSender{}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "webhook":
		timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
		if timeout <= 0 {
			timeout = 3 * time.Second
		}
		return &WebhookSMSSender{
			url:    strings.TrimSpace(cfg.WebhookURL),
			from:   strings.TrimSpace(cfg.From),
			client: &http.Client{Timeout: timeout},
		}
	default:
		return &NoopSMSSender{}
	}
}

// NoopSMSSender 空实现，只记日志
type NoopSMSSender struct{}

// Send 记录并丢弃
func (s *NoopSMSSender) Send(_ context.Context, phone, message string) error {
	logger.Debugw("sms_noop_send", "phone", phone, "message", message)
	return nil
}

// WebhookSMSSender 通过 HTTP Webhook 转发短信
type WebhookSMSSender struct {
	url    string
	from   string
	client *http.Client
}

type webhookSMSRequest struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send 发送短信
func (s *WebhookSMSSender) Send(ctx context.Context, phone, message string) error {
	if s.url == "" {
		return fmt.Errorf("sms webhook url not configured")
	}
	body, err := json.Marshal(webhookSMSRequest{
		From:    s.from,
		To:      phone,
		Message: message,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms webhook responded %d", resp.StatusCode)
	}
	return nil
}
