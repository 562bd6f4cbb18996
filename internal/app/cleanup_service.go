package app

import (
	"context"
	"errors"
)

// CleanupService 仅在停止阶段执行清理动作的服务
type CleanupService struct {
	name  string
	close func() error
}

// NewCleanupService 创建清理服务
func NewCleanupService(name string, close func() error) *CleanupService {
	return &CleanupService{name: name, close: close}
}

// Name 服务名称
func (s *CleanupService) Name() string {
	if s == nil || s.name == "" {
		return "cleanup"
	}
	return s.name
}

// Start 阻塞等待停止信号
func (s *CleanupService) Start(ctx context.Context) error {
	if s == nil {
		return errors.New("cleanup service is nil")
	}
	<-ctx.Done()
	return nil
}

// Stop 执行清理动作
func (s *CleanupService) Stop(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}
