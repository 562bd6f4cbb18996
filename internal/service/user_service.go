package service

import (
	"context"

	"github.com/ordertrack/internal/cache"
	"github.com/ordertrack/internal/constants"
	"github.com/ordertrack/internal/logger"
	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/repository"
)

// UserService 用户管理服务（管理员侧）
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List 用户列表
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// Get 用户详情
func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

var validRoles = map[string]bool{
	constants.RoleUser:           true,
	constants.RoleManager:        true,
	constants.RoleDeliveryPerson: true,
	constants.RoleAdmin:          true,
}

// UpdateRole 调整用户角色
// 角色变更会提升 token_version，已签发的 Token 随之失效
func (s *UserService) UpdateRole(id uint, role string) (*models.User, error) {
	if !validRoles[role] {
		return nil, ErrInvalidRole
	}
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateRole(user.ID, role); err != nil {
		return nil, err
	}
	if cache.Enabled() {
		if err := cache.DelUserAuthState(context.Background(), user.ID); err != nil {
			logger.Warnw("auth_state_invalidate_failed", "user_id", user.ID, "error", err)
		}
	}
	return s.Get(id)
}
