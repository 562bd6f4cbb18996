package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	userSubjectFmt  = "user:%d"
	rolePrefix      = "role:"
)

const defaultRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service Casbin 授权服务
// 统一封装策略加载、授权判定与角色绑定逻辑
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(defaultRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}

	return &Service{enforcer: enforcer}, nil
}

// Enforce 执行授权判断
func (s *Service) Enforce(sub, obj, act string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.Enforce(strings.TrimSpace(sub), NormalizeObject(obj), NormalizeAction(act))
}

// EnforceRole 按角色判定授权
func (s *Service) EnforceRole(role, obj, act string) (bool, error) {
	return s.Enforce(SubjectForRole(role), obj, act)
}

// EnforceUser 按用户 ID 判定授权
func (s *Service) EnforceUser(userID uint, obj, act string) (bool, error) {
	return s.Enforce(SubjectForUser(userID), obj, act)
}

// SetUserRole 绑定用户到唯一角色（替换旧绑定）
func (s *Service) SetUserRole(userID uint, role string) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	subject := SubjectForUser(userID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear user role failed: %w", err)
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, SubjectForRole(role)); err != nil {
		return fmt.Errorf("bind user role failed: %w", err)
	}
	return s.saveAndReload()
}

// ReloadPolicy 重新加载策略
func (s *Service) ReloadPolicy() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.LoadPolicy()
}

// BootstrapBuiltinRoles 写入内置角色的路由策略矩阵
// 幂等，可在每次启动时执行
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for role, policies := range builtinRolePolicies() {
		subject := SubjectForRole(role)
		for _, policy := range policies {
			if _, err := s.enforcer.AddPolicy(subject, NormalizeObject(policy.Object), NormalizeAction(policy.Action)); err != nil {
				return fmt.Errorf("seed role policy failed: %w", err)
			}
		}
	}
	return s.saveAndReload()
}

func (s *Service) saveAndReload() error {
	if err := s.enforcer.SavePolicy(); err != nil {
		return fmt.Errorf("save authz policy failed: %w", err)
	}
	return s.enforcer.LoadPolicy()
}

// SubjectForUser 用户主体标识
func SubjectForUser(userID uint) string {
	return fmt.Sprintf(userSubjectFmt, userID)
}

// SubjectForRole 角色主体标识
func SubjectForRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if strings.HasPrefix(role, rolePrefix) {
		return role
	}
	return rolePrefix + role
}

// NormalizeObject 归一化资源路径（剥离 API 前缀）
func NormalizeObject(object string) string {
	trimmed := strings.TrimSpace(object)
	if trimmed == "" {
		return "/"
	}
	trimmed = strings.TrimPrefix(trimmed, apiV1Prefix)
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return trimmed
}

// NormalizeAction 归一化动作（HTTP 方法大写）
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
