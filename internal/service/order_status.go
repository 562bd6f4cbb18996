package service

import (
	"fmt"
	"time"

	"github.com/ordertrack/internal/constants"
)

// allowedTransitions 订单状态机，线性不可跳步不可回退
// cancelled 在枚举中预留，但没有任何迁移指向它
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusOutForDelivery: true,
	},
	constants.OrderStatusOutForDelivery: {
		constants.OrderStatusDelivered: true,
	},
}

// isTransitionAllowed 判断状态迁移是否合法
// 重复迁移到当前状态同样视为非法（confirm 两次第二次必须失败）
func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// formatOrderNumber 生成订单编号，只有在数据库分配数字 ID 后才能调用
func formatOrderNumber(createdAt time.Time, orderID uint) string {
	return fmt.Sprintf(constants.OrderNumberFormat, createdAt.UTC().Year(), orderID)
}

// Actor 触发状态迁移的调用方（ID + 已解析的角色）
type Actor struct {
	ID   uint
	Role string
}

// hasAnyRole 判断调用方是否具备任一角色
func (a Actor) hasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}
