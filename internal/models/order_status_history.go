package models

import (
	"time"
)

// OrderStatusHistory 订单状态历史表（只追加，不修改不删除）
type OrderStatusHistory struct {
	ID          uint      `gorm:"primarykey" json:"id"`                    // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`          // 订单ID
	OrderNumber string    `gorm:"index;not null" json:"order_number"`      // 订单编号（冗余，便于按编号查询）
	Status      string    `gorm:"not null" json:"status"`                  // 本次记录的状态
	UpdatedBy   *uint     `gorm:"index" json:"updated_by,omitempty"`       // 触发者用户ID
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                 // 记录时间（UTC）

	Actor *User `gorm:"foreignKey:UpdatedBy" json:"actor,omitempty"` // 触发者
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
