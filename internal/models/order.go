package models

import (
	"time"
)

// Order 订单表
type Order struct {
	ID               uint      `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNumber      string    `gorm:"uniqueIndex;not null" json:"order_number"`                  // 订单编号（ORD-年份-6位ID）
	UserID           uint      `gorm:"index;not null" json:"user_id"`                             // 下单用户ID
	Status           string    `gorm:"index;not null" json:"status"`                              // 订单状态
	TotalAmount      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单总额（下单时冻结）
	DeliveryPersonID *uint     `gorm:"index" json:"delivery_person_id,omitempty"`                 // 配送员ID（接单前为空）
	CreatedAt        time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt        time.Time `gorm:"index" json:"updated_at"`                                   // 更新时间

	Items     []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 订单项
	Histories []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"histories,omitempty"`                         // 状态历史
	User      *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`                               // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
