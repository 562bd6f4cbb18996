package models

import (
	"time"
)

// OrderItem 订单项表
// 商品名称与单价在下单时快照，后续商品变动不影响历史订单
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`                          // 订单ID
	ProductID   uint      `gorm:"index;not null" json:"product_id"`                        // 商品ID（弱引用）
	ProductName string    `gorm:"not null" json:"product_name"`                            // 商品名称快照
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价快照
	Quantity    int       `gorm:"not null" json:"quantity"`                                // 数量
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
