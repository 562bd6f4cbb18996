package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
// 被历史订单项引用的商品不允许物理删除，下架通过 is_available 标记实现
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                // 主键
	Name        string         `gorm:"not null" json:"name"`                                // 商品名称
	Description string         `gorm:"type:text" json:"description"`                        // 商品描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 当前单价
	IsAvailable bool           `gorm:"index;default:true" json:"is_available"`              // 是否可售
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
