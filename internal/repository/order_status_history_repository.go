package repository

import (
	"github.com/ordertrack/internal/models"

	"gorm.io/gorm"
)

// OrderStatusHistoryRepository 订单状态历史数据访问接口
// 历史只追加，不提供更新和删除
type OrderStatusHistoryRepository interface {
	Append(history *models.OrderStatusHistory) error
	ListByOrderID(orderID uint) ([]models.OrderStatusHistory, error)
	CountByOrderID(orderID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormOrderStatusHistoryRepository
}

// GormOrderStatusHistoryRepository GORM 实现
type GormOrderStatusHistoryRepository struct {
	db *gorm.DB
}

// NewOrderStatusHistoryRepository 创建状态历史仓库
func NewOrderStatusHistoryRepository(db *gorm.DB) *GormOrderStatusHistoryRepository {
	return &GormOrderStatusHistoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderStatusHistoryRepository) WithTx(tx *gorm.DB) *GormOrderStatusHistoryRepository {
	if tx == nil {
		return r
	}
	return &GormOrderStatusHistoryRepository{db: tx}
}

// Append 追加一条历史记录
func (r *GormOrderStatusHistoryRepository) Append(history *models.OrderStatusHistory) error {
	return r.db.Create(history).Error
}

// ListByOrderID 按提交顺序返回订单的全部历史
func (r *GormOrderStatusHistoryRepository) ListByOrderID(orderID uint) ([]models.OrderStatusHistory, error) {
	var histories []models.OrderStatusHistory
	if err := r.db.Preload("Actor").
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

// CountByOrderID 统计订单的历史条数
func (r *GormOrderStatusHistoryRepository) CountByOrderID(orderID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.OrderStatusHistory{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
