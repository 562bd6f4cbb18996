package service

import (
	"strings"

	"github.com/ordertrack/internal/constants"
	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/repository"
)

// GetMyOrders 当前用户的订单列表（最新的在前，空结果不报错）
func (s *OrderService) GetMyOrders(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
}

// GetOrderByNumber 按订单编号获取订单
func (s *OrderService) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderStatusHistories 按订单编号返回全部状态历史（按提交顺序）
func (s *OrderService) GetOrderStatusHistories(orderNumber string) ([]models.OrderStatusHistory, error) {
	order, err := s.GetOrderByNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	return s.historyRepo.ListByOrderID(order.ID)
}

// GetAllOrders 管理端订单列表
func (s *OrderService) GetAllOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetAllPendingOrders 全部待确认订单
func (s *OrderService) GetAllPendingOrders() ([]models.Order, error) {
	return s.orderRepo.ListByStatus(constants.OrderStatusPending)
}

// AvailableOrderForDelivery 配送待领池：全部已确认订单
// 这是一个公共池，任何配送员都可以领取其中任意订单
func (s *OrderService) AvailableOrderForDelivery() ([]models.Order, error) {
	return s.orderRepo.ListByStatus(constants.OrderStatusConfirmed)
}

// GetOutForDeliveryOrdersByDeliveryPersonID 某配送员正在配送的订单
func (s *OrderService) GetOutForDeliveryOrdersByDeliveryPersonID(deliveryPersonID uint) ([]models.Order, error) {
	return s.orderRepo.ListByDeliveryPerson(deliveryPersonID, constants.OrderStatusOutForDelivery)
}
