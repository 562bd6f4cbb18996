package service

import (
	"time"

	"github.com/ordertrack/internal/broadcast"
	"github.com/ordertrack/internal/constants"
	"github.com/ordertrack/internal/events"
	"github.com/ordertrack/internal/logger"
	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/queue"
	"github.com/ordertrack/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单生命周期服务
// 每次状态迁移 = 读当前状态 + 校验 + 更新订单 + 追加历史，全部在一个事务内完成
type OrderService struct {
	orderRepo   repository.OrderRepository
	historyRepo repository.OrderStatusHistoryRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
	hub         *broadcast.Hub
	producer    *events.Producer
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, historyRepo repository.OrderStatusHistoryRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, queueClient *queue.Client, hub *broadcast.Hub, producer *events.Producer) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
		hub:         hub,
		producer:    producer,
	}
}

// CreateOrderLine 创建订单的单行输入
type CreateOrderLine struct {
	ProductID uint
	Quantity  int
}

// CreateOrder 创建订单
// 任意一行商品无法解析则整单失败，不落任何数据
func (s *OrderService) CreateOrder(actor Actor, lines []CreateOrderLine) (*models.Order, error) {
	if actor.ID == 0 {
		return nil, ErrUserNotFound
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == 0 {
			return nil, ErrInvalidProduct
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		productByID[product.ID] = product
	}

	now := time.Now()
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := productByID[line.ProductID]
		if !ok || !product.IsAvailable {
			return nil, ErrInvalidProduct
		}
		// 名称与单价在此刻快照，后续改价不影响已下订单
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			CreatedAt:   now,
		})
		total = total.Add(product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &models.Order{
		UserID:      actor.ID,
		Status:      constants.OrderStatusPending,
		TotalAmount: models.NewMoneyFromDecimal(total),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		historyRepo := s.historyRepo.WithTx(tx)

		// 先落库拿到数字 ID，再回填订单编号
		order.OrderNumber = pendingOrderNumberPlaceholder(now)
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}
		order.OrderNumber = formatOrderNumber(now, order.ID)
		if err := orderRepo.Save(order); err != nil {
			return err
		}

		actorID := actor.ID
		return historyRepo.Append(&models.OrderStatusHistory{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      constants.OrderStatusPending,
			UpdatedBy:   &actorID,
			CreatedAt:   now.UTC(),
		})
	})
	if err != nil {
		logger.Errorw("order_create_failed", "user_id", actor.ID, "error", err)
		return nil, ErrOrderCreateFailed
	}

	s.notifyOrderCreated(order)
	s.publishTransition(order, constants.OrderStatusPending, actor.ID)
	s.hub.Publish(constants.ChannelManagerPool, broadcast.Event{
		Name:        constants.EventNewPendingOrder,
		OrderNumber: order.OrderNumber,
		Status:      constants.OrderStatusPending,
	})

	return order, nil
}

// pendingOrderNumberPlaceholder 占位编号，满足唯一约束直到真实编号回填
// 纳秒时间戳在单库内足够避免碰撞，且整个窗口处于同一事务中
func pendingOrderNumberPlaceholder(now time.Time) string {
	return "PENDING-" + now.UTC().Format("20060102150405.000000000")
}

// ConfirmOrder 经理确认订单（pending -> confirmed）
func (s *OrderService) ConfirmOrder(orderNumber string, actor Actor) (*models.Order, error) {
	if !actor.hasAnyRole(constants.RoleManager, constants.RoleAdmin) {
		return nil, ErrForbidden
	}
	order, err := s.transition(orderNumber, constants.OrderStatusConfirmed, actor, nil)
	if err != nil {
		return nil, err
	}

	s.publishTransition(order, constants.OrderStatusConfirmed, actor.ID)
	// 订单进入待领池，通知所有在线配送员
	s.hub.Publish(constants.ChannelDeliveryPool, broadcast.Event{
		Name:        constants.EventOrderAvailable,
		OrderNumber: order.OrderNumber,
		Status:      constants.OrderStatusConfirmed,
	})
	return order, nil
}

// AcceptOrderForDelivery 配送员领单（confirmed -> out_for_delivery）
// 状态与配送员指派在同一条 UPDATE 中写入，不存在已派未接或已接未派的中间态
func (s *OrderService) AcceptOrderForDelivery(orderNumber string, actor Actor) (*models.Order, error) {
	if !actor.hasAnyRole(constants.RoleDeliveryPerson, constants.RoleAdmin) {
		return nil, ErrForbidden
	}
	deliveryPerson, err := s.userRepo.GetByID(actor.ID)
	if err != nil {
		return nil, err
	}
	if deliveryPerson == nil {
		return nil, ErrUserNotFound
	}

	order, err := s.transition(orderNumber, constants.OrderStatusOutForDelivery, actor, map[string]interface{}{
		"delivery_person_id": deliveryPerson.ID,
	})
	if err != nil {
		return nil, err
	}

	s.publishTransition(order, constants.OrderStatusOutForDelivery, actor.ID)
	return order, nil
}

// MarkOrderDelivered 配送员完成配送（out_for_delivery -> delivered）
// 只有当前指派的配送员可以操作
func (s *OrderService) MarkOrderDelivered(orderNumber string, actor Actor) (*models.Order, error) {
	if !actor.hasAnyRole(constants.RoleDeliveryPerson, constants.RoleAdmin) {
		return nil, ErrForbidden
	}
	order, err := s.transition(orderNumber, constants.OrderStatusDelivered, actor, nil)
	if err != nil {
		return nil, err
	}

	s.publishTransition(order, constants.OrderStatusDelivered, actor.ID)
	return order, nil
}

// transition 执行一次状态迁移
// 订单更新与历史追加要么都发生要么都不发生，历史因此是无缺口的审计账本
func (s *OrderService) transition(orderNumber, target string, actor Actor, updates map[string]interface{}) (*models.Order, error) {
	var updated *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		historyRepo := s.historyRepo.WithTx(tx)

		order, err := orderRepo.GetByOrderNumber(orderNumber)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !isTransitionAllowed(order.Status, target) {
			return ErrInvalidTransition
		}
		if target == constants.OrderStatusDelivered {
			if order.DeliveryPersonID == nil || *order.DeliveryPersonID != actor.ID {
				return ErrForbidden
			}
		}

		now := time.Now()
		if updates == nil {
			updates = map[string]interface{}{}
		}
		updates["updated_at"] = now

		// 条件更新带上读到的状态，两个并发的同一迁移只有一个能赢
		affected, err := orderRepo.UpdateStatusIfCurrent(order.ID, order.Status, target, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}

		actorID := actor.ID
		if err := historyRepo.Append(&models.OrderStatusHistory{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      target,
			UpdatedBy:   &actorID,
			CreatedAt:   now.UTC(),
		}); err != nil {
			return err
		}

		updated, err = orderRepo.GetByID(order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// notifyOrderCreated 下单短信通知，尽力而为，失败不影响订单
func (s *OrderService) notifyOrderCreated(order *models.Order) {
	if !s.queueClient.Enabled() {
		return
	}
	owner, err := s.userRepo.GetByID(order.UserID)
	if err != nil || owner == nil || owner.Phone == "" {
		logger.Debugw("order_sms_skipped_no_phone", "order_no", order.OrderNumber)
		return
	}
	if err := s.queueClient.EnqueueOrderCreatedSMS(queue.OrderCreatedSMSPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Phone:       owner.Phone,
	}); err != nil {
		logger.Warnw("order_sms_enqueue_failed",
			"order_no", order.OrderNumber,
			"error", err,
		)
	}
}

// publishTransition 订单频道广播 + 事件流发布，均不影响已提交的迁移
func (s *OrderService) publishTransition(order *models.Order, status string, actorID uint) {
	s.hub.Publish(broadcast.OrderChannel(order.OrderNumber), broadcast.Event{
		Name:        constants.EventOrderStatus,
		OrderNumber: order.OrderNumber,
		Status:      status,
	})
	s.producer.PublishOrderEvent(events.OrderEvent{
		OrderNumber: order.OrderNumber,
		Status:      status,
		ActorID:     actorID,
		At:          time.Now().UTC(),
	})
}
