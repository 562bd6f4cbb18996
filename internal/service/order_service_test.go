package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ordertrack/internal/broadcast"
	"github.com/ordertrack/internal/constants"
	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *broadcast.Hub, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	orderRepo := repository.NewOrderRepository(db)
	historyRepo := repository.NewOrderStatusHistoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	hub := broadcast.NewHub(16)
	svc := NewOrderService(orderRepo, historyRepo, productRepo, userRepo, nil, hub, nil)
	return svc, hub, db
}

func createOrderTestUser(t *testing.T, db *gorm.DB, id uint, role string) Actor {
	t.Helper()
	user := models.User{
		ID:           id,
		Email:        fmt.Sprintf("order_user_%d@example.com", id),
		PasswordHash: "hash",
		Role:         role,
		Status:       constants.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return Actor{ID: id, Role: role}
}

func createOrderTestProduct(t *testing.T, db *gorm.DB, name string, price float64, available bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		IsAvailable: available,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestCreateOrderSnapshotsNameAndPrice(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	pizza := createOrderTestProduct(t, db, "Margherita Pizza", 12.50, true)
	water := createOrderTestProduct(t, db, "Sparkling Water", 2.50, true)

	order, err := svc.CreateOrder(customer, []CreateOrderLine{
		{ProductID: pizza.ID, Quantity: 2},
		{ProductID: water.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromFloat(27.50)) {
		t.Fatalf("expected total 27.50, got %s", order.TotalAmount.String())
	}

	// 改名改价后重读订单，快照不应变化
	pizza.Name = "Renamed Pizza"
	pizza.Price = models.NewMoneyFromDecimal(decimal.NewFromInt(99))
	if err := db.Save(pizza).Error; err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	reloaded, err := svc.GetOrderByNumber(order.OrderNumber)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(reloaded.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(reloaded.Items))
	}
	for _, item := range reloaded.Items {
		if item.ProductID == pizza.ID {
			if item.ProductName != "Margherita Pizza" {
				t.Fatalf("name snapshot lost: %s", item.ProductName)
			}
			if !item.UnitPrice.Decimal.Equal(decimal.NewFromFloat(12.50)) {
				t.Fatalf("price snapshot lost: %s", item.UnitPrice.String())
			}
		}
	}
	if !reloaded.TotalAmount.Decimal.Equal(decimal.NewFromFloat(27.50)) {
		t.Fatalf("total changed after product update: %s", reloaded.TotalAmount.String())
	}
}

func TestCreateOrderNumberFormat(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	product := createOrderTestProduct(t, db, "Caesar Salad", 8.00, true)

	order, err := svc.CreateOrder(customer, []CreateOrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	expected := fmt.Sprintf("ORD-%d-%06d", time.Now().UTC().Year(), order.ID)
	if order.OrderNumber != expected {
		t.Fatalf("expected order number %s, got %s", expected, order.OrderNumber)
	}
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	available := createOrderTestProduct(t, db, "Tiramisu", 6.80, true)
	unavailable := createOrderTestProduct(t, db, "Seasonal Special", 9.90, false)

	cases := []struct {
		name  string
		lines []CreateOrderLine
		want  error
	}{
		{"empty order", nil, ErrEmptyOrder},
		{"zero quantity", []CreateOrderLine{{ProductID: available.ID, Quantity: 0}}, ErrInvalidQuantity},
		{"negative quantity", []CreateOrderLine{{ProductID: available.ID, Quantity: -1}}, ErrInvalidQuantity},
		{"unknown product", []CreateOrderLine{{ProductID: 9999, Quantity: 1}}, ErrInvalidProduct},
		{"unavailable product", []CreateOrderLine{{ProductID: unavailable.ID, Quantity: 1}}, ErrInvalidProduct},
		{"one bad line fails whole order", []CreateOrderLine{
			{ProductID: available.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		}, ErrInvalidProduct},
	}
	for _, tc := range cases {
		if _, err := svc.CreateOrder(customer, tc.lines); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// 整单失败时不允许留下任何残留数据
	var orderCount, itemCount, historyCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	db.Model(&models.OrderStatusHistory{}).Count(&historyCount)
	if orderCount != 0 || itemCount != 0 || historyCount != 0 {
		t.Fatalf("failed creations left rows: orders=%d items=%d histories=%d", orderCount, itemCount, historyCount)
	}
}

func TestOrderLifecycleHappyPath(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	manager := createOrderTestUser(t, db, 2, constants.RoleManager)
	courier := createOrderTestUser(t, db, 3, constants.RoleDeliveryPerson)
	product := createOrderTestProduct(t, db, "Pepperoni Pizza", 14.90, true)

	order, err := svc.CreateOrder(customer, []CreateOrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	confirmed, err := svc.ConfirmOrder(order.OrderNumber, manager)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}

	accepted, err := svc.AcceptOrderForDelivery(order.OrderNumber, courier)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != constants.OrderStatusOutForDelivery {
		t.Fatalf("expected out_for_delivery, got %s", accepted.Status)
	}
	if accepted.DeliveryPersonID == nil || *accepted.DeliveryPersonID != courier.ID {
		t.Fatalf("delivery person not assigned: %+v", accepted.DeliveryPersonID)
	}

	delivered, err := svc.MarkOrderDelivered(order.OrderNumber, courier)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if delivered.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", delivered.Status)
	}

	histories, err := svc.GetOrderStatusHistories(order.OrderNumber)
	if err != nil {
		t.Fatalf("get histories failed: %v", err)
	}
	wantStatuses := []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusOutForDelivery,
		constants.OrderStatusDelivered,
	}
	if len(histories) != len(wantStatuses) {
		t.Fatalf("expected %d history entries, got %d", len(wantStatuses), len(histories))
	}
	for i, want := range wantStatuses {
		if histories[i].Status != want {
			t.Fatalf("history[%d]: expected %s, got %s", i, want, histories[i].Status)
		}
	}
	wantActors := []uint{customer.ID, manager.ID, courier.ID, courier.ID}
	for i, want := range wantActors {
		if histories[i].UpdatedBy == nil || *histories[i].UpdatedBy != want {
			t.Fatalf("history[%d]: expected actor %d, got %+v", i, want, histories[i].UpdatedBy)
		}
	}
}

func TestConfirmOrderTwiceFails(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	manager := createOrderTestUser(t, db, 2, constants.RoleManager)
	product := createOrderTestProduct(t, db, "Caesar Salad", 8.00, true)

	order, err := svc.CreateOrder(customer, []CreateOrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.ConfirmOrder(order.OrderNumber, manager); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	if _, err := svc.ConfirmOrder(order.OrderNumber, manager); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second confirm: expected ErrInvalidTransition, got %v", err)
	}

	// 失败的迁移不得追加历史
	histories, err := svc.GetOrderStatusHistories(order.OrderNumber)
	if err != nil {
		t.Fatalf("get histories failed: %v", err)
	}
	if len(histories) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(histories))
	}
}

func TestTransitionRoleChecks(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	manager := createOrderTestUser(t, db, 2, constants.RoleManager)
	courier := createOrderTestUser(t, db, 3, constants.RoleDeliveryPerson)
	product := createOrderTestProduct(t, db, "Tiramisu", 6.80, true)

	order, err := svc.CreateOrder(customer, []CreateOrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.ConfirmOrder(order.OrderNumber, customer); !errors.Is(err, ErrForbidden) {
		t.Fatalf("customer confirm: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ConfirmOrder(order.OrderNumber, courier); !errors.Is(err, ErrForbidden) {
		t.Fatalf("courier confirm: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.AcceptOrderForDelivery(order.OrderNumber, manager); !errors.Is(err, ErrForbidden) {
		t.Fatalf("manager accept: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.MarkOrderDelivered(order.OrderNumber, customer); !errors.Is(err, ErrForbidden) {
		t.Fatalf("customer deliver: expected ErrForbidden, got %v", err)
	}
}

func TestDeliverOutOfSequence(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	manager := createOrderTestUser(t, db, 2, constants.RoleManager)
	courier := createOrderTestUser(t, db, 3, constants.RoleDeliveryPerson)
	product := createOrderTestProduct(t, db, "Caesar Salad", 8.00, true)

	order, err := svc.CreateOrder(customer, []CreateOrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.ConfirmOrder(order.OrderNumber, manager); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	// 跳过领单直接交付：先报非法迁移，而不是越权
	if _, err := svc.MarkOrderDelivered(order.OrderNumber, courier); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("deliver from confirmed: expected ErrInvalidTransition, got %v", err)
	}
}

func TestDeliverByWrongCourier(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	manager := createOrderTestUser(t, db, 2, constants.RoleManager)
	courierA := createOrderTestUser(t, db, 3, constants.RoleDeliveryPerson)
	courierB := createOrderTestUser(t, db, 4, constants.RoleDeliveryPerson)
	product := createOrderTestProduct(t, db, "Pepperoni Pizza", 14.90, true)

	order, err := svc.CreateOrder(customer, []CreateOrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.ConfirmOrder(order.OrderNumber, manager); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := svc.AcceptOrderForDelivery(order.OrderNumber, courierA); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if _, err := svc.MarkOrderDelivered(order.OrderNumber, courierB); !errors.Is(err, ErrForbidden) {
		t.Fatalf("wrong courier deliver: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.MarkOrderDelivered(order.OrderNumber, courierA); err != nil {
		t.Fatalf("assigned courier deliver failed: %v", err)
	}
}

func TestAcceptOrderOnlyOneCourierWins(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	manager := createOrderTestUser(t, db, 2, constants.RoleManager)
	courierA := createOrderTestUser(t, db, 3, constants.RoleDeliveryPerson)
	courierB := createOrderTestUser(t, db, 4, constants.RoleDeliveryPerson)
	product := createOrderTestProduct(t, db, "Margherita Pizza", 12.50, true)

	order, err := svc.CreateOrder(customer, []CreateOrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.ConfirmOrder(order.OrderNumber, manager); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	accepted, err := svc.AcceptOrderForDelivery(order.OrderNumber, courierA)
	if err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if _, err := svc.AcceptOrderForDelivery(order.OrderNumber, courierB); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second accept: expected ErrInvalidTransition, got %v", err)
	}

	reloaded, err := svc.GetOrderByNumber(order.OrderNumber)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if reloaded.DeliveryPersonID == nil || *reloaded.DeliveryPersonID != courierA.ID {
		t.Fatalf("assignee changed after losing accept: %+v", reloaded.DeliveryPersonID)
	}
	if accepted.Status != constants.OrderStatusOutForDelivery {
		t.Fatalf("unexpected status: %s", accepted.Status)
	}
}

func TestTransitionUnknownOrder(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	manager := createOrderTestUser(t, db, 1, constants.RoleManager)

	if _, err := svc.ConfirmOrder("ORD-2026-999999", manager); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderPoolsAndQueries(t *testing.T) {
	svc, _, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	manager := createOrderTestUser(t, db, 2, constants.RoleManager)
	courier := createOrderTestUser(t, db, 3, constants.RoleDeliveryPerson)
	product := createOrderTestProduct(t, db, "Caesar Salad", 8.00, true)

	var orderNumbers []string
	for i := 0; i < 3; i++ {
		order, err := svc.CreateOrder(customer, []CreateOrderLine{{ProductID: product.ID, Quantity: 1}})
		if err != nil {
			t.Fatalf("create order failed: %v", err)
		}
		orderNumbers = append(orderNumbers, order.OrderNumber)
	}

	pending, err := svc.GetAllPendingOrders()
	if err != nil {
		t.Fatalf("pending pool failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending orders, got %d", len(pending))
	}
	// 待确认池按创建先后排列
	for i, orderNumber := range orderNumbers {
		if pending[i].OrderNumber != orderNumber {
			t.Fatalf("pending pool out of order at %d: %s", i, pending[i].OrderNumber)
		}
	}

	if _, err := svc.ConfirmOrder(orderNumbers[0], manager); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := svc.ConfirmOrder(orderNumbers[1], manager); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	available, err := svc.AvailableOrderForDelivery()
	if err != nil {
		t.Fatalf("available pool failed: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("expected 2 available orders, got %d", len(available))
	}

	if _, err := svc.AcceptOrderForDelivery(orderNumbers[0], courier); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	deliveries, err := svc.GetOutForDeliveryOrdersByDeliveryPersonID(courier.ID)
	if err != nil {
		t.Fatalf("delivery list failed: %v", err)
	}
	if len(deliveries) != 1 || deliveries[0].OrderNumber != orderNumbers[0] {
		t.Fatalf("unexpected delivery list: %+v", deliveries)
	}

	mine, total, err := svc.GetMyOrders(customer.ID, 1, 10)
	if err != nil {
		t.Fatalf("my orders failed: %v", err)
	}
	if total != 3 || len(mine) != 3 {
		t.Fatalf("expected 3 own orders, got total=%d len=%d", total, len(mine))
	}

	other, total, err := svc.GetMyOrders(manager.ID, 1, 10)
	if err != nil {
		t.Fatalf("my orders failed: %v", err)
	}
	if total != 0 || len(other) != 0 {
		t.Fatalf("expected empty list for other user, got total=%d len=%d", total, len(other))
	}
}

func TestTransitionBroadcasts(t *testing.T) {
	svc, hub, db := setupOrderServiceTest(t)
	customer := createOrderTestUser(t, db, 1, constants.RoleUser)
	manager := createOrderTestUser(t, db, 2, constants.RoleManager)
	courier := createOrderTestUser(t, db, 3, constants.RoleDeliveryPerson)
	product := createOrderTestProduct(t, db, "Tiramisu", 6.80, true)

	managerPool := hub.Subscribe(constants.ChannelManagerPool)
	deliveryPool := hub.Subscribe(constants.ChannelDeliveryPool)
	defer hub.Unsubscribe(managerPool)
	defer hub.Unsubscribe(deliveryPool)

	order, err := svc.CreateOrder(customer, []CreateOrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	orderChannel := hub.Subscribe(broadcast.OrderChannel(order.OrderNumber))
	defer hub.Unsubscribe(orderChannel)

	select {
	case event := <-managerPool.C:
		if event.Name != constants.EventNewPendingOrder || event.OrderNumber != order.OrderNumber {
			t.Fatalf("unexpected manager pool event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("manager pool event not received")
	}

	if _, err := svc.ConfirmOrder(order.OrderNumber, manager); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	select {
	case event := <-deliveryPool.C:
		if event.Name != constants.EventOrderAvailable || event.Status != constants.OrderStatusConfirmed {
			t.Fatalf("unexpected delivery pool event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("delivery pool event not received")
	}
	select {
	case event := <-orderChannel.C:
		if event.Name != constants.EventOrderStatus || event.Status != constants.OrderStatusConfirmed {
			t.Fatalf("unexpected order event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("order channel event not received")
	}

	if _, err := svc.AcceptOrderForDelivery(order.OrderNumber, courier); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	select {
	case event := <-orderChannel.C:
		if event.Status != constants.OrderStatusOutForDelivery {
			t.Fatalf("unexpected order event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("out_for_delivery event not received")
	}

	if _, err := svc.MarkOrderDelivered(order.OrderNumber, courier); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	select {
	case event := <-orderChannel.C:
		if event.Status != constants.OrderStatusDelivered {
			t.Fatalf("unexpected order event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("delivered event not received")
	}
}
