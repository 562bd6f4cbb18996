package constants

// 订单状态常量
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	// OrderStatusCancelled 预留终态，当前没有任何操作会迁移到该状态
	OrderStatusCancelled = "cancelled"
)

// 用户角色常量
const (
	RoleUser           = "user"
	RoleManager        = "manager"
	RoleDeliveryPerson = "delivery_person"
	RoleAdmin          = "admin"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 广播频道常量
const (
	ChannelOrderPrefix  = "order:"
	ChannelManagerPool  = "pool:managers"
	ChannelDeliveryPool = "pool:delivery"
)

// 广播事件名常量
const (
	EventOrderStatus     = "order_status"
	EventNewPendingOrder = "new_pending_order"
	EventOrderAvailable  = "order_available"
)

// 队列常量
const (
	QueueDefault = "default"

	TaskOrderCreatedSMS = "sms:order_created"
)

// 订单编号格式（年份 + 6 位补零的订单ID）
const OrderNumberFormat = "ORD-%d-%06d"
