package public

import (
	"strconv"
	"strings"

	"github.com/ordertrack/internal/constants"
	handlershared "github.com/ordertrack/internal/http/handlers/shared"
	"github.com/ordertrack/internal/http/response"
	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	lines := make([]service.CreateOrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.CreateOrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.OrderService.CreateOrder(actor, lines)
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}

	requestLog(c).Infow("order_created",
		"order_no", order.OrderNumber,
		"user_id", actor.ID,
	)
	response.Success(c, order)
}

// ListMyOrders 获取当前用户订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.GetMyOrders(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	order, err := h.resolveAccessibleOrder(c, uid)
	if err != nil {
		respondOrderLookupError(c, err)
		return
	}

	response.Success(c, order)
}

// GetOrderHistory 订单状态历史
func (h *Handler) GetOrderHistory(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	order, err := h.resolveAccessibleOrder(c, uid)
	if err != nil {
		respondOrderLookupError(c, err)
		return
	}

	histories, err := h.OrderService.GetOrderStatusHistories(order.OrderNumber)
	if err != nil {
		respondOrderLookupError(c, err)
		return
	}

	response.Success(c, histories)
}

// resolveAccessibleOrder 解析路径中的订单号并校验访问权限。
// 订单归属人、经理、管理员以及当前指派的配送员可见。
func (h *Handler) resolveAccessibleOrder(c *gin.Context, uid uint) (*models.Order, error) {
	orderNumber := strings.TrimSpace(c.Param("orderNumber"))
	if orderNumber == "" {
		return nil, service.ErrOrderNotFound
	}

	order, err := h.OrderService.GetOrderByNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	if !canAccessOrder(order, uid, getUserRole(c)) {
		return nil, service.ErrForbidden
	}
	return order, nil
}

func canAccessOrder(order *models.Order, uid uint, role string) bool {
	if order == nil {
		return false
	}
	if order.UserID == uid {
		return true
	}
	switch role {
	case constants.RoleManager, constants.RoleAdmin:
		return true
	case constants.RoleDeliveryPerson:
		return order.DeliveryPersonID != nil && *order.DeliveryPersonID == uid
	}
	return false
}
