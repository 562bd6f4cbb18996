package staff

import (
	"strconv"
	"strings"

	handlershared "github.com/ordertrack/internal/http/handlers/shared"
	"github.com/ordertrack/internal/http/response"
	"github.com/ordertrack/internal/repository"

	"github.com/gin-gonic/gin"
)

func orderNumberParam(c *gin.Context) (string, bool) {
	orderNumber := strings.TrimSpace(c.Param("orderNumber"))
	if orderNumber == "" {
		respondError(c, response.CodeBadRequest, "order number required", nil)
		return "", false
	}
	return orderNumber, true
}

// ConfirmOrder 确认待处理订单（经理）
func (h *Handler) ConfirmOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderNumber, ok := orderNumberParam(c)
	if !ok {
		return
	}

	order, err := h.OrderService.ConfirmOrder(orderNumber, actor)
	if err != nil {
		respondOrderTransitionError(c, err)
		return
	}

	requestLog(c).Infow("order_confirmed",
		"order_no", order.OrderNumber,
		"actor_id", actor.ID,
	)
	response.Success(c, order)
}

// AcceptOrder 配送员领取已确认订单
func (h *Handler) AcceptOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderNumber, ok := orderNumberParam(c)
	if !ok {
		return
	}

	order, err := h.OrderService.AcceptOrderForDelivery(orderNumber, actor)
	if err != nil {
		respondOrderTransitionError(c, err)
		return
	}

	requestLog(c).Infow("order_accepted_for_delivery",
		"order_no", order.OrderNumber,
		"delivery_person_id", actor.ID,
	)
	response.Success(c, order)
}

// MarkDelivered 配送员完成订单
func (h *Handler) MarkDelivered(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orderNumber, ok := orderNumberParam(c)
	if !ok {
		return
	}

	order, err := h.OrderService.MarkOrderDelivered(orderNumber, actor)
	if err != nil {
		respondOrderTransitionError(c, err)
		return
	}

	requestLog(c).Infow("order_delivered",
		"order_no", order.OrderNumber,
		"delivery_person_id", actor.ID,
	)
	response.Success(c, order)
}

// ListPendingOrders 待确认订单池（经理）
func (h *Handler) ListPendingOrders(c *gin.Context) {
	orders, err := h.OrderService.GetAllPendingOrders()
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.Success(c, orders)
}

// ListAvailableOrders 可领取订单池（配送员）
func (h *Handler) ListAvailableOrders(c *gin.Context) {
	orders, err := h.OrderService.AvailableOrderForDelivery()
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.Success(c, orders)
}

// ListMyDeliveries 当前配送员在途订单
func (h *Handler) ListMyDeliveries(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orders, err := h.OrderService.GetOutForDeliveryOrdersByDeliveryPersonID(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.Success(c, orders)
}

// ListOrders 全量订单列表（经理/管理员）
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(c.Query("status")),
		OrderNumber: strings.TrimSpace(c.Query("order_no")),
	}
	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil && userID > 0 {
		filter.UserID = uint(userID)
	}

	orders, total, err := h.OrderService.GetAllOrders(filter)
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

// GetOrderHistory 订单状态历史（员工侧不限归属）
func (h *Handler) GetOrderHistory(c *gin.Context) {
	orderNumber, ok := orderNumberParam(c)
	if !ok {
		return
	}

	histories, err := h.OrderService.GetOrderStatusHistories(orderNumber)
	if err != nil {
		respondOrderTransitionError(c, err)
		return
	}
	response.Success(c, histories)
}
