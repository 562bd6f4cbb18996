package staff

import (
	"strconv"

	handlershared "github.com/ordertrack/internal/http/handlers/shared"
	"github.com/ordertrack/internal/http/response"
	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/repository"
	"github.com/ordertrack/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Price       models.Money `json:"price"`
	IsAvailable *bool        `json:"is_available"`
}

func (r ProductRequest) toInput() service.ProductInput {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		IsAvailable: available,
	}
}

func productIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return 0, false
	}
	return uint(id), true
}

// ListProducts 商品列表（含下架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondProductError(c, err)
		return
	}

	requestLog(c).Infow("product_created", "product_id", product.ID)
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondProductError(c, err)
		return
	}

	response.Success(c, product)
}

// SetProductAvailability 商品上下架
func (h *Handler) SetProductAvailability(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.SetAvailability(id, *req.IsAvailable)
	if err != nil {
		respondProductError(c, err)
		return
	}

	response.Success(c, product)
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrInvalidPrice, code: response.CodeBadRequest, msg: "product price must not be negative"},
	{target: service.ErrInvalidProductName, code: response.CodeBadRequest, msg: "product name must not be empty"},
}

func respondProductError(c *gin.Context, err error) {
	respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product update failed")
}
