package public

import (
	"strconv"

	handlershared "github.com/ordertrack/internal/http/handlers/shared"
	"github.com/ordertrack/internal/http/response"
	"github.com/ordertrack/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品目录列表（仅在售商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        c.Query("search"),
		OnlyAvailable: true,
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

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	product, perr := h.ProductService.Get(uint(id))
	if perr != nil {
		respondError(c, response.CodeNotFound, "product not found", nil)
		return
	}

	response.Success(c, product)
}
