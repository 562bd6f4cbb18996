package service

import (
	"strings"

	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/repository"
)

// ProductService 商品目录服务
// 订单侧只在下单时读取商品的存在性和价格
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// Get 商品详情
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name        string
	Description string
	Price       models.Money
	IsAvailable bool
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProductName
	}
	if input.Price.Decimal.IsNegative() {
		return nil, ErrInvalidPrice
	}
	product := &models.Product{
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		IsAvailable: input.IsAvailable,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
// 改价只影响之后的订单，已下订单持有价格快照
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	if input.Price.Decimal.IsNegative() {
		return nil, ErrInvalidPrice
	}
	product.Description = input.Description
	product.Price = input.Price
	product.IsAvailable = input.IsAvailable
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// SetAvailability 上下架商品
func (s *ProductService) SetAvailability(id uint, available bool) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.SetAvailability(product.ID, available); err != nil {
		return nil, err
	}
	product.IsAvailable = available
	return product, nil
}
