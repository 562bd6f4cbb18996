package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) *ProductService {
	t.Helper()
	dsn := fmt.Sprintf("file:product_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewProductService(repository.NewProductRepository(db))
}

func TestProductCreateValidation(t *testing.T) {
	svc := setupProductServiceTest(t)

	if _, err := svc.Create(ProductInput{Name: "   "}); !errors.Is(err, ErrInvalidProductName) {
		t.Fatalf("blank name: expected ErrInvalidProductName, got %v", err)
	}
	if _, err := svc.Create(ProductInput{
		Name:  "Tiramisu",
		Price: models.NewMoneyFromDecimal(decimal.NewFromInt(-1)),
	}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("negative price: expected ErrInvalidPrice, got %v", err)
	}

	product, err := svc.Create(ProductInput{
		Name:        "Tiramisu",
		Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(6.80)),
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.ID == 0 || !product.IsAvailable {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestProductListOnlyAvailable(t *testing.T) {
	svc := setupProductServiceTest(t)

	if _, err := svc.Create(ProductInput{Name: "Pizza", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(12)), IsAvailable: true}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	hidden, err := svc.Create(ProductInput{Name: "Seasonal", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(9)), IsAvailable: false})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	visible, total, err := svc.List(repository.ProductListFilter{OnlyAvailable: true, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(visible) != 1 || visible[0].Name != "Pizza" {
		t.Fatalf("unexpected public listing: total=%d %+v", total, visible)
	}

	all, total, err := svc.List(repository.ProductListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("staff listing must include hidden products: total=%d", total)
	}

	if _, err := svc.Get(hidden.ID); err != nil {
		t.Fatalf("hidden product must stay readable by id: %v", err)
	}
}

func TestProductSetAvailability(t *testing.T) {
	svc := setupProductServiceTest(t)

	product, err := svc.Create(ProductInput{Name: "Salad", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(8)), IsAvailable: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.SetAvailability(product.ID, false)
	if err != nil {
		t.Fatalf("set availability failed: %v", err)
	}
	if updated.IsAvailable {
		t.Fatal("expected product hidden")
	}

	reloaded, err := svc.Get(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if reloaded.IsAvailable {
		t.Fatal("availability not persisted")
	}

	if _, err := svc.SetAvailability(9999, true); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("unknown product: expected ErrProductNotFound, got %v", err)
	}
}
