package main

import (
	"github.com/ordertrack/internal/config"
	"github.com/ordertrack/internal/constants"
	"github.com/ordertrack/internal/logger"
	"github.com/ordertrack/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据：商品目录和三类员工账号
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	seedProducts(stdLog.Printf)
	seedUsers(stdLog.Printf)

	stdLog.Printf("Seed finished")
}

func seedProducts(logf func(format string, v ...interface{})) {
	products := []models.Product{
		{
			Name:        "Margherita Pizza",
			Description: "Tomato, mozzarella and basil",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(12.50)),
			IsAvailable: true,
		},
		{
			Name:        "Pepperoni Pizza",
			Description: "Pepperoni and extra cheese",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(14.90)),
			IsAvailable: true,
		},
		{
			Name:        "Caesar Salad",
			Description: "Romaine, parmesan, croutons",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(8.00)),
			IsAvailable: true,
		},
		{
			Name:        "Sparkling Water",
			Description: "500ml bottle",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(2.50)),
			IsAvailable: true,
		},
		{
			Name:        "Tiramisu",
			Description: "Seasonal dessert",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(6.80)),
			IsAvailable: false,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", product.Name).First(&existing).Error; err == nil {
			logf("Product already exists: %s", product.Name)
			continue
		}
		if err := models.DB.Create(&product).Error; err != nil {
			logf("Failed to create product %s: %v", product.Name, err)
			continue
		}
		logf("Created product: %s", product.Name)
	}
}

func seedUsers(logf func(format string, v ...interface{})) {
	users := []struct {
		email       string
		password    string
		displayName string
		phone       string
		role        string
	}{
		{"manager@example.com", "manager123", "Store Manager", "+10000000001", constants.RoleManager},
		{"courier@example.com", "courier123", "Delivery One", "+10000000002", constants.RoleDeliveryPerson},
		{"customer@example.com", "customer123", "Demo Customer", "+10000000003", constants.RoleUser},
	}

	for _, seed := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", seed.email).First(&existing).Error; err == nil {
			logf("User already exists: %s", seed.email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			logf("Failed to hash password for %s: %v", seed.email, err)
			continue
		}
		user := models.User{
			Email:        seed.email,
			PasswordHash: string(hash),
			DisplayName:  seed.displayName,
			Phone:        seed.phone,
			Role:         seed.role,
			Status:       constants.UserStatusActive,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			logf("Failed to create user %s: %v", seed.email, err)
			continue
		}
		logf("Created user: %s (%s)", seed.email, seed.role)
	}
}
