package service

import "errors"

// 订单相关错误
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderCreateFailed = errors.New("order create failed")
	ErrEmptyOrder        = errors.New("order has no line items")
	ErrInvalidQuantity   = errors.New("order line quantity must be positive")
	ErrInvalidProduct    = errors.New("order line references unknown product")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrForbidden         = errors.New("caller not allowed to perform this operation")
)

// 商品相关错误
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidPrice       = errors.New("product price must not be negative")
	ErrInvalidProductName = errors.New("product name must not be empty")
)

// 用户与鉴权相关错误
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password does not meet the configured policy")
	ErrUserDisabled       = errors.New("user account disabled")
	ErrInvalidRole        = errors.New("unknown role")
)
