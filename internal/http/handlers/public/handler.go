package public

import "github.com/ordertrack/internal/provider"

// Handler 顾客侧接口处理器入口
// 说明：该处理器仅用于注册、登录、商品目录与顾客自己的订单。
type Handler struct {
	*provider.Container
}

// New 创建顾客侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
