package authz

import "github.com/ordertrack/internal/constants"

// builtinRolePolicies 系统内置角色的路由策略矩阵
// 经理负责订单确认与全量可见，配送员只接触配送池和自己的订单
func builtinRolePolicies() map[string][]Policy {
	return map[string][]Policy{
		constants.RoleManager: {
			{Object: "/staff/orders", Action: "GET"},
			{Object: "/staff/orders/pending", Action: "GET"},
			{Object: "/staff/orders/:orderNumber/confirm", Action: "POST"},
			{Object: "/staff/orders/:orderNumber/history", Action: "GET"},
			{Object: "/staff/events", Action: "GET"},
			{Object: "/staff/products", Action: "*"},
			{Object: "/staff/products/:id", Action: "*"},
			{Object: "/staff/products/:id/availability", Action: "PATCH"},
		},
		constants.RoleDeliveryPerson: {
			{Object: "/staff/orders/available", Action: "GET"},
			{Object: "/staff/orders/out-for-delivery", Action: "GET"},
			{Object: "/staff/orders/:orderNumber/accept", Action: "POST"},
			{Object: "/staff/orders/:orderNumber/deliver", Action: "POST"},
			{Object: "/staff/events", Action: "GET"},
		},
		constants.RoleAdmin: {
			{Object: "/staff/*", Action: "*"},
			{Object: "/admin/*", Action: "*"},
		},
	}
}
