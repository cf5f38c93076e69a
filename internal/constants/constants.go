package constants

// 订单状态常量
const (
	OrderStatusPending    = "pendiente"
	OrderStatusProcessing = "procesando"
	OrderStatusShipped    = "enviado"
	OrderStatusDelivered  = "entregado"
	OrderStatusCanceled   = "cancelado"
)

// OrderStatuses 全部合法订单状态
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 角色常量（casbin subject）
const (
	RoleAdmin    = "role:admin"
	RoleCustomer = "role:customer"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskOrderStatusChanged = "order:status_changed"
	TaskStockLowCheck      = "stock:low_check"
)

// 语言常量
const (
	LocaleEsES = "es-ES"
	LocaleEnUS = "en-US"
)
