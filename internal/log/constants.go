package log

const (
	KeyAppName     = "app"
	KeyTag         = "tag"
	KeyProcess     = "process"
	KeyEmail       = "email"
	KeyUserID      = "userId"
	KeyProductID   = "productId"
	KeyProductName = "productName"
	KeyOrderID     = "orderId"
	KeyOrderStatus = "orderStatus"
	KeyQuantity    = "quantity"
	KeyCartLines   = "cartLines"
	KeyCartTotal   = "cartTotal"
	KeyAttempt     = "attempt"
	KeyBaseURL     = "baseUrl"
	KeySessionPath = "sessionPath"
	KeyConfig      = "config"
)
