package routes

import (
	"net/http"

	"threadmart/auth"
	"threadmart/cart"
	"threadmart/catalog"
	"threadmart/globals"
	"threadmart/inventory"
	"threadmart/live"
	"threadmart/middleware"
	"threadmart/orders"
	"threadmart/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/user/admin", rl.Limit(auth.AdminLogin))
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/product/add", middleware.AdminOnly(catalog.AddProduct))
	router.POST("/api/product/update", middleware.AdminOnly(catalog.UpdateProduct))
	router.POST("/api/product/remove", middleware.AdminOnly(catalog.RemoveProduct))
	router.GET("/api/product/list", catalog.ListProducts)
	router.POST("/api/product/single", catalog.SingleProduct)
	router.POST("/api/product/filter", catalog.FilterProducts)
	router.GET("/api/product/subcategories", catalog.GetSubCategories)
	router.GET("/api/product/brands", catalog.GetBrands)
	router.POST("/api/product/reduce-quantity", rl.Limit(catalog.ReduceQuantity))
	router.GET("/api/product/updates/:productId", inventory.StockUpdates)
}

func AddCartRoutes(router *httprouter.Router) {
	router.POST("/api/cart/check-availability", cart.CheckAvailability)
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/order/place", rl.Limit(orders.PlaceOrder))
	router.POST("/api/order/stripe", orders.PlaceOrderStripe)
	router.POST("/api/order/razorpay", orders.PlaceOrderRazorpay)
	router.POST("/api/order/userorders", orders.UserOrders)

	router.POST("/api/order/list", middleware.AdminOnly(orders.AllOrders))
	router.POST("/api/order/status", middleware.AdminOnly(orders.UpdateStatus))
	router.POST("/api/order/updatePaymentStatus", middleware.AdminOnly(orders.UpdatePaymentStatus))
	router.DELETE("/api/order/delete/:orderId", middleware.AdminOnly(orders.DeleteOrder))
	router.POST("/api/order/analytics", middleware.AdminOnly(orders.SalesAnalytics))
	router.GET("/api/order/invoice/:orderId", middleware.AdminOnly(orders.PrintInvoice))
	router.GET("/api/order/live", live.OrdersFeed)
}

// AddStaticRoutes serves uploaded product images. The URL prefix is fixed;
// the backing directory follows globals.UploadDir so stored image URLs keep
// resolving when the upload location is overridden.
func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir(globals.UploadDir))
}
