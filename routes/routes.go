package routes

import (
	"techzone-backend/controllers"
	"techzone-backend/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, jwtSecret string, oc *controllers.OrderController, pc *controllers.ProductController) {
	// Stripe webhook (no auth; verified by signature)
	r.POST("/orders/webhook", oc.StripeWebhook)

	auth := middleware.AuthMiddleware(jwtSecret)

	orders := r.Group("/orders")
	orders.Use(auth)
	orders.POST("/checkout", oc.CreateCheckoutSession)
	orders.GET("", oc.GetOrders)
	orders.GET("/:id", oc.GetOrder)

	products := r.Group("/products")
	products.GET("/:id", pc.GetProduct)

	reviews := products.Group("/:id/reviews")
	reviews.Use(auth)
	reviews.POST("", pc.AddReview)
	reviews.DELETE("/:reviewId", pc.RemoveReview)

	admin := products.Group("")
	admin.Use(auth, middleware.AdminOnly())
	admin.POST("/:id/skus/:skuId/licenses", pc.AddLicense)
	admin.GET("/:id/skus/:skuId/licenses", pc.GetLicenses)
	admin.PUT("/:id/licenses/:licenseId", pc.UpdateLicense)
	admin.DELETE("/:id/licenses/:licenseId", pc.RemoveLicense)
}
