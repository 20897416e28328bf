package controllers

import (
	"io"
	"net/http"

	apperrors "techzone-backend/common/errors"
	"techzone-backend/middleware"
	"techzone-backend/repository"
	"techzone-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderController struct {
	Checkout    *services.CheckoutService
	Fulfillment *services.FulfillmentService
	Orders      *services.OrderService
	Users       repository.UserRepository
	Stripe      *services.StripeService
	Logger      *zap.Logger
}

type checkoutRequest struct {
	CheckoutDetails []services.CheckoutItem `json:"checkoutDetails" binding:"required,min=1,dive"`
}

// CreateCheckoutSession validates the cart and returns the provider
// redirect URL.
func (oc *OrderController) CreateCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.InvalidInput("Invalid checkout payload", err))
		return
	}

	user, err := oc.Users.FindByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.Error(apperrors.AuthFailure("Unauthorized", err))
		return
	}

	redirectURL, appErr := oc.Checkout.Checkout(c.Request.Context(), user, req.CheckoutDetails)
	if appErr != nil {
		c.Error(appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment checkout session successfully created",
		"success": true,
		"result":  redirectURL,
	})
}

// StripeWebhook receives provider notifications. The body must reach the
// verifier as exact bytes; signature verification happens before any
// decoding of the payload.
func (oc *OrderController) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(apperrors.InvalidInput("failed to read body", err))
		return
	}

	event, err := oc.Stripe.ParseWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		oc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.Error(apperrors.InvalidInput("invalid webhook", err))
		return
	}

	oc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	if appErr := oc.Fulfillment.HandleEvent(c.Request.Context(), event); appErr != nil {
		oc.Logger.Error("Webhook processing failed",
			zap.String("event_id", event.ID),
			zap.String("kind", string(appErr.Kind)),
			zap.Error(appErr),
		)
		c.Error(appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// GetOrders lists orders for the caller (all orders for admins).
func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, appErr := oc.Orders.FindAll(c.Request.Context(), middleware.GetUserID(c), c.Query("status"))
	if appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Orders fetched successfully",
		"success": true,
		"result":  orders,
	})
}

// GetOrder fetches a single order by id.
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, appErr := oc.Orders.FindOne(c.Request.Context(), c.Param("id"))
	if appErr != nil {
		c.Error(appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order fetched successfully",
		"success": true,
		"result":  order,
	})
}
