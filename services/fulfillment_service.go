package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "techzone-backend/common/errors"
	"techzone-backend/models"
	"techzone-backend/repository"
	"techzone-backend/sender"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// EventPublisher publishes fulfillment events, best-effort.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// FulfillmentService drives an order through
// OrderCreated -> LicensesAllocated -> Fulfilled once a verified
// completion event arrives. Every step is idempotent by re-check: the
// unique index on the checkout session id serializes order creation, and
// allocation is skipped whenever the order is already completed.
type FulfillmentService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	licenses repository.LicenseRepository
	provider PaymentProvider
	mailer   sender.EmailSender
	events   EventPublisher
	logger   *zap.Logger
}

func NewFulfillmentService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	licenses repository.LicenseRepository,
	provider PaymentProvider,
	mailer sender.EmailSender,
	events EventPublisher,
	logger *zap.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		orders:   orders,
		products: products,
		licenses: licenses,
		provider: provider,
		mailer:   mailer,
		events:   events,
		logger:   logger,
	}
}

// HandleEvent processes one verified provider event. Unrecognized event
// kinds are acknowledged without state change so provider retries of
// future event types never fail.
func (s *FulfillmentService) HandleEvent(ctx context.Context, event stripe.Event) *apperrors.Error {
	if event.Type != "checkout.session.completed" {
		s.logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return apperrors.InvalidInput("Failed to decode checkout session", err)
	}

	order, appErr := s.createOrder(ctx, &sess)
	if appErr != nil {
		return appErr
	}

	if string(sess.PaymentStatus) != models.PaymentStatusPaid {
		s.logger.Info("Checkout session not paid, acknowledging without allocation",
			zap.String("checkout_session_id", sess.ID),
			zap.String("payment_status", string(sess.PaymentStatus)),
		)
		return nil
	}

	if order.OrderStatus == models.OrderStatusCompleted {
		s.logger.Info("Order already completed, skipping allocation",
			zap.String("checkout_session_id", sess.ID),
			zap.String("order_id", order.OrderID),
		)
		return nil
	}

	for i := range order.OrderedItems {
		if appErr := s.allocate(ctx, order, &order.OrderedItems[i]); appErr != nil {
			return appErr
		}
	}

	fulfilled, err := s.orders.UpdateByCheckoutSessionID(ctx, sess.ID, bson.M{
		"order_status":       models.OrderStatusCompleted,
		"is_order_delivered": true,
		"ordered_items":      order.OrderedItems,
	})
	if err != nil {
		return apperrors.Internal("Failed to mark order fulfilled", err)
	}

	s.logger.Info("Order fulfilled",
		zap.String("checkout_session_id", sess.ID),
		zap.String("order_id", fulfilled.OrderID),
	)

	s.notify(ctx, fulfilled)
	return nil
}

// createOrder derives the canonical order from the session and inserts it
// keyed by checkout session id. A duplicate delivery loads the existing
// order instead; the store's uniqueness constraint decides the race.
func (s *FulfillmentService) createOrder(ctx context.Context, sess *stripe.CheckoutSession) (*models.Order, *apperrors.Error) {
	order, appErr := s.buildOrder(ctx, sess)
	if appErr != nil {
		return nil, appErr
	}

	err := s.orders.Create(ctx, order)
	if err == nil {
		s.logger.Info("Order created",
			zap.String("checkout_session_id", sess.ID),
			zap.String("order_id", order.OrderID),
		)
		return order, nil
	}
	if err == repository.ErrDuplicateOrder {
		existing, ferr := s.orders.FindByCheckoutSessionID(ctx, sess.ID)
		if ferr != nil {
			return nil, apperrors.Internal("Duplicate order exists but could not be loaded", ferr)
		}
		s.logger.Info("Duplicate webhook delivery, using existing order",
			zap.String("checkout_session_id", sess.ID),
			zap.String("order_id", existing.OrderID),
		)
		return existing, nil
	}
	return nil, apperrors.Internal("Failed to create order", err)
}

func (s *FulfillmentService) buildOrder(ctx context.Context, sess *stripe.CheckoutSession) (*models.Order, *apperrors.Error) {
	purchased, err := s.provider.ListLineItems(ctx, sess.ID)
	if err != nil {
		return nil, apperrors.ExternalService("Failed to list session line items", err)
	}
	if len(purchased) == 0 {
		return nil, apperrors.ExternalService("No line items found for session", nil)
	}

	items := make([]models.OrderedItem, 0, len(purchased))
	for _, li := range purchased {
		productID := li.PriceMetadata["productId"]
		skuCode := li.PriceMetadata["skuCode"]
		if productID == "" || skuCode == "" {
			return nil, apperrors.InvalidInput("Price metadata missing product reference", nil)
		}
		items = append(items, models.OrderedItem{
			ProductID: productID,
			SkuCode:   skuCode,
			Quantity:  int(li.Quantity),
			Price:     float64(li.UnitAmount) / 100,
		})
	}

	customerEmail := sess.CustomerEmail
	phone := ""
	var address *models.Address
	if sess.CustomerDetails != nil {
		if customerEmail == "" {
			customerEmail = sess.CustomerDetails.Email
		}
		phone = sess.CustomerDetails.Phone
		if a := sess.CustomerDetails.Address; a != nil {
			address = &models.Address{
				Line1:      a.Line1,
				Line2:      a.Line2,
				City:       a.City,
				State:      a.State,
				PostalCode: a.PostalCode,
				Country:    a.Country,
			}
		}
	}

	paymentMethod := ""
	if len(sess.PaymentMethodTypes) > 0 {
		paymentMethod = sess.PaymentMethodTypes[0]
	}
	paymentIntentID := ""
	if sess.PaymentIntent != nil {
		paymentIntentID = sess.PaymentIntent.ID
	}

	now := time.Now().UTC()
	return &models.Order{
		ID:                  uuid.NewString(),
		OrderID:             fmt.Sprintf("TZ-%d", now.UnixNano()),
		UserID:              sess.Metadata["userId"],
		CustomerEmail:       customerEmail,
		CustomerPhoneNumber: phone,
		CustomerAddress:     address,
		CheckoutSessionID:   sess.ID,
		OrderedItems:        items,
		PaymentInfo: models.PaymentInfo{
			PaymentMethod:   paymentMethod,
			PaymentIntentID: paymentIntentID,
			PaymentAmount:   float64(sess.AmountTotal) / 100,
			PaymentStatus:   string(sess.PaymentStatus),
			PaymentDate:     now,
		},
		OrderStatus: models.OrderStatusPending,
		OrderDate:   now,
	}, nil
}

// allocate claims licenses and decrements stock for one line item. The
// claim itself marks rows sold, so a short claim leaves prior claims in
// place; the resulting inconsistency is surfaced for manual
// reconciliation, never rolled back.
func (s *FulfillmentService) allocate(ctx context.Context, order *models.Order, item *models.OrderedItem) *apperrors.Error {
	product, err := s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("Product does not exist", nil)
		}
		return apperrors.Internal("Failed to look up product", err)
	}

	sku := product.SkuByCode(item.SkuCode)
	if sku == nil {
		return apperrors.NotFound("Sku does not exist", nil)
	}

	claimed, err := s.licenses.ClaimUnsold(ctx, sku.ID, item.Quantity, order.OrderID)
	if err != nil {
		return apperrors.Internal("Failed to claim licenses", err)
	}

	newStock, err := s.products.DecrementStock(ctx, sku.ID, item.Quantity)
	if err != nil {
		if err == repository.ErrInsufficientStock {
			return apperrors.Conflict(fmt.Sprintf("Stock underflow for SKU %s", sku.ID), err)
		}
		return apperrors.Internal("Failed to decrement stock", err)
	}

	// A SKU at zero stock must have zero unsold licenses; sweep stragglers.
	if newStock == 0 {
		if err := s.licenses.MarkAllUnsoldAsSold(ctx, sku.ID, order.OrderID); err != nil {
			return apperrors.Internal("Failed to sweep unsold licenses", err)
		}
	}

	keys := make([]string, 0, len(claimed))
	for _, license := range claimed {
		keys = append(keys, license.LicenseKey)
	}
	item.Licenses = keys

	if len(claimed) < item.Quantity {
		s.logger.Error("License pool short of decremented stock",
			zap.String("order_id", order.OrderID),
			zap.String("sku_id", sku.ID),
			zap.Int("requested", item.Quantity),
			zap.Int("claimed", len(claimed)),
		)
		return apperrors.InternalInconsistency(
			fmt.Sprintf("Claimed %d of %d licenses for SKU %s", len(claimed), item.Quantity, sku.ID), nil)
	}

	return nil
}

// notify sends the order-success mail and publishes the fulfillment
// event. Both are best-effort: the order's completed status is
// authoritative and is never reverted on notification failure.
func (s *FulfillmentService) notify(ctx context.Context, order *models.Order) {
	body := sender.OrderSuccessTemplate(order.CustomerEmail, order.OrderID)
	if _, err := s.mailer.SendEmail(ctx, order.CustomerEmail, "Order success - Techzone", body); err != nil {
		s.logger.Error("Order success mail failed",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
	}

	if s.events == nil {
		return
	}
	event := models.OrderEvent{
		Type:              "order_fulfilled",
		OrderID:           order.OrderID,
		UserID:            order.UserID,
		CheckoutSessionID: order.CheckoutSessionID,
		Amount:            order.PaymentInfo.PaymentAmount,
		Timestamp:         time.Now().UTC(),
	}
	if err := s.events.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Error("Order event publish failed",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
	}
}
