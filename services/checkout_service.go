package services

import (
	"context"
	"fmt"
	"time"

	apperrors "techzone-backend/common/errors"
	"techzone-backend/models"
	"techzone-backend/repository"

	"go.uber.org/zap"
)

const providerTimeout = 15 * time.Second

// CheckoutItem is one cart entry submitted for checkout.
type CheckoutItem struct {
	SkuID      string `json:"skuId" binding:"required"`
	SkuPriceID string `json:"skuPriceId"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

// CheckoutService validates a cart against live stock and mints a
// provider-hosted checkout session. It never mutates local state; stock
// contention is resolved at allocation time, not at planning time.
type CheckoutService struct {
	products repository.ProductRepository
	licenses repository.LicenseRepository
	provider PaymentProvider
	logger   *zap.Logger
}

func NewCheckoutService(
	products repository.ProductRepository,
	licenses repository.LicenseRepository,
	provider PaymentProvider,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		products: products,
		licenses: licenses,
		provider: provider,
		logger:   logger,
	}
}

// Checkout validates every cart entry and returns the provider redirect
// URL. All validation failures abort before the provider call.
func (s *CheckoutService) Checkout(ctx context.Context, user *models.User, items []CheckoutItem) (string, *apperrors.Error) {
	if len(items) == 0 {
		return "", apperrors.InvalidInput("No products available for checkout", nil)
	}

	lineItems := make([]SessionLineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return "", apperrors.InvalidInput(fmt.Sprintf("Invalid quantity for SKU %s", item.SkuID), nil)
		}

		product, err := s.products.FindBySkuID(ctx, item.SkuID)
		if err != nil {
			if err == repository.ErrNotFound {
				return "", apperrors.NotFound(fmt.Sprintf("Product with SKU %s not found", item.SkuID), nil)
			}
			return "", apperrors.Internal("Failed to look up product", err)
		}

		sku := product.SkuByID(item.SkuID)
		if sku == nil {
			return "", apperrors.NotFound(fmt.Sprintf("SKU %s does not exist", item.SkuID), nil)
		}

		if sku.Stock < item.Quantity {
			return "", apperrors.Conflict(fmt.Sprintf("Not enough stock for product %s", item.SkuID), nil)
		}

		unsold, err := s.licenses.CountUnsold(ctx, item.SkuID)
		if err != nil {
			return "", apperrors.Internal("Failed to check license pool", err)
		}
		if unsold == 0 {
			return "", apperrors.Conflict(fmt.Sprintf("No licenses available for product %s", item.SkuID), nil)
		}

		if item.SkuPriceID == "" {
			return "", apperrors.InvalidInput(fmt.Sprintf("Price not found for product %s", item.SkuID), nil)
		}

		minQty := int64(0)
		if sku.Stock > 1 {
			minQty = 1
		}
		lineItems = append(lineItems, SessionLineItem{
			PriceID:     item.SkuPriceID,
			Quantity:    int64(item.Quantity),
			MinQuantity: minQty,
			MaxQuantity: int64(sku.Stock),
		})
	}

	providerCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	redirectURL, err := s.provider.CreateCheckoutSession(providerCtx, CheckoutSessionInput{
		LineItems:     lineItems,
		CustomerEmail: user.Email,
		UserID:        user.ID,
	})
	if err != nil {
		s.logger.Error("Checkout session creation failed",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return "", apperrors.ExternalService("Failed to create checkout session", err)
	}

	s.logger.Info("Checkout session created",
		zap.String("user_id", user.ID),
		zap.Int("line_items", len(lineItems)),
	)
	return redirectURL, nil
}
