package services

import (
	"context"
	"testing"

	apperrors "techzone-backend/common/errors"
	"techzone-backend/models"

	"go.uber.org/zap"
)

func testProduct() *models.Product {
	return &models.Product{
		ID:          "p1",
		ProductName: "Pro Office Suite",
		Category:    models.CategoryApplicationSoftware,
		SkuDetails: []models.SkuDetails{
			{ID: "sku1", SkuCode: "office-1y", Price: 29.99, Stock: 5, StripePriceID: "price_1"},
			{ID: "sku2", SkuCode: "office-life", Price: 99.99, Stock: 1, Lifetime: true, StripePriceID: "price_2"},
		},
	}
}

func testUser() *models.User {
	return &models.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Type: models.UserTypeCustomer}
}

func newCheckoutFixture(licenses ...*models.License) (*CheckoutService, *fakeProductRepo, *fakeProvider) {
	products := newFakeProductRepo(testProduct())
	pool := newFakeLicenseRepo(licenses...)
	provider := &fakeProvider{redirectURL: "https://checkout.example.com/s/cs_123"}
	svc := NewCheckoutService(products, pool, provider, zap.NewNop())
	return svc, products, provider
}

func unsoldLicense(id, skuID string) *models.License {
	return &models.License{ID: id, ProductID: "p1", ProductSku: skuID, LicenseKey: "KEY-" + id}
}

func TestCheckout_Success(t *testing.T) {
	svc, products, provider := newCheckoutFixture(unsoldLicense("l1", "sku1"), unsoldLicense("l2", "sku1"))

	url, appErr := svc.Checkout(context.Background(), testUser(), []CheckoutItem{
		{SkuID: "sku1", SkuPriceID: "price_1", Quantity: 2},
	})
	if appErr != nil {
		t.Fatalf("Checkout returned error: %v", appErr)
	}
	if url != "https://checkout.example.com/s/cs_123" {
		t.Fatalf("unexpected redirect url: %s", url)
	}
	if provider.createCalls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.createCalls)
	}

	// Planning never touches stock.
	if got := products.stock("sku1"); got != 5 {
		t.Fatalf("planning mutated stock: got %d, want 5", got)
	}

	li := provider.lastInput.LineItems[0]
	if li.PriceID != "price_1" || li.Quantity != 2 {
		t.Fatalf("unexpected line item: %+v", li)
	}
	if li.MinQuantity != 1 || li.MaxQuantity != 5 {
		t.Fatalf("unexpected adjustable bounds: min=%d max=%d", li.MinQuantity, li.MaxQuantity)
	}
}

func TestCheckout_AdjustableMinimumZeroAtSingleStock(t *testing.T) {
	svc, _, provider := newCheckoutFixture(unsoldLicense("l1", "sku2"))

	_, appErr := svc.Checkout(context.Background(), testUser(), []CheckoutItem{
		{SkuID: "sku2", SkuPriceID: "price_2", Quantity: 1},
	})
	if appErr != nil {
		t.Fatalf("Checkout returned error: %v", appErr)
	}

	li := provider.lastInput.LineItems[0]
	if li.MinQuantity != 0 || li.MaxQuantity != 1 {
		t.Fatalf("unexpected adjustable bounds for stock=1: min=%d max=%d", li.MinQuantity, li.MaxQuantity)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, _, provider := newCheckoutFixture()

	_, appErr := svc.Checkout(context.Background(), testUser(), nil)
	if appErr == nil || appErr.Kind != apperrors.KindInvalidInput {
		t.Fatalf("expected invalid input, got %v", appErr)
	}
	if provider.createCalls != 0 {
		t.Fatalf("provider should not be called for empty cart")
	}
}

func TestCheckout_UnknownSku(t *testing.T) {
	svc, _, provider := newCheckoutFixture()

	_, appErr := svc.Checkout(context.Background(), testUser(), []CheckoutItem{
		{SkuID: "nope", SkuPriceID: "price_x", Quantity: 1},
	})
	if appErr == nil || appErr.Kind != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", appErr)
	}
	if provider.createCalls != 0 {
		t.Fatalf("provider should not be called for unknown sku")
	}
}

func TestCheckout_InsufficientStock(t *testing.T) {
	svc, products, provider := newCheckoutFixture(unsoldLicense("l1", "sku1"))

	// stock=5, quantity=10
	_, appErr := svc.Checkout(context.Background(), testUser(), []CheckoutItem{
		{SkuID: "sku1", SkuPriceID: "price_1", Quantity: 10},
	})
	if appErr == nil || appErr.Kind != apperrors.KindConflict {
		t.Fatalf("expected conflict, got %v", appErr)
	}
	if provider.createCalls != 0 {
		t.Fatalf("provider should not be called when stock is short")
	}
	if got := products.stock("sku1"); got != 5 {
		t.Fatalf("stock changed on rejected plan: %d", got)
	}
}

func TestCheckout_NoLicensePool(t *testing.T) {
	svc, _, provider := newCheckoutFixture() // no licenses at all

	_, appErr := svc.Checkout(context.Background(), testUser(), []CheckoutItem{
		{SkuID: "sku1", SkuPriceID: "price_1", Quantity: 1},
	})
	if appErr == nil || appErr.Kind != apperrors.KindConflict {
		t.Fatalf("expected conflict for empty pool, got %v", appErr)
	}
	if provider.createCalls != 0 {
		t.Fatalf("provider should not be called when pool is empty")
	}
}

func TestCheckout_MissingPriceReference(t *testing.T) {
	svc, _, provider := newCheckoutFixture(unsoldLicense("l1", "sku1"))

	_, appErr := svc.Checkout(context.Background(), testUser(), []CheckoutItem{
		{SkuID: "sku1", SkuPriceID: "", Quantity: 1},
	})
	if appErr == nil || appErr.Kind != apperrors.KindInvalidInput {
		t.Fatalf("expected invalid input for missing price ref, got %v", appErr)
	}
	if provider.createCalls != 0 {
		t.Fatalf("provider should not be called without a price ref")
	}
}

func TestCheckout_ProviderFailure(t *testing.T) {
	svc, _, provider := newCheckoutFixture(unsoldLicense("l1", "sku1"))
	provider.createErr = context.DeadlineExceeded

	_, appErr := svc.Checkout(context.Background(), testUser(), []CheckoutItem{
		{SkuID: "sku1", SkuPriceID: "price_1", Quantity: 1},
	})
	if appErr == nil || appErr.Kind != apperrors.KindExternalService {
		t.Fatalf("expected external service error, got %v", appErr)
	}
}
