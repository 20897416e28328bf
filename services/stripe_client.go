package services

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

// SessionLineItem describes one cart entry sent to the provider, with the
// legal quantity re-adjustment bounds communicated to the hosted UI.
type SessionLineItem struct {
	PriceID     string
	Quantity    int64
	MinQuantity int64
	MaxQuantity int64
}

// PurchasedItem is one line item of a completed checkout session. The
// price metadata carries productId and skuCode back from the provider.
type PurchasedItem struct {
	Quantity      int64
	UnitAmount    int64
	PriceMetadata map[string]string
}

// CheckoutSessionInput carries everything needed to mint a hosted session.
type CheckoutSessionInput struct {
	LineItems     []SessionLineItem
	CustomerEmail string
	UserID        string
}

// PaymentProvider is the outward-facing payment boundary.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (string, error)
	ListLineItems(ctx context.Context, sessionID string) ([]PurchasedItem, error)
}

// StripeService wraps a dedicated Stripe client. The client is injected
// per instance rather than configured through the package-level key.
type StripeService struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeService(secretKey, webhookSecret, successURL, cancelURL string) *StripeService {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeService{
		api:           api,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

// CreateCheckoutSession mints a hosted one-time-payment session and
// returns the redirect URL.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.LineItems))
	for _, item := range in.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(item.PriceID),
			Quantity: stripe.Int64(item.Quantity),
			AdjustableQuantity: &stripe.CheckoutSessionLineItemAdjustableQuantityParams{
				Enabled: stripe.Bool(true),
				Minimum: stripe.Int64(item.MinQuantity),
				Maximum: stripe.Int64(item.MaxQuantity),
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:                lineItems,
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		CustomerEmail: stripe.String(in.CustomerEmail),
		SuccessURL:    stripe.String(s.successURL),
		CancelURL:     stripe.String(s.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("userId", in.UserID)

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// ListLineItems fetches the purchased line items of a session.
func (s *StripeService) ListLineItems(ctx context.Context, sessionID string) ([]PurchasedItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx

	var items []PurchasedItem
	iter := s.api.CheckoutSessions.ListLineItems(params)
	for iter.Next() {
		li := iter.LineItem()
		if li.Price == nil {
			return nil, fmt.Errorf("price data missing for line item in session %s", sessionID)
		}
		items = append(items, PurchasedItem{
			Quantity:      li.Quantity,
			UnitAmount:    li.Price.UnitAmount,
			PriceMetadata: li.Price.Metadata,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ParseWebhook verifies the signature over the exact payload bytes and
// decodes the event. Verification happens before any interpretation of
// the payload; missing secret or signature fails closed.
func (s *StripeService) ParseWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	if s.webhookSecret == "" {
		return stripe.Event{}, fmt.Errorf("webhook secret not configured")
	}
	if sigHeader == "" {
		return stripe.Event{}, fmt.Errorf("missing signature header")
	}
	return webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
}
