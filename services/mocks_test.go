package services

import (
	"context"
	"sync"

	"techzone-backend/models"
	"techzone-backend/repository"
	"techzone-backend/sender"

	"go.mongodb.org/mongo-driver/bson"
)

// In-memory fakes implementing the repository contracts with the same
// atomicity guarantees the Mongo implementations provide: claims and
// decrements happen under a single lock, so concurrent tests exercise
// real contention.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	m := make(map[string]*models.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeProductRepo{products: m}
}

func copyProduct(p *models.Product) *models.Product {
	cp := *p
	cp.SkuDetails = append([]models.SkuDetails(nil), p.SkuDetails...)
	cp.FeedbackDetails = append([]models.Feedback(nil), p.FeedbackDetails...)
	return &cp
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyProduct(p), nil
}

func (r *fakeProductRepo) FindBySkuID(ctx context.Context, skuID string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SkuByID(skuID) != nil {
			return copyProduct(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, skuID string, quantity int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if sku := p.SkuByID(skuID); sku != nil {
			if sku.Stock < quantity {
				return 0, repository.ErrInsufficientStock
			}
			sku.Stock -= quantity
			return sku.Stock, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (r *fakeProductRepo) stock(skuID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if sku := p.SkuByID(skuID); sku != nil {
			return sku.Stock
		}
	}
	return -1
}

func (r *fakeProductRepo) AddReview(ctx context.Context, productID string, review models.Feedback, avgRating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.FeedbackDetails = append(p.FeedbackDetails, review)
	p.AvgRating = avgRating
	return nil
}

func (r *fakeProductRepo) RemoveReview(ctx context.Context, productID, reviewID string, avgRating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := p.FeedbackDetails[:0]
	for _, fb := range p.FeedbackDetails {
		if fb.ID != reviewID {
			kept = append(kept, fb)
		}
	}
	p.FeedbackDetails = kept
	p.AvgRating = avgRating
	return nil
}

type fakeLicenseRepo struct {
	mu       sync.Mutex
	licenses []*models.License
}

func newFakeLicenseRepo(licenses ...*models.License) *fakeLicenseRepo {
	return &fakeLicenseRepo{licenses: licenses}
}

func (r *fakeLicenseRepo) Create(ctx context.Context, license *models.License) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *license
	r.licenses = append(r.licenses, &cp)
	return nil
}

func (r *fakeLicenseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.licenses {
		if l.ID == id {
			r.licenses = append(r.licenses[:i], r.licenses[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeLicenseRepo) FindByID(ctx context.Context, id string) (*models.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.licenses {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeLicenseRepo) FindBySku(ctx context.Context, skuID string) ([]models.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.License
	for _, l := range r.licenses {
		if l.ProductSku == skuID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLicenseRepo) CountUnsold(ctx context.Context, skuID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.licenses {
		if l.ProductSku == skuID && !l.IsSold {
			n++
		}
	}
	return n, nil
}

func (r *fakeLicenseRepo) UpdateKey(ctx context.Context, id, licenseKey string) (*models.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.licenses {
		if l.ID == id {
			l.LicenseKey = licenseKey
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeLicenseRepo) ClaimUnsold(ctx context.Context, skuID string, limit int, orderID string) ([]models.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []models.License
	for _, l := range r.licenses {
		if len(claimed) == limit {
			break
		}
		if l.ProductSku == skuID && !l.IsSold {
			l.IsSold = true
			l.OrderID = orderID
			claimed = append(claimed, *l)
		}
	}
	return claimed, nil
}

func (r *fakeLicenseRepo) MarkSold(ctx context.Context, licenseIDs []string, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[string]bool, len(licenseIDs))
	for _, id := range licenseIDs {
		ids[id] = true
	}
	for _, l := range r.licenses {
		if ids[l.ID] {
			l.IsSold = true
			l.OrderID = orderID
		}
	}
	return nil
}

func (r *fakeLicenseRepo) MarkAllUnsoldAsSold(ctx context.Context, skuID, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.licenses {
		if l.ProductSku == skuID && !l.IsSold {
			l.IsSold = true
			l.OrderID = orderID
		}
	}
	return nil
}

func (r *fakeLicenseRepo) soldCount(skuID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.licenses {
		if l.ProductSku == skuID && l.IsSold {
			n++
		}
	}
	return n
}

func (r *fakeLicenseRepo) unsoldCount(skuID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.licenses {
		if l.ProductSku == skuID && !l.IsSold {
			n++
		}
	}
	return n
}

type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  []*models.Order
	creates int
}

func copyOrder(o *models.Order) *models.Order {
	cp := *o
	cp.OrderedItems = append([]models.OrderedItem(nil), o.OrderedItems...)
	return &cp
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.CheckoutSessionID == order.CheckoutSessionID {
			return repository.ErrDuplicateOrder
		}
	}
	r.creates++
	r.orders = append(r.orders, copyOrder(order))
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			return copyOrder(o), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOrderRepo) FindByCheckoutSessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.CheckoutSessionID == sessionID {
			return copyOrder(o), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOrderRepo) Find(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.OrderStatus != filter.Status {
			continue
		}
		out = append(out, *copyOrder(o))
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateByCheckoutSessionID(ctx context.Context, sessionID string, updates bson.M) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.CheckoutSessionID == sessionID {
			if v, ok := updates["order_status"].(string); ok {
				o.OrderStatus = v
			}
			if v, ok := updates["is_order_delivered"].(bool); ok {
				o.IsOrderDelivered = v
			}
			if v, ok := updates["ordered_items"].([]models.OrderedItem); ok {
				o.OrderedItems = append([]models.OrderedItem(nil), v...)
			}
			return copyOrder(o), nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeProvider struct {
	mu           sync.Mutex
	createCalls  int
	lastInput    CheckoutSessionInput
	redirectURL  string
	createErr    error
	lineItems    []PurchasedItem
	lineItemsErr error
}

func (p *fakeProvider) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createCalls++
	p.lastInput = in
	if p.createErr != nil {
		return "", p.createErr
	}
	return p.redirectURL, nil
}

func (p *fakeProvider) ListLineItems(ctx context.Context, sessionID string) ([]PurchasedItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lineItemsErr != nil {
		return nil, p.lineItemsErr
	}
	return p.lineItems, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) SendEmail(ctx context.Context, to, subject, body string) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return sender.SendResult{MessageID: "fake"}, nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (p *fakePublisher) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}
