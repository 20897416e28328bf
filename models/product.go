package models

import "time"

const (
	CategoryOperatingSystem     = "Operating System"
	CategoryApplicationSoftware = "Application Software"
)

type Product struct {
	ID              string       `bson:"_id" json:"id"`
	ProductName     string       `bson:"product_name" json:"productName"`
	Description     string       `bson:"description" json:"description"`
	Image           string       `bson:"image,omitempty" json:"image,omitempty"`
	Category        string       `bson:"category" json:"category"`
	PlatformType    string       `bson:"platform_type" json:"platformType"`
	BaseType        string       `bson:"base_type" json:"baseType"`
	ProductURL      string       `bson:"product_url" json:"productUrl"`
	DownloadURL     string       `bson:"download_url" json:"downloadUrl"`
	AvgRating       float64      `bson:"avg_rating" json:"avgRating"`
	FeedbackDetails []Feedback   `bson:"feedback_details,omitempty" json:"feedbackDetails,omitempty"`
	SkuDetails      []SkuDetails `bson:"sku_details,omitempty" json:"skuDetails,omitempty"`
	StripeProductID string       `bson:"stripe_product_id,omitempty" json:"stripeProductId,omitempty"`
	CreatedAt       time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time    `bson:"updated_at" json:"updatedAt"`
}

type SkuDetails struct {
	ID            string  `bson:"_id" json:"id"`
	SkuName       string  `bson:"sku_name" json:"skuName"`
	SkuCode       string  `bson:"sku_code" json:"skuCode"`
	Price         float64 `bson:"price" json:"price"`
	Validity      int     `bson:"validity" json:"validity"` // in days
	Lifetime      bool    `bson:"lifetime" json:"lifetime"`
	Stock         int     `bson:"stock" json:"stock"`
	StripePriceID string  `bson:"stripe_price_id" json:"stripePriceId"`
}

type Feedback struct {
	ID           string `bson:"_id" json:"id"`
	CustomerID   string `bson:"customer_id" json:"customerId"`
	CustomerName string `bson:"customer_name" json:"customerName"`
	Rating       int    `bson:"rating" json:"rating"`
	FeedbackMsg  string `bson:"feedback_msg" json:"feedbackMsg"`
}

// SkuByID returns the SKU with the given id, or nil.
func (p *Product) SkuByID(skuID string) *SkuDetails {
	for i := range p.SkuDetails {
		if p.SkuDetails[i].ID == skuID {
			return &p.SkuDetails[i]
		}
	}
	return nil
}

// SkuByCode returns the SKU with the given code, or nil.
func (p *Product) SkuByCode(skuCode string) *SkuDetails {
	for i := range p.SkuDetails {
		if p.SkuDetails[i].SkuCode == skuCode {
			return &p.SkuDetails[i]
		}
	}
	return nil
}

// License is a unique, single-use credential belonging to a SKU's pool.
// Once sold it is stamped with the owning order and never reused.
type License struct {
	ID         string    `bson:"_id" json:"id"`
	ProductID  string    `bson:"product_id" json:"productId"`
	ProductSku string    `bson:"product_sku" json:"productSku"`
	LicenseKey string    `bson:"license_key" json:"licenseKey"`
	IsSold     bool      `bson:"is_sold" json:"isSold"`
	OrderID    string    `bson:"order_id,omitempty" json:"orderId,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}
