package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"

	PaymentStatusPaid = "paid"
)

type Order struct {
	ID                  string        `bson:"_id" json:"id"`
	OrderID             string        `bson:"order_id" json:"orderId"`
	UserID              string        `bson:"user_id" json:"userId"`
	CustomerEmail       string        `bson:"customer_email" json:"customerEmail"`
	CustomerPhoneNumber string        `bson:"customer_phone_number,omitempty" json:"customerPhoneNumber,omitempty"`
	CustomerAddress     *Address      `bson:"customer_address,omitempty" json:"customerAddress,omitempty"`
	CheckoutSessionID   string        `bson:"checkout_session_id" json:"checkoutSessionId"`
	OrderedItems        []OrderedItem `bson:"ordered_items" json:"orderedItems"`
	PaymentInfo         PaymentInfo   `bson:"payment_info" json:"paymentInfo"`
	OrderStatus         string        `bson:"order_status" json:"orderStatus"`
	IsOrderDelivered    bool          `bson:"is_order_delivered" json:"isOrderDelivered"`
	OrderDate           time.Time     `bson:"order_date" json:"orderDate"`
	CreatedAt           time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time     `bson:"updated_at" json:"updatedAt"`
}

type OrderedItem struct {
	ProductID string   `bson:"product_id" json:"productId"`
	SkuCode   string   `bson:"sku_code" json:"skuCode"`
	Quantity  int      `bson:"quantity" json:"quantity"`
	Price     float64  `bson:"price" json:"price"`
	Licenses  []string `bson:"licenses,omitempty" json:"licenses,omitempty"`
}

type PaymentInfo struct {
	PaymentMethod   string    `bson:"payment_method" json:"paymentMethod"`
	PaymentIntentID string    `bson:"payment_intent_id" json:"paymentIntentId"`
	PaymentAmount   float64   `bson:"payment_amount" json:"paymentAmount"`
	PaymentStatus   string    `bson:"payment_status" json:"paymentStatus"`
	PaymentDate     time.Time `bson:"payment_date" json:"paymentDate"`
}

type Address struct {
	Line1      string `bson:"line1,omitempty" json:"line1,omitempty"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postal_code,omitempty" json:"postalCode,omitempty"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
}
