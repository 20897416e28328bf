package models

import "time"

const (
	UserTypeAdmin    = "admin"
	UserTypeCustomer = "customer"
)

type User struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Password   string    `bson:"password" json:"-"`
	Type       string    `bson:"type" json:"type"`
	IsVerified bool      `bson:"is_verified" json:"isVerified"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}
