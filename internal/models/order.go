package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderNumber     string          `json:"order_number" gorm:"unique;not null"`
	CustomerName    string          `json:"customer_name" gorm:"not null"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	DeliveryAddress *string         `json:"delivery_address"`
	DeliveryMethod  DeliveryMethod  `json:"delivery_method" gorm:"type:varchar(20);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentMethod   string          `json:"payment_method" gorm:"default:'card'"`
	PaymentStatus   string          `json:"payment_status" gorm:"default:'unpaid'"` // unpaid, paid, failed, refunded
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:numeric(10,2);not null"`
	Discount        decimal.Decimal `json:"discount" gorm:"type:numeric(10,2);default:0"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee" gorm:"type:numeric(10,2);default:0"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric(10,2);not null"`
	Notes           string          `json:"notes" gorm:"type:text"`
	UserID          *uint           `json:"user_id"`
	User            *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "failed"
)

// Age is the time elapsed since the order was placed.
func (o *Order) Age(now time.Time) time.Duration {
	return now.Sub(o.CreatedAt)
}

func (o *Order) IsDelivery() bool {
	return o.DeliveryMethod == DeliveryMethodDelivery
}

type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
)

func (m DeliveryMethod) IsValid() bool {
	return m == DeliveryMethodDelivery || m == DeliveryMethodPickup
}
