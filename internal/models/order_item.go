package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a snapshot of one product line taken at checkout. Rows are
// never updated after the order is placed.
type OrderItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OrderID      uint            `json:"order_id" gorm:"not null;index"`
	ProductID    uint            `json:"product_id" gorm:"not null"`
	ProductName  string          `json:"product_name" gorm:"not null"`
	CategorySlug string          `json:"category_slug"`
	BaseType     *string         `json:"base_type"`
	VariantID    *uint           `json:"variant_id"`
	VariantName  string          `json:"variant_name"`
	IsMenu       bool            `json:"is_menu" gorm:"default:false"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	UnitPrice    decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2);not null"`
	TotalPrice   decimal.Decimal `json:"total_price" gorm:"type:numeric(10,2);not null"`
	CreatedAt    time.Time       `json:"created_at"`
}

const PizzaCategorySlug = "pizzas"

// IsPizza classifies a line as a pizza by its category or by carrying a
// pizza base attribute. Composed menu lines never count.
func (i OrderItem) IsPizza() bool {
	if i.IsMenu {
		return false
	}
	return i.CategorySlug == PizzaCategorySlug || i.BaseType != nil
}
