package services

import (
	"sort"

	"pizzeria/internal/models"

	"github.com/shopspring/decimal"
)

// CartLine is one cart entry as priced at evaluation time.
type CartLine struct {
	ProductID        uint            `json:"product_id"`
	Name             string          `json:"name"`
	CategorySlug     string          `json:"category_slug"`
	BaseType         *string         `json:"base_type"`
	BasePrice        decimal.Decimal `json:"base_price"`
	VariantID        *uint           `json:"variant_id"`
	VariantName      string          `json:"variant_name"`
	VariantSurcharge decimal.Decimal `json:"variant_surcharge"`
	Quantity         int             `json:"quantity"`
	IsMenu           bool            `json:"is_menu"`
}

func (l CartLine) UnitPrice() decimal.Decimal {
	return l.BasePrice.Add(l.VariantSurcharge)
}

func (l CartLine) IsPizza() bool {
	if l.IsMenu {
		return false
	}
	return l.CategorySlug == models.PizzaCategorySlug || l.BaseType != nil
}

// AppliedPromotion describes a promotion granted to a cart.
type AppliedPromotion struct {
	Method      models.DeliveryMethod `json:"method"`
	Description string                `json:"description"`
	PizzasFree  int                   `json:"pizzas_free"`
	TotalPizzas int                   `json:"total_pizzas"`
}

type CartTotals struct {
	Subtotal              decimal.Decimal   `json:"subtotal"`
	Discount              decimal.Decimal   `json:"discount"`
	SubtotalWithPromotion decimal.Decimal   `json:"subtotal_with_promotion"`
	DeliveryFee           decimal.Decimal   `json:"delivery_fee"`
	Total                 decimal.Decimal   `json:"total"`
	Promotion             *AppliedPromotion `json:"promotion"`
}

func pizzaLines(lines []CartLine) []CartLine {
	var pizzas []CartLine
	for _, l := range lines {
		if l.IsPizza() && l.Quantity > 0 {
			pizzas = append(pizzas, l)
		}
	}
	return pizzas
}

// CalculatePromotion returns the "buy N get M" promotion earned by the
// cart, or nil when none applies.
func CalculatePromotion(lines []CartLine, method models.DeliveryMethod, settings models.PromotionSettings) *AppliedPromotion {
	enabled, buy, get := settings.ForMethod(method)
	if !enabled || buy < 0 || get <= 0 {
		return nil
	}

	totalPizzas := 0
	for _, l := range pizzaLines(lines) {
		totalPizzas += l.Quantity
	}

	groups := totalPizzas / (buy + get)
	pizzasFree := groups * get
	if pizzasFree <= 0 {
		return nil
	}

	return &AppliedPromotion{
		Method:      method,
		Description: settings.Description,
		PizzasFree:  pizzasFree,
		TotalPizzas: totalPizzas,
	}
}

// CalculatePromotionDiscount prices pizzasFree units taken from the
// cheapest pizzas first. Equal prices keep cart order.
func CalculatePromotionDiscount(lines []CartLine, pizzasFree int) decimal.Decimal {
	discount := decimal.Zero
	if pizzasFree <= 0 {
		return discount
	}

	pizzas := pizzaLines(lines)
	sort.SliceStable(pizzas, func(i, j int) bool {
		return pizzas[i].UnitPrice().LessThan(pizzas[j].UnitPrice())
	})

	remaining := pizzasFree
	for _, l := range pizzas {
		if remaining == 0 {
			break
		}
		n := l.Quantity
		if n > remaining {
			n = remaining
		}
		discount = discount.Add(l.UnitPrice().Mul(decimal.NewFromInt(int64(n))))
		remaining -= n
	}
	return discount
}

// CalculateCartTotals prices the whole cart. The delivery fee only applies
// to delivery orders.
func CalculateCartTotals(lines []CartLine, method models.DeliveryMethod, settings models.PromotionSettings, deliveryFee decimal.Decimal) CartTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	promotion := CalculatePromotion(lines, method, settings)
	discount := decimal.Zero
	if promotion != nil {
		discount = CalculatePromotionDiscount(lines, promotion.PizzasFree)
	}

	fee := decimal.Zero
	if method == models.DeliveryMethodDelivery {
		fee = deliveryFee
	}

	withPromotion := subtotal.Sub(discount)
	return CartTotals{
		Subtotal:              subtotal,
		Discount:              discount,
		SubtotalWithPromotion: withPromotion,
		DeliveryFee:           fee,
		Total:                 withPromotion.Add(fee),
		Promotion:             promotion,
	}
}
