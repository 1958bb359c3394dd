// Package cart implements the reconciliation rules for the client-held cart:
// the cart itself lives in browser storage keyed productId → variantId →
// quantity, and the server's job is to keep it honest against live stock.
package cart

import (
	"fmt"

	"threadmart/models"
)

// Cart mirrors the client cart shape.
type Cart map[string]map[string]int

// Quantity returns the held quantity for a product/variant key, zero when
// absent.
func (c Cart) Quantity(productID, variantID string) int {
	return c[productID][variantID]
}

// AddOne increments the held quantity by exactly one, rejecting the add when
// it would exceed the variant's live stock. The cart is left unchanged on
// rejection; callers surface the error, never clamp.
func (c Cart) AddOne(product *models.Product, variantID string) error {
	if product == nil {
		return fmt.Errorf("Product not found")
	}
	v := product.FindVariant(variantID)
	if v == nil {
		return fmt.Errorf("Variant not found for %s", product.Name)
	}

	current := c.Quantity(product.ProductID, variantID)
	if current+1 > v.Quantity {
		return fmt.Errorf("Cannot add more than available stock. Only %d available", v.Quantity)
	}

	if c[product.ProductID] == nil {
		c[product.ProductID] = make(map[string]int)
	}
	c[product.ProductID][variantID] = current + 1
	return nil
}

// SetQuantity sets the held quantity directly. Zero removes the variant key,
// and removes the product entry entirely once its last variant goes, so no
// orphaned empty entries linger.
func (c Cart) SetQuantity(productID, variantID string, quantity int) {
	if quantity == 0 {
		if variants, ok := c[productID]; ok {
			delete(variants, variantID)
			if len(variants) == 0 {
				delete(c, productID)
			}
		}
		return
	}
	if c[productID] == nil {
		c[productID] = make(map[string]int)
	}
	c[productID][variantID] = quantity
}

// Count is the total number of units held.
func (c Cart) Count() int {
	total := 0
	for _, variants := range c {
		for _, qty := range variants {
			if qty > 0 {
				total += qty
			}
		}
	}
	return total
}

// Amount totals effectivePrice × quantity over the supplied products, which
// must be current server state so a stale client price can never leak into
// checkout. Products missing from the map contribute nothing.
func (c Cart) Amount(products map[string]models.Product) float64 {
	total := 0.0
	for productID, variants := range c {
		p, ok := products[productID]
		if !ok {
			continue
		}
		price := p.EffectivePrice()
		for _, qty := range variants {
			if qty > 0 {
				total += price * float64(qty)
			}
		}
	}
	return total
}
