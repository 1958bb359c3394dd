package inventory

import (
	"fmt"

	"threadmart/models"
)

// Delta is one planned per-variant stock adjustment. Positive Qty restores
// stock, negative Qty commits it. Recreate is set when a restore must re-add
// a variant the catalog no longer carries, rebuilt from the order snapshot.
type Delta struct {
	ProductID   string
	ProductName string
	VariantID   string
	Qty         int
	Recreate    *models.Variant
}

// StockError reports a domain-level stock conflict with enough context for an
// actionable client message.
type StockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

// NotFoundError reports a product or variant that no longer resolves.
type NotFoundError struct {
	Kind        string // "product" or "variant"
	ProductName string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "product" {
		return fmt.Sprintf("Product not found for %s", e.ProductName)
	}
	return fmt.Sprintf("Variant not found for %s", e.ProductName)
}

// PlanRestore builds the deltas for a non-Cancelled to Cancelled transition:
// every item's quantity goes back to its variant. A variant that disappeared
// from the product is re-created from the snapshot so restored stock is never
// silently lost; a product that disappeared entirely is skipped, since there
// is nothing left to credit.
func PlanRestore(products map[string]models.Product, items []models.OrderItem) []Delta {
	var deltas []Delta
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		d := Delta{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			VariantID:   item.VariantID,
			Qty:         item.Quantity,
		}
		if p.FindVariant(item.VariantID) == nil {
			color := item.Color
			if color == "" {
				color = "default"
			}
			d.Recreate = &models.Variant{
				VariantID: item.VariantID,
				Size:      item.Size,
				Age:       item.Age,
				AgeUnit:   item.AgeUnit,
				Color:     color,
				Quantity:  item.Quantity,
			}
		}
		deltas = append(deltas, d)
	}
	return deltas
}

// PlanCommit builds the deltas for a Cancelled to non-Cancelled transition.
// Unlike the restore path it never fabricates variants: re-committing stock
// for a variant that no longer exists would be wrong, so a missing product or
// variant fails the whole transition, as does insufficient stock on any item.
func PlanCommit(products map[string]models.Product, items []models.OrderItem) ([]Delta, error) {
	var deltas []Delta
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			return nil, &NotFoundError{Kind: "product", ProductName: item.ProductName}
		}
		v := p.FindVariant(item.VariantID)
		if v == nil {
			return nil, &NotFoundError{Kind: "variant", ProductName: item.ProductName}
		}
		if v.Quantity < item.Quantity {
			return nil, &StockError{ProductName: item.ProductName, Requested: item.Quantity, Available: v.Quantity}
		}
		deltas = append(deltas, Delta{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			VariantID:   item.VariantID,
			Qty:         -item.Quantity,
		})
	}
	return deltas, nil
}

// PlanDeleteRestore builds the deltas for order deletion: restore wherever
// the variant still exists, skip where it does not. The order record is being
// discarded, so nothing is re-created.
func PlanDeleteRestore(products map[string]models.Product, items []models.OrderItem) []Delta {
	var deltas []Delta
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		if p.FindVariant(item.VariantID) == nil {
			continue
		}
		deltas = append(deltas, Delta{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			VariantID:   item.VariantID,
			Qty:         item.Quantity,
		})
	}
	return deltas
}
