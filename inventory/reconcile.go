package inventory

import (
	"context"
	"errors"
	"fmt"
	"log"

	"threadmart/db"
	"threadmart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrConflict is returned when a conditional update matched nothing, meaning
// a concurrent mutation changed the product between plan and apply.
var ErrConflict = errors.New("stock changed concurrently, operation aborted")

// fetchProducts loads the products an order's items refer to, keyed by id.
// Missing products are simply absent from the map; the planners decide what
// that means per transition.
func fetchProducts(ctx context.Context, items []models.OrderItem) (map[string]models.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	cursor, err := db.ProductsCollection.Find(ctx, bson.M{"productid": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}
	return byID, nil
}

// applyDelta writes one planned adjustment. Stock-committing deltas use a
// conditional update that only matches while the variant still holds enough
// quantity, so a lost race surfaces as ErrConflict instead of negative stock.
// The aggregate count moves in the same write to keep the invariant.
func applyDelta(ctx context.Context, d Delta) error {
	var filter, update bson.M
	switch {
	case d.Recreate != nil:
		filter = bson.M{"productid": d.ProductID}
		update = bson.M{
			"$push": bson.M{"variants": *d.Recreate},
			"$inc":  bson.M{"count": d.Qty},
		}
	case d.Qty >= 0:
		filter = bson.M{"productid": d.ProductID, "variants.variantid": d.VariantID}
		update = bson.M{"$inc": bson.M{"variants.$.quantity": d.Qty, "count": d.Qty}}
	default:
		filter = bson.M{
			"productid": d.ProductID,
			"variants": bson.M{"$elemMatch": bson.M{
				"variantid": d.VariantID,
				"quantity":  bson.M{"$gte": -d.Qty},
			}},
		}
		update = bson.M{"$inc": bson.M{"variants.$.quantity": d.Qty, "count": d.Qty}}
	}

	res, err := db.ProductsCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("apply stock delta: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// applyDeltas applies a fully validated plan. The plan was checked against a
// fresh read, so a failure here means a concurrent mutation; already-applied
// deltas are reversed best-effort before the error is returned.
func applyDeltas(ctx context.Context, deltas []Delta) error {
	for i, d := range deltas {
		if err := applyDelta(ctx, d); err != nil {
			rollbackDeltas(ctx, deltas[:i])
			return err
		}
	}
	return nil
}

// Rollback reverses an already-applied plan, best effort. Callers use it when
// a step after the inventory apply fails and the stock movement must be
// undone.
func Rollback(ctx context.Context, applied []Delta) {
	rollbackDeltas(ctx, applied)
}

func rollbackDeltas(ctx context.Context, applied []Delta) {
	for i := len(applied) - 1; i >= 0; i-- {
		d := applied[i]
		inverse := Delta{ProductID: d.ProductID, ProductName: d.ProductName, VariantID: d.VariantID, Qty: -d.Qty}
		if d.Recreate != nil {
			// The recreated variant is removed again wholesale.
			_, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"productid": d.ProductID}, bson.M{
				"$pull": bson.M{"variants": bson.M{"variantid": d.VariantID}},
				"$inc":  bson.M{"count": -d.Qty},
			})
			if err != nil {
				log.Printf("inventory rollback failed for product %s: %v", d.ProductID, err)
			}
			continue
		}
		if err := applyDelta(ctx, inverse); err != nil {
			log.Printf("inventory rollback failed for product %s variant %s: %v", d.ProductID, d.VariantID, err)
		}
	}
}

// ApplyStatusChange runs the inventory side effects of an order status
// transition and returns the deltas it applied, so the caller can reverse
// them if persisting the new status fails. The decision is always based on
// the stored previous status against the requested one; moving between two
// non-Cancelled statuses has no inventory effect.
func ApplyStatusChange(ctx context.Context, order models.Order, newStatus string) ([]Delta, error) {
	prev := order.Status
	if prev == newStatus {
		return nil, nil
	}

	switch {
	case newStatus == models.StatusCancelled && prev != models.StatusCancelled:
		products, err := fetchProducts(ctx, order.Items)
		if err != nil {
			return nil, err
		}
		deltas := PlanRestore(products, order.Items)
		if err := applyDeltas(ctx, deltas); err != nil {
			return nil, err
		}
		return deltas, nil

	case prev == models.StatusCancelled && newStatus != models.StatusCancelled:
		products, err := fetchProducts(ctx, order.Items)
		if err != nil {
			return nil, err
		}
		deltas, err := PlanCommit(products, order.Items)
		if err != nil {
			return nil, err
		}
		if err := applyDeltas(ctx, deltas); err != nil {
			return nil, err
		}
		return deltas, nil
	}
	return nil, nil
}

// RestoreOnDelete credits back every item whose variant still exists. Used by
// order deletion, for any order status.
func RestoreOnDelete(ctx context.Context, order models.Order) error {
	products, err := fetchProducts(ctx, order.Items)
	if err != nil {
		return err
	}
	return applyDeltas(ctx, PlanDeleteRestore(products, order.Items))
}

// Reduce commits stock for one variant in a single conditional update: the
// decrement only happens while the variant still holds at least qty units.
// Used by the public reduce-quantity endpoint at order placement time.
func Reduce(ctx context.Context, productID, variantID string, qty int) error {
	if qty <= 0 {
		return errors.New("quantity must be a positive integer")
	}

	filter := bson.M{
		"productid": productID,
		"variants": bson.M{"$elemMatch": bson.M{
			"variantid": variantID,
			"quantity":  bson.M{"$gte": qty},
		}},
	}
	update := bson.M{"$inc": bson.M{"variants.$.quantity": -qty, "count": -qty}}

	res, err := db.ProductsCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("reduce stock: %w", err)
	}
	if res.MatchedCount > 0 {
		broadcastRemaining(ctx, productID, variantID)
		return nil
	}

	// Nothing matched: report precisely why.
	var p models.Product
	err = db.ProductsCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return &NotFoundError{Kind: "product", ProductName: productID}
	}
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	v := p.FindVariant(variantID)
	if v == nil {
		return &NotFoundError{Kind: "variant", ProductName: p.Name}
	}
	return &StockError{ProductName: p.Name, Requested: qty, Available: v.Quantity}
}

func broadcastRemaining(ctx context.Context, productID, variantID string) {
	var p models.Product
	if err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&p); err != nil {
		return
	}
	if v := p.FindVariant(variantID); v != nil {
		BroadcastStockUpdate(productID, variantID, v.Quantity)
	}
}
