package mq

import (
	"encoding/json"
	"log"

	"threadmart/db"
	"threadmart/globals"
	"threadmart/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

// Event describes a catalog or order mutation published to Redis.
type Event struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityID   string `json:"entity_id"`
}

// Emit publishes an event to the catalog channel. Failures are logged and
// swallowed so emitting never blocks the request path.
func Emit(eventName string, content Event) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] failed to marshal %s event: %v", eventName, err)
		return
	}
	if err := rdx.Publish(rdx.CatalogChannel, data); err != nil {
		log.Printf("[Emit] failed to publish %s event: %v", eventName, err)
		return
	}
}

// StartCatalogWorker listens for catalog events and keeps the Redis product
// cache and facet sets in step with Mongo. Run in its own goroutine.
func StartCatalogWorker() {
	sub := rdx.Subscribe(rdx.CatalogChannel)
	ch := sub.Channel()

	log.Println("[CatalogWorker] listening for catalog events...")

	for msg := range ch {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[CatalogWorker] failed to parse event: %v", err)
			continue
		}
		if event.EntityType != "product" {
			continue
		}
		if err := rdx.CacheDel(rdx.ProductListKey); err != nil {
			log.Printf("[CatalogWorker] cache invalidation error: %v", err)
		}
		if err := RebuildFacetSets(); err != nil {
			log.Printf("[CatalogWorker] facet rebuild error: %v", err)
		}
	}
}

// RebuildFacetSets refreshes the brand and subcategory sets from Mongo.
func RebuildFacetSets() error {
	brands, err := db.ProductsCollection.Distinct(globals.Ctx, "name", bson.M{})
	if err != nil {
		return err
	}
	subCategories, err := db.ProductsCollection.Distinct(globals.Ctx, "subcategory", bson.M{})
	if err != nil {
		return err
	}

	if err := rdx.FacetReset(rdx.BrandsKey); err != nil {
		return err
	}
	if len(brands) > 0 {
		if err := rdx.FacetAdd(rdx.BrandsKey, brands...); err != nil {
			return err
		}
	}
	if err := rdx.FacetReset(rdx.SubCategoryKey); err != nil {
		return err
	}
	if len(subCategories) > 0 {
		if err := rdx.FacetAdd(rdx.SubCategoryKey, subCategories...); err != nil {
			return err
		}
	}
	return nil
}
