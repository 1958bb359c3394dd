package catalog

import (
	"context"
	"log"
	"net/http"
	"time"

	"threadmart/db"
	"threadmart/rdx"
	"threadmart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// facetValues reads a facet set from Redis, falling back to a Mongo distinct
// query (and warming the set) when the cache is cold.
func facetValues(ctx context.Context, redisKey, field string) ([]string, error) {
	if members, err := rdx.FacetMembers(redisKey); err == nil && len(members) > 0 {
		return members, nil
	}

	raw, err := db.ProductsCollection.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	if len(values) > 0 {
		members := make([]interface{}, len(values))
		for i, v := range values {
			members[i] = v
		}
		if err := rdx.FacetAdd(redisKey, members...); err != nil {
			log.Println("facet warm error:", err)
		}
	}
	return values, nil
}

// GetSubCategories lists the distinct subcategories in the catalog.
// GET /api/product/subcategories
func GetSubCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	values, err := facetValues(ctx, rdx.SubCategoryKey, "subcategory")
	if err != nil {
		log.Println("GetSubCategories error:", err)
		http.Error(w, "Could not retrieve subcategories", http.StatusInternalServerError)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{"subCategories": values})
}

// GetBrands lists the distinct product names, which double as the brand facet.
// GET /api/product/brands
func GetBrands(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	values, err := facetValues(ctx, rdx.BrandsKey, "name")
	if err != nil {
		log.Println("GetBrands error:", err)
		http.Error(w, "Could not retrieve brands", http.StatusInternalServerError)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, utils.M{"brands": values})
}
