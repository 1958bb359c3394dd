package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"threadmart/db"
	"threadmart/models"
	"threadmart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FilterRequest carries the simultaneously-active facet selections. Values
// within a facet are OR'ed, facets AND at the product level. Variant facets
// (age, size, color) are each an independent existential test: some variant
// must satisfy some selected value per facet, never all facets on one variant.
type FilterRequest struct {
	Search           string       `json:"search"`
	GenderFilter     []string     `json:"genderFilter"`
	CategoryFilter   []string     `json:"categoryFilter"`
	BrandFilter      []string     `json:"brandFilter"`
	AgeFilter        []string     `json:"ageFilter"`
	SizeFilter       []string     `json:"sizeFilter"`
	ColorFilter      []string     `json:"colorFilter"`
	PriceRangeFilter []PriceRange `json:"priceRangeFilter"`
	PriceInput       *PriceInput  `json:"priceInput"`
	DiscountFilter   []string     `json:"discountFilter"`
	SortType         string       `json:"sortType"`
}

type PriceRange struct {
	Label string `json:"label"`
}

// PriceInput is a free-form min/max on the discounted price; empty strings
// mean unbounded.
type PriceInput struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// DiscountBand is one 20-point bucket over the computed discount percent.
type DiscountBand struct {
	Label string
	Min   int
	Max   int
}

var discountBands = []DiscountBand{
	{Label: "0-20%", Min: 0, Max: 20},
	{Label: "20-40%", Min: 20, Max: 40},
	{Label: "40-60%", Min: 40, Max: 60},
	{Label: "60-80%", Min: 60, Max: 80},
	{Label: "80-100%", Min: 80, Max: 100},
}

var priceBuckets = map[string]bson.M{
	"Below 250":   {"discountedprice": bson.M{"$lt": 250}},
	"250 to 500":  {"discountedprice": bson.M{"$gte": 250, "$lt": 500}},
	"500 to 750":  {"discountedprice": bson.M{"$gte": 500, "$lt": 750}},
	"750 to 1000": {"discountedprice": bson.M{"$gte": 750, "$lt": 1000}},
	"Above 1000":  {"discountedprice": bson.M{"$gte": 1000}},
}

// ciExact builds a case-insensitive exact match. Values are user input, so
// regex metacharacters are escaped before they reach Mongo.
func ciExact(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}

// BuildFilterQuery translates facet selections into the Mongo query. Each
// variant facet contributes its own $elemMatch clause under $and, which is
// what makes the matching existential per facet.
func BuildFilterQuery(req FilterRequest) bson.M {
	query := bson.M{}
	var and []bson.M

	if req.Search != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(req.Search), Options: "i"}
	}
	if len(req.GenderFilter) > 0 {
		query["category"] = bson.M{"$in": req.GenderFilter}
	}
	if len(req.CategoryFilter) > 0 {
		query["subcategory"] = bson.M{"$in": req.CategoryFilter}
	}
	if len(req.BrandFilter) > 0 && req.Search == "" {
		query["name"] = bson.M{"$in": req.BrandFilter}
	}

	if len(req.AgeFilter) > 0 {
		ageConditions := make([]bson.M, 0, len(req.AgeFilter))
		for _, raw := range req.AgeFilter {
			parts := strings.SplitN(strings.TrimSpace(raw), " ", 2)
			cond := bson.M{"age": ciExact(parts[0])}
			if len(parts) > 1 {
				cond["ageunit"] = ciExact(strings.TrimSpace(parts[1]))
			}
			ageConditions = append(ageConditions, cond)
		}
		and = append(and, bson.M{"variants": bson.M{"$elemMatch": bson.M{"$or": ageConditions}}})
	}
	if len(req.SizeFilter) > 0 {
		sizes := make([]string, len(req.SizeFilter))
		for i, s := range req.SizeFilter {
			sizes[i] = strings.ToUpper(strings.TrimSpace(s))
		}
		and = append(and, bson.M{"variants": bson.M{"$elemMatch": bson.M{"size": bson.M{"$in": sizes}}}})
	}
	if len(req.ColorFilter) > 0 {
		colorConditions := make([]bson.M, 0, len(req.ColorFilter))
		for _, c := range req.ColorFilter {
			colorConditions = append(colorConditions, bson.M{"color": ciExact(strings.TrimSpace(c))})
		}
		and = append(and, bson.M{"variants": bson.M{"$elemMatch": bson.M{"$or": colorConditions}}})
	}

	if len(req.PriceRangeFilter) > 0 {
		var rangeOr []bson.M
		for _, pr := range req.PriceRangeFilter {
			if bucket, ok := priceBuckets[pr.Label]; ok {
				rangeOr = append(rangeOr, bucket)
			}
		}
		if len(rangeOr) > 0 {
			and = append(and, bson.M{"$or": rangeOr})
		}
	}
	if req.PriceInput != nil && (req.PriceInput.Min != "" || req.PriceInput.Max != "") {
		bounds := bson.M{}
		if req.PriceInput.Min != "" {
			if min, err := parsePrice(req.PriceInput.Min); err == nil {
				bounds["$gte"] = min
			}
		}
		if req.PriceInput.Max != "" {
			if max, err := parsePrice(req.PriceInput.Max); err == nil {
				bounds["$lt"] = max
			}
		}
		if len(bounds) > 0 {
			query["discountedprice"] = bounds
		}
	}

	if len(and) > 0 {
		query["$and"] = and
	}
	return query
}

func parsePrice(s string) (float64, error) {
	var v float64
	err := json.Unmarshal([]byte(strings.TrimSpace(s)), &v)
	return v, err
}

// SortSpec picks the deterministic sort order: price for the explicit price
// sorts, bestsellers-then-newest otherwise.
func SortSpec(sortType string) bson.D {
	switch sortType {
	case "low-high":
		return bson.D{{Key: "price", Value: 1}}
	case "high-low":
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "bestseller", Value: -1}, {Key: "date", Value: -1}}
	}
}

// ApplyDiscountFilter keeps products whose computed discount percent falls
// into any selected band. Necessarily in-memory: the percent is derived, not
// stored. Products without a discounted price never match.
func ApplyDiscountFilter(products []models.Product, labels []string) []models.Product {
	if len(labels) == 0 {
		return products
	}
	selected := make([]DiscountBand, 0, len(labels))
	for _, label := range labels {
		for _, band := range discountBands {
			if band.Label == label {
				selected = append(selected, band)
			}
		}
	}

	filtered := []models.Product{}
	for _, p := range products {
		if p.DiscountedPrice <= 0 {
			continue
		}
		percent := p.DiscountPercent()
		for _, band := range selected {
			if percent >= band.Min && percent < band.Max {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// SplitByStock partitions products on the aggregate count.
func SplitByStock(products []models.Product) (available, outOfStock []models.Product) {
	available = []models.Product{}
	outOfStock = []models.Product{}
	for _, p := range products {
		if p.Count > 0 {
			available = append(available, p)
		} else {
			outOfStock = append(outOfStock, p)
		}
	}
	return available, outOfStock
}

// FilterProducts runs the facet query and returns the matching catalog split
// into available and out-of-stock lists.
// POST /api/product/filter
func FilterProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("FilterProducts decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	cursor, err := db.ProductsCollection.Find(ctx, BuildFilterQuery(req),
		options.Find().SetSort(SortSpec(req.SortType)))
	if err != nil {
		log.Println("FilterProducts Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("FilterProducts cursor error:", err)
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}

	products = ApplyDiscountFilter(products, req.DiscountFilter)
	for i := range products {
		products[i].Ages = models.VariantOptionLabels(products[i].Variants)
	}
	available, outOfStock := SplitByStock(products)

	utils.RespondSuccess(w, http.StatusOK, utils.M{
		"availableProducts":  available,
		"outOfStockProducts": outOfStock,
	})
}
