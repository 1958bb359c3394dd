package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadmart/models"
)

func TestBuildFilterQueryProductFields(t *testing.T) {
	query := BuildFilterQuery(FilterRequest{
		GenderFilter:   []string{"Men", "Women"},
		CategoryFilter: []string{"Topwear"},
		BrandFilter:    []string{"Acme"},
	})

	assert.Equal(t, bson.M{"$in": []string{"Men", "Women"}}, query["category"])
	assert.Equal(t, bson.M{"$in": []string{"Topwear"}}, query["subcategory"])
	assert.Equal(t, bson.M{"$in": []string{"Acme"}}, query["name"])
}

func TestBuildFilterQuerySearchOverridesBrand(t *testing.T) {
	query := BuildFilterQuery(FilterRequest{
		Search:      "shirt",
		BrandFilter: []string{"Acme"},
	})
	assert.Equal(t, primitive.Regex{Pattern: "shirt", Options: "i"}, query["name"])
}

func TestBuildFilterQueryVariantFacetsAreIndependent(t *testing.T) {
	query := BuildFilterQuery(FilterRequest{
		SizeFilter:  []string{" m ", "l"},
		ColorFilter: []string{"Blue"},
	})

	and, ok := query["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 2, "size and color each get their own $elemMatch clause")

	sizeMatch := and[0]["variants"].(bson.M)["$elemMatch"].(bson.M)
	assert.Equal(t, bson.M{"size": bson.M{"$in": []string{"M", "L"}}}, sizeMatch)

	colorMatch := and[1]["variants"].(bson.M)["$elemMatch"].(bson.M)
	colorOr := colorMatch["$or"].([]bson.M)
	require.Len(t, colorOr, 1)
	assert.Equal(t, primitive.Regex{Pattern: "^Blue$", Options: "i"}, colorOr[0]["color"])
}

func TestBuildFilterQueryAgeFacetSplitsUnit(t *testing.T) {
	query := BuildFilterQuery(FilterRequest{AgeFilter: []string{"2 Years", "6"}})

	and := query["$and"].([]bson.M)
	require.Len(t, and, 1)
	or := and[0]["variants"].(bson.M)["$elemMatch"].(bson.M)["$or"].([]bson.M)
	require.Len(t, or, 2)

	assert.Equal(t, primitive.Regex{Pattern: "^2$", Options: "i"}, or[0]["age"])
	assert.Equal(t, primitive.Regex{Pattern: "^Years$", Options: "i"}, or[0]["ageunit"])
	assert.NotContains(t, or[1], "ageunit", "bare age value matches any unit")
}

func TestBuildFilterQueryPriceRanges(t *testing.T) {
	query := BuildFilterQuery(FilterRequest{
		PriceRangeFilter: []PriceRange{{Label: "Below 250"}, {Label: "500 to 750"}, {Label: "bogus"}},
	})

	and := query["$and"].([]bson.M)
	require.Len(t, and, 1)
	or := and[0]["$or"].([]bson.M)
	require.Len(t, or, 2, "unknown labels are dropped")
	assert.Equal(t, bson.M{"discountedprice": bson.M{"$lt": 250}}, or[0])
	assert.Equal(t, bson.M{"discountedprice": bson.M{"$gte": 500, "$lt": 750}}, or[1])
}

func TestBuildFilterQueryPriceInput(t *testing.T) {
	query := BuildFilterQuery(FilterRequest{PriceInput: &PriceInput{Min: "100", Max: "900"}})
	assert.Equal(t, bson.M{"$gte": 100.0, "$lt": 900.0}, query["discountedprice"])

	query = BuildFilterQuery(FilterRequest{PriceInput: &PriceInput{Min: "100"}})
	assert.Equal(t, bson.M{"$gte": 100.0}, query["discountedprice"])

	query = BuildFilterQuery(FilterRequest{PriceInput: &PriceInput{Min: "abc"}})
	assert.NotContains(t, query, "discountedprice", "unparseable bounds are ignored")
}

func TestBuildFilterQueryEscapesRegexInput(t *testing.T) {
	query := BuildFilterQuery(FilterRequest{Search: "a("})
	assert.Equal(t, primitive.Regex{Pattern: `a\(`, Options: "i"}, query["name"],
		"metacharacters in search input must not reach Mongo unescaped")

	query = BuildFilterQuery(FilterRequest{ColorFilter: []string{"Blue (Navy)"}})
	or := query["$and"].([]bson.M)[0]["variants"].(bson.M)["$elemMatch"].(bson.M)["$or"].([]bson.M)
	require.Len(t, or, 1)
	assert.Equal(t, primitive.Regex{Pattern: `^Blue \(Navy\)$`, Options: "i"}, or[0]["color"])
}

func TestBuildFilterQueryEmptyRequest(t *testing.T) {
	assert.Equal(t, bson.M{}, BuildFilterQuery(FilterRequest{}))
}

func TestSortSpec(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, SortSpec("low-high"))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, SortSpec("high-low"))
	assert.Equal(t, bson.D{{Key: "bestseller", Value: -1}, {Key: "date", Value: -1}}, SortSpec("relevant"))
}

func TestApplyDiscountFilterBands(t *testing.T) {
	products := []models.Product{
		{ProductID: "none", Price: 500},                            // no discount
		{ProductID: "p10", Price: 500, DiscountedPrice: 450},       // 10%
		{ProductID: "p20", Price: 500, DiscountedPrice: 400},       // 20%, lower bound of 20-40%
		{ProductID: "p39", Price: 1000, DiscountedPrice: 610},      // 39%
		{ProductID: "p40", Price: 500, DiscountedPrice: 300},       // 40%, excluded from 20-40%
	}

	got := ApplyDiscountFilter(products, []string{"20-40%"})
	require.Len(t, got, 2)
	assert.Equal(t, "p20", got[0].ProductID)
	assert.Equal(t, "p39", got[1].ProductID)

	got = ApplyDiscountFilter(products, []string{"0-20%", "40-60%"})
	require.Len(t, got, 2)
	assert.Equal(t, "p10", got[0].ProductID)
	assert.Equal(t, "p40", got[1].ProductID)
}

func TestApplyDiscountFilterNoSelectionPassesThrough(t *testing.T) {
	products := []models.Product{{ProductID: "a"}, {ProductID: "b"}}
	assert.Equal(t, products, ApplyDiscountFilter(products, nil))
}

func TestSplitByStock(t *testing.T) {
	products := []models.Product{
		{ProductID: "in", Count: 3},
		{ProductID: "out", Count: 0},
		{ProductID: "in2", Count: 1},
	}
	available, outOfStock := SplitByStock(products)
	require.Len(t, available, 2)
	require.Len(t, outOfStock, 1)
	assert.Equal(t, "out", outOfStock[0].ProductID)
}
