package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"threadmart/db"
	"threadmart/globals"
	"threadmart/models"
	"threadmart/mq"
	"threadmart/rdx"
	"threadmart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxProductImages = 4

// productForm is the parsed multipart payload shared by add and update. The
// variants field arrives as a JSON string form value and is decoded into the
// typed shape before any of the core logic sees it.
type productForm struct {
	Name            string
	Description     string
	Price           float64
	DiscountedPrice float64
	Category        string
	SubCategory     string
	Bestseller      bool
	Variants        []models.Variant
}

func parseProductForm(r *http.Request) (*productForm, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("unable to parse form: %w", err)
	}

	form := &productForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		SubCategory: r.FormValue("subCategory"),
		Bestseller:  r.FormValue("bestseller") == "true",
	}
	if form.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if form.Category == "" || form.SubCategory == "" {
		return nil, fmt.Errorf("category and subCategory are required")
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("invalid price value, must be a positive number")
	}
	form.Price = price

	if raw := r.FormValue("discountedPrice"); raw != "" {
		dp, err := strconv.ParseFloat(raw, 64)
		if err != nil || dp <= 0 {
			return nil, fmt.Errorf("invalid discountedPrice value")
		}
		if dp >= price {
			return nil, fmt.Errorf("discountedPrice must be below price")
		}
		form.DiscountedPrice = dp
	}

	rawVariants := r.FormValue("variants")
	if rawVariants == "" {
		return nil, fmt.Errorf("variants are required")
	}
	if err := json.Unmarshal([]byte(rawVariants), &form.Variants); err != nil {
		return nil, fmt.Errorf("malformed variants payload: %w", err)
	}
	return form, nil
}

// saveImages stores up to four uploaded images (fields image1..image4) and
// returns their public URLs.
func saveImages(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var urls []string
	for i := 1; i <= maxProductImages; i++ {
		file, header, err := r.FormFile(fmt.Sprintf("image%d", i))
		if err == http.ErrMissingFile {
			continue
		}
		if err != nil {
			http.Error(w, "Error retrieving image: "+err.Error(), http.StatusBadRequest)
			return nil, false
		}
		defer file.Close()

		if !utils.ValidateImageFileType(w, header) {
			return nil, false
		}
		filename, err := utils.SaveFile(file, header, globals.UploadDir)
		if err != nil {
			http.Error(w, "Error saving image: "+err.Error(), http.StatusInternalServerError)
			return nil, false
		}
		if err := utils.CreateThumb(globals.UploadDir, filename, 300); err != nil {
			log.Println("thumbnail generation failed:", err)
		}
		urls = append(urls, "/static/productpic/"+filename)
	}
	return urls, true
}

// AddProduct creates a product from the admin panel.
// POST /api/product/add
func AddProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	form, err := parseProductForm(r)
	if err != nil {
		utils.RespondFailure(w, err.Error())
		return
	}

	images, ok := saveImages(w, r)
	if !ok {
		return
	}
	if len(images) == 0 {
		utils.RespondFailure(w, "At least one image is required")
		return
	}

	variants, count, err := models.PrepareVariants(form.Variants)
	if err != nil {
		utils.RespondFailure(w, err.Error())
		return
	}

	product := models.Product{
		ProductID:       utils.GenerateID(14),
		Name:            form.Name,
		Description:     form.Description,
		Price:           form.Price,
		DiscountedPrice: form.DiscountedPrice,
		Images:          images,
		Category:        form.Category,
		SubCategory:     form.SubCategory,
		Variants:        variants,
		Bestseller:      form.Bestseller,
		Count:           count,
		Date:            time.Now().UnixMilli(),
	}

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("AddProduct InsertOne error:", err)
		http.Error(w, "Failed to insert product", http.StatusInternalServerError)
		return
	}

	go mq.Emit("product-created", mq.Event{EntityType: "product", Method: "POST", EntityID: product.ProductID})

	utils.RespondSuccess(w, http.StatusCreated, utils.M{"message": "Product added successfully", "productId": product.ProductID})
}

// UpdateProduct replaces a product's fields and its full variant list. New
// images are optional; when none are uploaded the existing ones stay.
// POST /api/product/update
func UpdateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	form, err := parseProductForm(r)
	if err != nil {
		utils.RespondFailure(w, err.Error())
		return
	}
	productID := r.FormValue("productId")
	if productID == "" {
		utils.RespondFailure(w, "productId is required")
		return
	}

	variants, count, err := models.PrepareVariants(form.Variants)
	if err != nil {
		utils.RespondFailure(w, err.Error())
		return
	}

	set := bson.M{
		"name":        form.Name,
		"description": form.Description,
		"price":       form.Price,
		"category":    form.Category,
		"subcategory": form.SubCategory,
		"bestseller":  form.Bestseller,
		"variants":    variants,
		"count":       count,
	}
	unset := bson.M{}
	if form.DiscountedPrice > 0 {
		set["discountedprice"] = form.DiscountedPrice
	} else {
		unset["discountedprice"] = ""
	}

	images, ok := saveImages(w, r)
	if !ok {
		return
	}
	if len(images) > 0 {
		set["images"] = images
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"productid": productID}, update)
	if err != nil {
		log.Println("UpdateProduct UpdateOne error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondFailure(w, "Product not found")
		return
	}

	go mq.Emit("product-updated", mq.Event{EntityType: "product", Method: "PUT", EntityID: productID})

	utils.RespondSuccess(w, http.StatusOK, utils.M{"message": "Product updated successfully"})
}

// RemoveProduct hard-deletes a product. Historical orders keep their item
// snapshots, so no cascade.
// POST /api/product/remove
func RemoveProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ID == "" {
		http.Error(w, "Product id is required", http.StatusBadRequest)
		return
	}

	res, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"productid": payload.ID})
	if err != nil {
		log.Println("RemoveProduct DeleteOne error:", err)
		http.Error(w, "Failed to remove product", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondFailure(w, "Product not found")
		return
	}

	go mq.Emit("product-removed", mq.Event{EntityType: "product", Method: "DELETE", EntityID: payload.ID})

	utils.RespondSuccess(w, http.StatusOK, utils.M{"message": "Product removed successfully"})
}

// ListProducts returns the whole catalog, newest first, with aggregated
// variant option labels. Served from the Redis cache when warm.
// GET /api/product/list
func ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if cached, err := rdx.CacheGet(rdx.ProductListKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	cursor, err := db.ProductsCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		log.Println("ListProducts Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("ListProducts cursor error:", err)
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	for i := range products {
		products[i].Ages = models.VariantOptionLabels(products[i].Variants)
	}

	body, err := json.Marshal(utils.M{"success": true, "products": products})
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	if err := rdx.CacheSet(rdx.ProductListKey, string(body)); err != nil {
		log.Println("ListProducts cache set error:", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// SingleProduct returns one product by id.
// POST /api/product/single
func SingleProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ProductID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": payload.ProductID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondFailure(w, "Product not found")
		return
	}
	if err != nil {
		log.Println("SingleProduct FindOne error:", err)
		http.Error(w, "Could not retrieve product", http.StatusInternalServerError)
		return
	}
	product.Ages = models.VariantOptionLabels(product.Variants)

	utils.RespondSuccess(w, http.StatusOK, utils.M{"product": product})
}
