package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-api/internal/authz"
	"storefront-api/internal/catalog"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/pkg/database"
	"storefront-api/pkg/logger"
	"storefront-api/pkg/mediastore"
	"storefront-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	store           *mediastore.Store
	seedFixturePath string
)

// InitProductHandler wires the media store and seed fixture path
func InitProductHandler(s *mediastore.Store, fixturePath string) {
	store = s
	seedFixturePath = fixturePath
}

// ProductRequest defines the structure for product creation requests.
// Numeric fields are pointers so absent and zero can be told apart.
type ProductRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	Price        *float64 `json:"price"`
	CountInStock *int     `json:"countInStock"`
	Rating       *float64 `json:"rating"`
	NumReviews   *int     `json:"numReviews"`
}

// validate aggregates field errors the way the API reports them
func (r ProductRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.Price != nil && *r.Price < 0 {
		errs["price"] = "Price must be ≥ 0."
	}
	if r.CountInStock != nil && *r.CountInStock < 0 {
		errs["countInStock"] = "countInStock must be ≥ 0."
	}
	return errs
}

// productJSON renders a product in its read shape. The image field is a
// public URL, or null when no image is attached.
func productJSON(p model.Product) echo.Map {
	var image interface{}
	if p.Image != "" {
		image = store.URL(p.Image)
	}
	return echo.Map{
		"_id":          p.ID,
		"name":         p.Name,
		"image":        image,
		"description":  p.Description,
		"brand":        p.Brand,
		"category":     p.Category,
		"price":        p.Price,
		"countInStock": p.CountInStock,
		"rating":       p.Rating,
		"numReviews":   p.NumReviews,
		"createdAt":    p.CreatedAt,
	}
}

// productUpdateJSON renders the narrower shape returned by full updates
func productUpdateJSON(p model.Product) echo.Map {
	return echo.Map{
		"_id":          p.ID,
		"name":         p.Name,
		"description":  p.Description,
		"brand":        p.Brand,
		"category":     p.Category,
		"price":        p.Price,
		"countInStock": p.CountInStock,
	}
}

func productListJSON(products []model.Product) []echo.Map {
	out := make([]echo.Map, 0, len(products))
	for _, p := range products {
		out = append(out, productJSON(p))
	}
	return out
}

// listPage runs the catalog list query for the current request
func listPage(c echo.Context) (*catalog.Page, error) {
	params, err := catalog.ParseListParams(c.QueryParams())
	if err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	page, err := catalog.List(database.GetDB(), c.Request().URL, params)
	if err != nil {
		return nil, err
	}

	if products, ok := page.Results.([]model.Product); ok {
		page.Results = productListJSON(products)
	}
	return page, nil
}

// ListProducts handles the filtered, ordered, paginated catalog listing
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	page, err := listPage(c)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrInvalidPage):
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Invalid page."})
	case errors.Is(err, catalog.ErrInvalidOrdering):
		log.Warn("Rejected ordering parameter", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	default:
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to retrieve products"})
	}

	prometheus.RecordProductOperation("list")
	return c.JSON(http.StatusOK, page)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	if err := database.GetDB().First(&product, "id = ?", id).Error; err != nil {
		log.Warn("Product not found", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
	}

	prometheus.RecordProductOperation("get")
	return c.JSON(http.StatusOK, productJSON(product))
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.CurrentUser(c)

	if !authz.CanWriteProduct(claims, nil) {
		return forbidden(c)
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid product payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request data"})
	}

	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, errs)
	}

	product := model.Product{
		UserID:      &claims.UserID,
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CountInStock != nil {
		product.CountInStock = *req.CountInStock
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.NumReviews != nil {
		product.NumReviews = *req.NumReviews
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := database.GetDB().Create(&product).Error; err != nil {
		log.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to create product"})
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, productJSON(product))
}

// UpdateProduct handles the full overwrite of a product's editable fields
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	if err := database.GetDB().First(&product, "id = ?", id).Error; err != nil {
		log.Warn("Product not found for update", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
	}

	if !authz.CanWriteProduct(middleware.CurrentUser(c), &product) {
		return forbidden(c)
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid product payload", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request data"})
	}

	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, errs)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Brand = req.Brand
	product.Category = req.Category
	product.Price = 0
	product.CountInStock = 0
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CountInStock != nil {
		product.CountInStock = *req.CountInStock
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	// Only the editable columns, so createdAt and image are untouched
	err := database.GetDB().Model(&product).
		Select("name", "description", "brand", "category", "price", "count_in_stock").
		Updates(map[string]interface{}{
			"name":           product.Name,
			"description":    product.Description,
			"brand":          product.Brand,
			"category":       product.Category,
			"price":          product.Price,
			"count_in_stock": product.CountInStock,
		}).Error
	if err != nil {
		log.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to update product"})
	}

	prometheus.RecordProductOperation("update")
	return c.JSON(http.StatusOK, productUpdateJSON(product))
}

// PatchProduct handles a partial update, merging only the provided fields
func PatchProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	if err := database.GetDB().First(&product, "id = ?", id).Error; err != nil {
		log.Warn("Product not found for patch", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
	}

	if !authz.CanWriteProduct(middleware.CurrentUser(c), &product) {
		return forbidden(c)
	}

	// Raw map so only fields present in the body are touched
	payload := map[string]interface{}{}
	if err := c.Bind(&payload); err != nil {
		log.Warn("Invalid product payload", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request data"})
	}

	updates := map[string]interface{}{}
	errs := map[string]string{}

	if v, ok := payload["name"].(string); ok {
		updates["name"] = v
	}
	if v, ok := payload["description"].(string); ok {
		updates["description"] = v
	}
	if v, ok := payload["brand"].(string); ok {
		updates["brand"] = v
	}
	if v, ok := payload["category"].(string); ok {
		updates["category"] = v
	}
	if v, ok := payload["price"].(float64); ok {
		if v < 0 {
			errs["price"] = "Price must be ≥ 0."
		} else {
			updates["price"] = v
		}
	}
	if v, ok := payload["countInStock"].(float64); ok {
		if v < 0 {
			errs["countInStock"] = "countInStock must be ≥ 0."
		} else {
			updates["count_in_stock"] = int(v)
		}
	}
	if v, ok := payload["rating"].(float64); ok {
		updates["rating"] = v
	}
	if v, ok := payload["numReviews"].(float64); ok {
		updates["num_reviews"] = int(v)
	}

	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, errs)
	}

	if len(updates) > 0 {
		defer prometheus.TrackDBOperation("update")(time.Now())
		if err := database.GetDB().Model(&product).Updates(updates).Error; err != nil {
			log.Error("Failed to patch product", zap.String("product_id", id), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to update product"})
		}
	}

	prometheus.RecordProductOperation("patch")
	return c.JSON(http.StatusOK, productJSON(product))
}

// UpdateStock handles the dedicated stock-count endpoint
func UpdateStock(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	if err := database.GetDB().First(&product, "id = ?", id).Error; err != nil {
		log.Warn("Product not found for stock update", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
	}

	payload := map[string]interface{}{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request data"})
	}

	raw, exists := payload["countInStock"]
	if !exists || raw == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "countInStock is required."})
	}

	var count int
	switch v := raw.(type) {
	case float64:
		count = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "countInStock must be an integer."})
		}
		count = parsed
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "countInStock must be an integer."})
	}

	if count < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "countInStock must be ≥ 0."})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := database.GetDB().Model(&product).UpdateColumn("count_in_stock", count).Error; err != nil {
		log.Error("Failed to update stock", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to update product"})
	}

	product.CountInStock = count
	prometheus.RecordProductOperation("stock")
	return c.JSON(http.StatusOK, productJSON(product))
}

// UploadProductImage stores a new image for a product and removes the
// previous one
func UploadProductImage(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	if err := database.GetDB().First(&product, "id = ?", id).Error; err != nil {
		log.Warn("Product not found for image upload", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"detail": "No file provided. Use field name 'image'.",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to store image"})
	}
	defer src.Close()

	rel, err := store.Save("products", fileHeader.Filename, src)
	if err != nil {
		log.Error("Failed to store image", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to store image"})
	}

	oldImage := product.Image

	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := database.GetDB().Model(&product).UpdateColumn("image", rel).Error; err != nil {
		log.Error("Failed to attach image", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to store image"})
	}
	product.Image = rel

	// Replaced image is removed; a failure here only leaves an orphan file
	if oldImage != "" {
		if err := store.Delete(oldImage); err != nil {
			log.Warn("Failed to delete replaced image",
				zap.String("path", oldImage),
				zap.Error(err))
		}
	}

	prometheus.RecordProductOperation("upload_image")
	log.Info("Product image replaced",
		zap.Uint("product_id", product.ID),
		zap.String("image", rel))
	return c.JSON(http.StatusOK, productJSON(product))
}

// DeleteProduct handles deleting a product
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	if err := database.GetDB().First(&product, "id = ?", id).Error; err != nil {
		log.Warn("Product not found for deletion", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
	}

	if !authz.CanWriteProduct(middleware.CurrentUser(c), &product) {
		return forbidden(c)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := database.GetDB().Delete(&product).Error; err != nil {
		log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to delete product"})
	}

	prometheus.RecordProductOperation("delete")
	return c.NoContent(http.StatusNoContent)
}

// InsertSampleProducts seeds the catalog from the fixture when empty and
// returns the first catalog page
func InsertSampleProducts(c echo.Context) error {
	log := logger.FromContext(c)

	if _, err := catalog.SeedIfEmpty(database.GetDB(), log, seedFixturePath); err != nil {
		log.Error("Failed to seed products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to seed products"})
	}

	page, err := listPage(c)
	if err != nil {
		log.Error("Failed to list products after seeding", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to retrieve products"})
	}

	prometheus.RecordProductOperation("seed")
	return c.JSON(http.StatusOK, page)
}

// forbidden writes the standard permission-denied response
func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{
		"detail": "You do not have permission to perform this action.",
	})
}
