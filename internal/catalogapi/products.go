package catalogapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openmart/catalog/internal/domain"
	"github.com/openmart/catalog/internal/webserver"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productPayload struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Category    string           `json:"category" validate:"required,max=255"`
	Image       string           `json:"image" validate:"required,url,max=1024"`
	Sold        bool             `json:"sold"`
	IsSale      bool             `json:"is_sale"`
	DateOfSale  *string          `json:"date_of_sale"`
}

type productPatchPayload struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Category    *string          `json:"category" validate:"omitempty,max=255"`
	Image       *string          `json:"image" validate:"omitempty,url,max=1024"`
	Sold        *bool            `json:"sold"`
	IsSale      *bool            `json:"is_sale"`
	DateOfSale  *string          `json:"date_of_sale"`
}

// registerProductRoutes registers catalog CRUD and aggregate endpoints
func registerProductRoutes() {
	webserver.ApiGET("/list", listProducts)
	webserver.ApiPOST("/add", createProduct)
	webserver.ApiPUT("/:id", updateProduct)
	webserver.ApiPATCH("/:id", patchProduct)
	webserver.ApiDELETE("/:id/delete", deleteProduct)
	webserver.ApiGET("/price_range", priceRange)
	webserver.ApiGET("/categories", listCategories)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Product{})

	if v := strings.TrimSpace(c.QueryParam("min_price")); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			db = db.Where("price >= ?", d)
		}
	}
	if v := strings.TrimSpace(c.QueryParam("max_price")); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			db = db.Where("price <= ?", d)
		}
	}
	// exact match ignoring case: no pattern metacharacters on any dialect
	if v := strings.TrimSpace(c.QueryParam("category")); v != "" {
		db = db.Where("LOWER(category) = ?", strings.ToLower(v))
	}
	if v := strings.TrimSpace(c.QueryParam("sold")); v != "" {
		if sold, err := strconv.ParseBool(v); err == nil {
			db = db.Where("sold = ?", sold)
		}
	}
	if q := strings.TrimSpace(c.QueryParam("search")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("title ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}

	// whitelist allowed ordering columns, '-' prefix means descending
	order := "id ASC"
	if v := strings.TrimSpace(c.QueryParam("ordering")); v != "" {
		direction := "ASC"
		col := v
		if strings.HasPrefix(v, "-") {
			direction = "DESC"
			col = v[1:]
		}
		allowed := map[string]string{
			"price": "price",
			"title": "title",
		}
		if sortCol, allowedCol := allowed[col]; allowedCol {
			order = sortCol + " " + direction
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	rows := make([]domain.Product, 0)
	if err := db.Order(order).Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

// payloadFieldErrors runs the checks the validator tags cannot express
func payloadFieldErrors(price *decimal.Decimal, dateOfSale *string) (map[string][]string, *time.Time) {
	fieldErrors := map[string][]string{}
	if price != nil && !validPrice(*price) {
		fieldErrors["price"] = append(fieldErrors["price"],
			"Ensure that there are no more than 10 digits in total and 2 decimal places.")
	}
	var saleDate *time.Time
	if dateOfSale != nil && strings.TrimSpace(*dateOfSale) != "" {
		d, err := parseSaleDate(*dateOfSale)
		if err != nil {
			fieldErrors["date_of_sale"] = append(fieldErrors["date_of_sale"], "Enter a valid date.")
		} else {
			saleDate = d
		}
	}
	return fieldErrors, saleDate
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	fieldErrors, saleDate := payloadFieldErrors(payload.Price, payload.DateOfSale)
	if len(fieldErrors) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", fieldErrors)
	}

	now := time.Now()
	p := domain.Product{
		Title:       strings.TrimSpace(payload.Title),
		Price:       *payload.Price,
		Description: payload.Description,
		Category:    strings.TrimSpace(payload.Category),
		Image:       strings.TrimSpace(payload.Image),
		Sold:        payload.Sold,
		IsSale:      payload.IsSale,
		DateOfSale:  saleDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return created(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	fieldErrors, saleDate := payloadFieldErrors(payload.Price, payload.DateOfSale)
	if len(fieldErrors) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", fieldErrors)
	}

	p.Title = strings.TrimSpace(payload.Title)
	p.Price = *payload.Price
	p.Description = payload.Description
	p.Category = strings.TrimSpace(payload.Category)
	p.Image = strings.TrimSpace(payload.Image)
	p.Sold = payload.Sold
	p.IsSale = payload.IsSale
	p.DateOfSale = saleDate
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func patchProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPatchPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	fieldErrors, saleDate := payloadFieldErrors(payload.Price, payload.DateOfSale)
	if len(fieldErrors) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", fieldErrors)
	}

	if payload.Title != nil {
		p.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Price != nil {
		p.Price = *payload.Price
	}
	if payload.Description != nil {
		p.Description = *payload.Description
	}
	if payload.Category != nil {
		p.Category = strings.TrimSpace(*payload.Category)
	}
	if payload.Image != nil {
		p.Image = strings.TrimSpace(*payload.Image)
	}
	if payload.Sold != nil {
		p.Sold = *payload.Sold
	}
	if payload.IsSale != nil {
		p.IsSale = *payload.IsSale
	}
	if payload.DateOfSale != nil {
		// empty string clears the sale date
		p.DateOfSale = saleDate
	}
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func priceRange(c echo.Context) error {
	var agg struct {
		MinPrice decimal.NullDecimal
		MaxPrice decimal.NullDecimal
	}
	err := GetDB(c).Model(&domain.Product{}).
		Select("MIN(price) AS min_price, MAX(price) AS max_price").
		Scan(&agg).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query price range", err.Error())
	}
	return ok(c, echo.Map{
		"min_price": agg.MinPrice,
		"max_price": agg.MaxPrice,
	})
}

func listCategories(c echo.Context) error {
	categories := make([]string, 0)
	err := GetDB(c).Model(&domain.Product{}).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, categories)
}
